package usecase

// Options narrows a run to a single channel. Both false means both
// channels are active.
type Options struct {
	EmailOnly bool
	SMSOnly   bool
}

// RunStats summarizes one new-lead or follow-up pass.
type RunStats struct {
	RunID     string `json:"run_id"`
	Processed int    `json:"processed"`
	EmailSent int    `json:"email_sent"`
	SMSSent   int    `json:"sms_sent"`
	Errors    int    `json:"errors"`
}

// ResponseStats summarizes one response-check pass.
type ResponseStats struct {
	EmailReplies int `json:"email_replies"`
	SMSReplies   int `json:"sms_replies"`
	Unsubscribes int `json:"unsubscribes"`
}

// ChannelStats reports a channel's position inside the current rate window.
type ChannelStats struct {
	SentThisHour int  `json:"sent_this_hour"`
	RateLimit    int  `json:"rate_limit"`
	CanSendMore  bool `json:"can_send_more"`
}

// SystemStatus is the aggregate view served by the status command and the
// /status endpoint.
type SystemStatus struct {
	Timestamp        string         `json:"timestamp"`
	TotalLeads       int            `json:"total_leads"`
	StatusBreakdown  map[string]int `json:"status_breakdown"`
	EmailService     ChannelStats   `json:"email_service"`
	SMSService       ChannelStats   `json:"sms_service"`
	FollowUpsPending int            `json:"follow_ups_pending"`
}
