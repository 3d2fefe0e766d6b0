package entity

import "time"

// Reply classification outcomes.
const (
	ReplyUnsubscribe = "unsubscribe"
	ReplyOptOut      = "opt_out"
	ReplyInterested  = "interested"
	ReplyPlain       = "reply"
)

// Channel names.
const (
	ChannelEmail = "Email"
	ChannelSMS   = "SMS"
)

// Reply is an inbound message fetched live from a provider. It is never
// persisted beyond the classification pass.
type Reply struct {
	Type       string    `json:"type"`
	Channel    string    `json:"channel"`
	From       string    `json:"from"`
	Subject    string    `json:"subject,omitempty"`
	Body       string    `json:"body,omitempty"`
	MessageID  string    `json:"message_id,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// IsOptOut reports whether the reply asks for outreach to stop.
func (r Reply) IsOptOut() bool {
	return r.Type == ReplyUnsubscribe || r.Type == ReplyOptOut
}
