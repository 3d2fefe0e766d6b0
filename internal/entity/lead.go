package entity

// Lead statuses. Happy path is New -> Contacted -> Follow-up Sent;
// Responded and Unsubscribed can be reached from any non-terminal state.
const (
	StatusNew          = "New"
	StatusContacted    = "Contacted"
	StatusResponded    = "Responded"
	StatusFollowUpSent = "Follow-up Sent"
	StatusUnsubscribed = "Unsubscribed"
	StatusConverted    = "Converted"
)

// Worksheet column positions (0-indexed). Row 1 is the header,
// data starts at row 2.
const (
	ColName = iota
	ColEmail
	ColPhone
	ColStatus
	ColDateContacted
	ColResponseReceived
	ColFollowUpSent
	ColNotes
	ColumnCount
)

type Lead struct {
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Status           string `json:"status"`
	DateContacted    string `json:"date_contacted,omitempty"`
	ResponseReceived string `json:"response_received,omitempty"`
	FollowUpSent     string `json:"follow_up_sent,omitempty"`
	Notes            string `json:"notes,omitempty"`

	// RowNumber is the positional handle into the backing store. Two leads
	// with identical contact info are still distinct records.
	RowNumber int `json:"row_number"`
}

// LeadUpdate carries a partial write: nil fields are left untouched
// in the backing store.
type LeadUpdate struct {
	Status           *string
	DateContacted    *string
	ResponseReceived *string
	FollowUpSent     *string
	Notes            *string
}

func Str(s string) *string { return &s }
