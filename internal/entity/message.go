package entity

// OutboundEmail is a fully rendered email ready for a transport. Headers
// carry the compliance headers (List-Unsubscribe and friends) that every
// outreach email must include.
type OutboundEmail struct {
	To       string
	Subject  string
	HTMLBody string
	Headers  map[string]string
}
