package twilio

type accountResponse struct {
	SID          string `json:"sid"`
	FriendlyName string `json:"friendly_name"`
	Status       string `json:"status"`
}

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type listMessagesResponse struct {
	Messages []inboundMessage `json:"messages"`
}

type inboundMessage struct {
	SID      string `json:"sid"`
	From     string `json:"from"`
	To       string `json:"to"`
	Body     string `json:"body"`
	DateSent string `json:"date_sent"` // RFC1123Z, e.g. "Tue, 10 Jun 2025 14:30:00 +0000"
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
