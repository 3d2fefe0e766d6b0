package msgraph

// Token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// Workbook range payloads. Cell values come back as mixed types
// (strings, numbers), so they are decoded loosely and stringified.
type rangeResponse struct {
	Values [][]any `json:"values"`
}

type rangePatch struct {
	Values [][]string `json:"values"`
}

// sendMail payload.
type sendMailRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

type graphMessage struct {
	Subject                string          `json:"subject"`
	Body                   messageBody     `json:"body"`
	ToRecipients           []recipient     `json:"toRecipients"`
	From                   *recipient      `json:"from,omitempty"`
	InternetMessageHeaders []messageHeader `json:"internetMessageHeaders,omitempty"`
}

type messageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type messageHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Inbox listing response.
type listMessagesResponse struct {
	Value []inboxMessage `json:"value"`
}

type inboxMessage struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject"`
	Body             messageBody `json:"body"`
	From             recipient   `json:"from"`
	ReceivedDateTime string      `json:"receivedDateTime"`
}
