package http

// InboundSMSRequest is the webhook payload from the SMS gateway. The same
// fields are accepted as query parameters on GET callbacks; the gateway picks
// one style per account. MSISDN is the sender's number.
type InboundSMSRequest struct {
	Text   string `json:"text"`
	MSISDN string `json:"msisdn" validate:"required"`
	To     string `json:"to"`
}
