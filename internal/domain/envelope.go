package domain

import "encoding/json"

const EnvelopeStatusSuccess = "success"

// Envelope is the wrapper every dog API response comes in.
// Message is only a payload when Status is "success"; otherwise it carries
// an error text.
type Envelope struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Code    int             `json:"code,omitempty"`
}

func (e Envelope) IsSuccess() bool {
	return e.Status == EnvelopeStatusSuccess
}
