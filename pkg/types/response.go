// Package types holds the JSON envelopes every closetly endpoint speaks.
package types

// SuccessEnvelope wraps a successful payload under a single data key so
// clients can decode responses uniformly.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire shape of a failed request. Details is populated only
// for codes that allow structured context (validation fields, missing outfit
// categories, the premium gate).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope nests the error so the top-level key distinguishes failures
// from SuccessEnvelope payloads.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
