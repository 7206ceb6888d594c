// Package types holds the JSON envelopes shared by every storefront endpoint.
package types

// SuccessEnvelope wraps the payload of a 2xx response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// Success wraps data for the wire.
func Success(data any) SuccessEnvelope {
	return SuccessEnvelope{Data: data}
}

// APIError is the public face of a typed error. Details is only filled for
// codes that allow them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Failure builds the envelope of a rejected request. Nil details are omitted.
func Failure(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message, Details: details}}
}
