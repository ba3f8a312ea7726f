package models

// ErrorResponse is the body of every failed API call.
// Code is a stable dotted identifier (e.g. "component.invalid"), Error is shown to users verbatim.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// StatusResponse acknowledges calls that return no resource.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
