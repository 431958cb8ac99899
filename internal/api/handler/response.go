package handler

// Envelope is the normalized response shape for every mutation endpoint.
// Success responses carry data plus a human-readable message; failures carry
// the reason under Error. Callers branch on success, never on status alone.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"Error,omitempty"`
}

// OK builds a success envelope.
func OK(data any, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope.
func Fail(reason string) Envelope {
	return Envelope{Success: false, Error: reason}
}
