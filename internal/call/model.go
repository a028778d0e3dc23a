package call

// Outcome status values. Clients branch on the JSON status field, not the
// HTTP status code.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Outcome is the terminal result of one call-initiation request. It is
// serialized to the browser and discarded; nothing about it survives the
// request.
type Outcome struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SuccessOutcome reports an accepted dispatch.
func SuccessOutcome() Outcome {
	return Outcome{Status: StatusSuccess}
}

// ErrorOutcome reports a failed request with a human-readable cause.
func ErrorOutcome(message string) Outcome {
	return Outcome{Status: StatusError, Message: message}
}
