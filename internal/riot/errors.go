package riot

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is returned when Riot answers with a non-success status code.
type APIError struct {
	// Op names the call that failed, e.g. "fetch account for Faker#KR1".
	Op         string
	StatusCode int
	// Message is the human readable message from Riot's error envelope.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: riot api status %d: %s", e.Op, e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a raw error response body.
// Bodies that are not Riot's envelope fall back to the status text.
func newAPIError(op string, statusCode int, body []byte) *APIError {
	msg := http.StatusText(statusCode)

	var env errorBody
	if err := json.Unmarshal(body, &env); err == nil && env.Status.Message != "" {
		msg = env.Status.Message
	}

	return &APIError{Op: op, StatusCode: statusCode, Message: msg}
}
