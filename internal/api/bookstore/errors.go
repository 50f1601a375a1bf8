package bookstore

import (
	"errors"
	"fmt"
)

// ErrNoSession reports a missing or rejected session credential. The caller is
// expected to surface the message once and send the user to the login view.
var ErrNoSession = errors.New("no authentication token found, please log in")

// fallbackMessage is shown when the API reports a failure without a usable
// message field.
const fallbackMessage = "something went wrong, please try again"

// APIError is a non-2xx response from the bookstore API with whatever message
// the response body carried.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bookstore api: status %d: %s", e.Status, e.Message)
}

// UserMessage returns the message to surface near the triggering control,
// preferring the structured message field over the generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoSession) {
		return ErrNoSession.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallbackMessage
}

// IsNoSession reports whether err means the session credential is missing or
// invalid, either detected before the call or inferred from the response.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}
