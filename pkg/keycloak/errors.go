package keycloak

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrNotFound is returned when the identity provider answers 404
var ErrNotFound = errors.New("keycloak: not found")

// Error is a non-2xx answer from the identity provider
type Error struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("keycloak %s failed (%d): %s", e.Operation, e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// messageFromBody extracts the human readable message keycloak puts in one of
// errorMessage, error_description, error, or errors[0].errorMessage
func messageFromBody(body []byte, status int) string {
	for _, path := range []string{"errorMessage", "error_description", "error", "errors.0.errorMessage", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return http.StatusText(status)
}

func newError(operation string, status int, body []byte) *Error {
	return &Error{Operation: operation, StatusCode: status, Message: messageFromBody(body, status)}
}
