package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrAuthExpired is returned once the gateway's single transparent renewal
// has been spent (or no session exists at all). The caller must re-authenticate.
var ErrAuthExpired = errors.New("session expired, sign in again")

// errUnauthorized marks a 401 from an upstream service. It never leaves this
// package; the gateway either resolves it through renewal or converts it to
// ErrAuthExpired.
var errUnauthorized = errors.New("credential rejected")

// APIError is a non-retryable rejection from an upstream service (4xx).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// TransientError covers timeouts, connection failures and 5xx responses.
// The failed step may be retried by the user; nothing retries it automatically.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// readAPIError extracts a human-readable message from an error response body,
// preferring a JSON {"message": ...} payload over the raw bytes.
func readAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
