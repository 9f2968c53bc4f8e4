package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error reply is read for the detail.
const maxErrorBody = 64 << 10

// APIError is a failed call to the document service.
type APIError struct {
	// Kind is the common error kind of the operation.
	Kind error
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Message is the human-readable text to show the user.
	Message string
	// Err is the transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// StatusCode returns the HTTP status of err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func transportError(kind error, err error) *APIError {
	return &APIError{Kind: kind, Message: err.Error(), Err: err}
}

// responseError builds the APIError for a non-2xx reply, preferring the
// service's "detail" field over the status line.
func responseError(kind error, resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := detailMessage(body)
	if msg == "" {
		msg = statusMessage(resp)
	}
	return &APIError{Kind: kind, StatusCode: resp.StatusCode, Message: msg}
}

// detailMessage extracts {"detail": ...}. A string detail is used as-is; a
// list of validation items contributes their "msg" fields.
func detailMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func statusMessage(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		text = phrase
	}
	return strings.TrimSpace(fmt.Sprintf("HTTP %d %s", resp.StatusCode, text))
}
