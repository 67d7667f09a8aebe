package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	MsgForbidden    = "you do not have permission to perform this action"
	MsgServer       = "server error, please try again later"
	MsgConnection   = "connection error, check your network"
	MsgIfoodExpired = "iFood token expired or invalid, please re-authenticate"
)

// Error is a failed call to the backend. Status is zero when the request
// never produced a response.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a backend response with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Message turns err into text for the operator: the backend's own message
// when it sent one, a status-specific text for permission, server and
// connection failures, and fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	switch {
	case apiErr.Message != "":
		return apiErr.Message
	case apiErr.Status == 0:
		return MsgConnection
	case apiErr.Status == http.StatusForbidden:
		return MsgForbidden
	case apiErr.Status >= http.StatusInternalServerError:
		return MsgServer
	}
	return fallback
}
