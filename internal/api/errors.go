package api

import "errors"

// ErrInvalidRequest matches every error caused by the request payload.
var ErrInvalidRequest = errors.New("invalid request")

// requestError is a client error, optionally tied to one request field.
type requestError struct {
	field string
	msg   string
}

func (e *requestError) Error() string {
	if e.field == "" {
		return e.msg
	}
	return e.field + ": " + e.msg
}

func (e *requestError) Unwrap() error { return ErrInvalidRequest }

func newInvalidRequest(msg string) error {
	return &requestError{msg: msg}
}

func newFieldError(field, msg string) error {
	return &requestError{field: field, msg: msg}
}
