package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches network failures and non-success statuses.
	ErrTransport = errors.New("transport error")
	// ErrDecode matches response bodies that could not be parsed.
	ErrDecode = errors.New("decode error")
)

// ErrorKind classifies an Error.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindDecode    ErrorKind = "decode"
)

// Error is a classified failure of one request.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

func statusError(status int, body []byte) *Error {
	return &Error{
		Kind:       KindTransport,
		StatusCode: status,
		Message:    "request failed",
		Body:       body,
	}
}

func networkError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "request failed", Err: err}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: "failed to decode response", Err: err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
