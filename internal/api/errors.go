package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why an API call failed
type Kind int

const (
	// KindTransport is for connection failures, timeouts and DNS errors
	KindTransport Kind = iota + 1
	// KindStatus is for non-2xx responses not covered by a narrower kind
	KindStatus
	// KindUnauthorized is for 401/403 responses and bearer calls made without a token
	KindUnauthorized
	// KindNotFound is for 404 responses
	KindNotFound
	// KindDecode is for response bodies that are not the expected JSON
	KindDecode
	// KindValidation is for payloads rejected before anything was sent
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindDecode:
		return "decode"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method that fails
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	// Detail is the server's "detail" message when one was returned
	Detail string
	Err    error
}

func (e *Error) Error() string {
	target := e.Path
	if e.Method != "" {
		target = e.Method + " " + e.Path
	}

	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s: %s %d: %s", target, e.Kind, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s %d", target, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", target, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", target, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 when err is not an *Error
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// kindForStatus maps a non-2xx status code to an error kind
func kindForStatus(code int) Kind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindStatus
	}
}
