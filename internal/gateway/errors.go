package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindNotFound
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Default user-facing messages per kind.
const (
	MsgUnknown    = "An unexpected error occurred"
	MsgAuth       = "Authentication required. Please log in again."
	MsgNotFound   = "Resource not found"
	MsgValidation = "Validation error"
	MsgServer     = "Server error. Please try again later"
)

// Error is a failed gateway request. Message is safe to show to users.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Code    string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// errorBody is the optional JSON error payload of the backend.
type errorBody struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors"`
}

// networkError wraps a transport failure: no response was received.
func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgUnknown, Err: err}
}

// fromResponse builds an Error from a non-2xx response. A message in the JSON body
// replaces the default message of the status.
func fromResponse(resp *http.Response) *Error {
	e := &Error{Status: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		e.Kind, e.Message = KindAuth, MsgAuth
	case resp.StatusCode == http.StatusNotFound:
		e.Kind, e.Message = KindNotFound, MsgNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		e.Kind, e.Message = KindValidation, MsgValidation
	case resp.StatusCode >= 500:
		e.Kind, e.Message = KindServer, MsgServer
	default:
		e.Kind, e.Message = KindUnknown, MsgUnknown
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return e
	}
	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		return e
	}
	if body.Message != "" {
		e.Message = body.Message
	}
	e.Code = body.Code
	e.Fields = body.Errors
	return e
}

// Message returns the user-facing message of err: the gateway message when err is
// a gateway failure, the generic message otherwise.
func Message(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Message
	}
	return MsgUnknown
}

// IsKind reports whether err is a gateway failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == kind
}
