// Package magic validates and submits magic column questions.
package magic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/jeebeez/another-signal/internal/gateway"
)

// MaxLength is the maximum question length in characters.
const MaxLength = 200

// NearLimit is the remaining character count at which the counter warns.
const NearLimit = 20

// User-facing messages.
const (
	MsgEmpty   = "Please enter a question"
	MsgTooLong = "Question must be 200 characters or fewer"
	MsgFailed  = "Failed to create magic column"
)

var (
	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New(MsgEmpty)
	// ErrTooLong is returned for a question over MaxLength characters.
	ErrTooLong = errors.New(MsgTooLong)
	// ErrPending is returned while another submission is in flight.
	ErrPending = errors.New("a magic column request is already pending")
)

// Validate checks question and returns it trimmed.
func Validate(question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	if utf8.RuneCountInString(q) > MaxLength {
		return "", ErrTooLong
	}
	return q, nil
}

// Counter describes the remaining character budget of a draft question.
type Counter struct {
	Length    int
	Remaining int
	Near      bool
}

// Remaining returns the character counter for a draft question.
func Remaining(question string) Counter {
	n := utf8.RuneCountInString(question)
	left := MaxLength - n
	return Counter{Length: n, Remaining: left, Near: left <= NearLimit}
}

// Requester asks the backend to generate a magic column.
type Requester interface {
	RequestMagicColumn(ctx context.Context, question string) (bool, error)
}

// FailedError is a submission the backend rejected. Its message is the toast text.
type FailedError struct {
	Err error
}

func (e *FailedError) Error() string { return MsgFailed }

func (e *FailedError) Unwrap() error { return e.Err }

// Detail returns the backend message of the failure.
func (e *FailedError) Detail() string { return gateway.Message(e.Err) }

// Submitter sends magic column questions, one at a time.
type Submitter struct {
	requester Requester
	pending   atomic.Bool
}

// NewSubmitter creates a submitter.
func NewSubmitter(r Requester) *Submitter {
	return &Submitter{requester: r}
}

// Pending reports whether a submission is in flight.
func (s *Submitter) Pending() bool {
	return s.pending.Load()
}

// Submit validates question and sends it. Invalid questions never reach the backend.
func (s *Submitter) Submit(ctx context.Context, question string) (string, error) {
	q, err := Validate(question)
	if err != nil {
		return "", err
	}
	if !s.pending.CompareAndSwap(false, true) {
		return "", ErrPending
	}
	defer s.pending.Store(false)

	ok, err := s.requester.RequestMagicColumn(ctx, q)
	if err != nil {
		return "", &FailedError{Err: err}
	}
	if !ok {
		return "", &FailedError{Err: fmt.Errorf("backend declined question %q", q)}
	}
	return q, nil
}
