package rater

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStale is returned when a response arrived after a newer request for
// the session had already been issued. The response was discarded.
var ErrStale = errors.New("response superseded by a newer request")

// ValidationError reports input rejected before any network call. The
// session state is unchanged.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned by a Backend when a filename search has no
// match. Message is the server's text and is shown to users verbatim.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Op names the category of a failed network operation.
type Op string

const (
	OpLoad   Op = "load"
	OpSearch Op = "search"
	OpSubmit Op = "submit"
)

// OpError wraps a failed fetch, search or submission.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	switch e.Op {
	case OpSearch:
		return "an error occurred while searching for the image"
	case OpSubmit:
		return "failed to submit ratings"
	default:
		return "failed to load images"
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// PartialSubmissionError reports that at least one rating of a batch was
// rejected. Which ratings were stored is unknown; the session re-fetches
// so the displayed state is the server's.
type PartialSubmissionError struct {
	Attempted int
	Err       error
}

func (e *PartialSubmissionError) Error() string {
	return "an error occurred during submission; some ratings may not have been saved"
}

func (e *PartialSubmissionError) Unwrap() error {
	return e.Err
}

// RejectedEdit is a pending edit that could not be submitted because a
// rating is set neither locally nor on the server.
type RejectedEdit struct {
	ImageID  int64
	Filename string
	Missing  []Field
}

func (r RejectedEdit) String() string {
	missing := make([]string, len(r.Missing))
	for i, f := range r.Missing {
		missing[i] = f.String()
	}
	return fmt.Sprintf("image %d (%s) is missing %s", r.ImageID, r.Filename, strings.Join(missing, " and "))
}
