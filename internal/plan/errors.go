package plan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPlan matches every import failure: malformed JSON as well as
// documents that fail validation.
var ErrInvalidPlan = errors.New("plan: invalid document")

// ParseError reports a document that is not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("plan: malformed json: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidPlan) match parse failures.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidPlan }

// Issue is one offending field of a rejected document.
type Issue struct {
	// Field is the location of the problem, e.g. "objects[2].lat". Empty
	// means the document root.
	Field   string
	Problem string
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Problem
	}
	return i.Field + ": " + i.Problem
}

// ValidationError enumerates every problem found in a well-formed but invalid
// document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "plan: invalid document: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidPlan) match validation failures.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidPlan }

// Fields returns the offending field paths in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		fields[i] = issue.Field
	}
	return fields
}
