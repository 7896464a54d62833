package schema

import "fmt"

// ViolationError reports a value that does not satisfy its declared field
// type.
type ViolationError struct {
	Path   string // element path, e.g. tasks.task[1]
	Field  string
	Wanted string // user-facing description of the expected type
	Detail string
}

func (e *ViolationError) Error() string {
	msg := fmt.Sprintf("%s: field %q: expected %s", e.Path, e.Field, e.Wanted)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// MissingFieldError reports an absent field that the schema marks required.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field %q is missing", e.Path, e.Field)
}

// UnexpectedFieldError reports an attribute or child block the schema does
// not declare.
type UnexpectedFieldError struct {
	Path   string
	Field  string
	Reason string
}

func (e *UnexpectedFieldError) Error() string {
	msg := fmt.Sprintf("%s: unexpected field %q", e.Path, e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
