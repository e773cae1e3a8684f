package form

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitInProgress is returned by Submit while a previous submission is
	// still waiting on its callback.
	ErrSubmitInProgress = errors.New("form: submit already in progress")
	// ErrEntryRemoved reports that a path addressed a list entry that no
	// longer exists.
	ErrEntryRemoved = errors.New("form: list entry removed")
	// ErrNotList is returned by list mutators when the path is not a list field.
	ErrNotList = errors.New("form: path is not a list field")
)

// BindingError reports a path that cannot be bound to the schema.
type BindingError struct {
	Path   string
	Reason string
	Err    error
}

func (e *BindingError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("form: bind %q: %s", e.Path, e.Reason)
}

func (e *BindingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SubmitError wraps the failure returned by a submit callback. The record is
// left untouched so the user can retry.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	if e == nil || e.Err == nil {
		return "form: submit failed"
	}
	return "form: submit failed: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
