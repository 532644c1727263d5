package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a quiz session id is unknown or expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionNotFound indicates a referenced question id is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnknownCategory is returned for a category outside the fixed set.
	ErrUnknownCategory = errors.New("unknown quiz category")
	// ErrValidation marks malformed question or answer data.
	ErrValidation = errors.New("invalid question data")
	// ErrIndexOutOfRange is returned when an edit/delete targets a missing position.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrEmptyCategory is returned when starting a quiz on a category without questions.
	ErrEmptyCategory = errors.New("category has no questions")
	// ErrAlreadyAnswered rejects a second answer for the same position.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered rejects advancing before the current question is answered.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrInvalidState is returned when a session operation is not valid in its current state.
	ErrInvalidState = errors.New("operation not valid in current session state")
	// ErrStorageCorrupt marks a persisted document that failed to parse.
	ErrStorageCorrupt = errors.New("stored questions are corrupt")
	// ErrRemoteUnavailable marks a failed call to the remote question/result store.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrDefaultProtected is returned when deleting a bundled question without override.
	ErrDefaultProtected = errors.New("bundled questions cannot be deleted")
	// ErrInvalidCSV marks an import file that does not follow the column layout.
	ErrInvalidCSV = errors.New("invalid csv")
)

// ValidationError names the offending field of a rejected question or answer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// LineError reports a CSV problem on a specific input line (1-based).
// Err, when set, is the underlying cause, such as a *ValidationError.
type LineError struct {
	Line   int
	Reason string
	Err    error
}

func (e *LineError) Error() string {
	if e.Err != nil && e.Reason == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *LineError) Is(target error) bool {
	return target == ErrInvalidCSV
}

func (e *LineError) Unwrap() error { return e.Err }
