package session

import (
	"errors"
	"fmt"
)

// ErrSessionIncomplete is returned by CompleteSession when the draft is empty
// or holds a set that is not complete.
var ErrSessionIncomplete = errors.New("session is not complete")

// SubmissionError reports a failed create-session call. The draft is kept.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting session: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
