package model

import (
	"errors"
	"fmt"
)

// Request-level errors surfaced to the caller
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrFormNotPublished  = errors.New("form is not published")
	ErrAlreadySubmitted  = errors.New("response already submitted")
	ErrNotSubmitted      = errors.New("response not submitted")
	ErrDuplicateResponse = errors.New("respondent already responded to this form")
)

// MalformedAnswerError reports a raw answer value that cannot be coerced to
// its question's canonical form. Aggregation absorbs these per answer and
// tallies them instead of aborting.
type MalformedAnswerError struct {
	QuestionID string
	Reason     string
}

func (e *MalformedAnswerError) Error() string {
	return fmt.Sprintf("malformed answer for question %s: %s", e.QuestionID, e.Reason)
}

// InvalidInstrumentError reports a trader-rating question whose embedded
// instrument cannot be profiled. The question is excluded from risk analysis
// but not from the rest of aggregation.
type InvalidInstrumentError struct {
	QuestionID string
	Reason     string
}

func (e *InvalidInstrumentError) Error() string {
	return fmt.Sprintf("invalid instrument on question %s: %s", e.QuestionID, e.Reason)
}

// IsMalformedAnswer reports whether err is a MalformedAnswerError
func IsMalformedAnswer(err error) bool {
	var target *MalformedAnswerError
	return errors.As(err, &target)
}

// IsInvalidInstrument reports whether err is an InvalidInstrumentError
func IsInvalidInstrument(err error) bool {
	var target *InvalidInstrumentError
	return errors.As(err, &target)
}
