package prompts

import "fmt"

// Input is a superset of the fields either prompt renders.
type Input struct {
	Goal      string
	Days      int
	StartDate string
	// Adaptation only.
	Plan         string
	ProgressJSON string
	Feedback     string
}

// Limits caps embedded free-text fields, in characters. Zero disables a cap.
type Limits struct {
	Goal     int
	Plan     int
	Progress int
	Feedback int
}

// LimitError reports an embedded field that exceeded its cap. Oversized input
// is rejected rather than truncated so the caller never adapts half a plan.
type LimitError struct {
	Field string
	Len   int
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s is too large (%d characters, max %d)", e.Field, e.Len, e.Max)
}

// MissingFieldError reports a required field that was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required"
}
