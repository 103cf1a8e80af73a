package color

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidationMessage is shown next to the guess field while the input is invalid.
const ValidationMessage = "Input must be up to 6 characters and contain only 0-9, a-f"

// ErrIncompleteGuess is returned by Complete for a well-formed but short guess.
var ErrIncompleteGuess = errors.New("color: guess must have exactly 6 hex digits")

// Validation is the advisory result of Validate.
type Validation struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ValidationError carries a failed Validation as an error value.
type ValidationError struct {
	Value   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the in-progress text of a guess field. It is valid when it
// has at most 6 characters and each one, case-folded, is in 0-9a-f. The empty
// string is valid. Validate keeps no state between calls.
func Validate(candidate string) Validation {
	if utf8.RuneCountInString(candidate) > hexLen {
		return Validation{Message: ValidationMessage}
	}
	for _, r := range strings.ToLower(candidate) {
		if !isHexDigit(r) {
			return Validation{Message: ValidationMessage}
		}
	}
	return Validation{OK: true}
}

// Complete gates a submission: the candidate must pass Validate and contain
// exactly 6 digits. Short input is rejected, never padded or sliced.
func Complete(candidate string) error {
	if v := Validate(candidate); !v.OK {
		return &ValidationError{Value: candidate, Message: v.Message}
	}
	if len(candidate) != hexLen {
		return ErrIncompleteGuess
	}
	return nil
}

func isHexDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f'
}
