package parse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWordNotFound means a target's label could not be located, even after repair.
	ErrWordNotFound = errors.New("word not found")
	// ErrEmptyInput is a WordNotFound raised before any search because the buffer is empty.
	ErrEmptyInput = fmt.Errorf("empty input: %w", ErrWordNotFound)
	// ErrTargetMismatch means a target was requested for a weapon kind it does not apply to.
	ErrTargetMismatch = errors.New("search target not applicable to weapon kind")
	// ErrAmbiguousConversion is returned for conversions with no single answer.
	ErrAmbiguousConversion = errors.New("ambiguous conversion")
	// ErrForeignWeapon is returned when a statistic is added to another weapon's result set.
	ErrForeignWeapon = errors.New("statistic belongs to a different weapon")
	ErrSealed        = errors.New("result set is sealed")
)

// WordNotFoundError names the words that could not be located for a target.
type WordNotFoundError struct {
	Target SearchTarget
	Words  []string
	Reason string
	// Empty is set when the buffer had no text at all.
	Empty bool
}

func (e *WordNotFoundError) Error() string {
	msg := fmt.Sprintf("%s: could not locate %q", e.Target, strings.Join(e.Words, " "))
	if e.Empty {
		msg += ": empty input"
	} else if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *WordNotFoundError) Unwrap() error {
	if e.Empty {
		return ErrEmptyInput
	}
	return ErrWordNotFound
}

// IsHard reports whether err is a contract violation that must abort extraction.
func IsHard(err error) bool {
	return errors.Is(err, ErrTargetMismatch) || errors.Is(err, ErrAmbiguousConversion)
}
