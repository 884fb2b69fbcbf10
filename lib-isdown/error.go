package isdown

import (
	"errors"
	"fmt"
)

// The errors in this package can check the error type via errors.Is function.
var (
	// ErrInvalidObservation is a error for if failed to parse a history record.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrMissingTimestamp is a error for if a history record has no timestamp.
	ErrMissingTimestamp = fmt.Errorf("%w: the timestamp is required", ErrInvalidObservation)

	// ErrInvalidTime is a error for if a timestamp is not ISO-8601.
	ErrInvalidTime = errors.New("invalid time format")
)

func invalidObservation(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidObservation, err)
}
