package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch matches every *FetchError.
	ErrFetch = errors.New("fetch failed")
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("parse failed")
)

// FetchError reports a transport failure or a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to load weather data from %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to load weather data from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError reports a payload that is not valid JSON or does not match the
// dataset schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed weather data: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
