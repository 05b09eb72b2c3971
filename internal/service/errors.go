package service

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when movieId, showsInput or showPrice is absent
// or falsy.  No store or catalog call has been made when it is returned.
var ErrMissingField = errors.New("missing required fields")

// PersistenceError wraps a failure reported by the movie or show store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// InputError reports show input that passed the presence check but could not
// be turned into shows, such as an unparseable date or time.
type InputError struct {
	Date, Time string
	Err        error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid show date/time %q %q: %v", e.Date, e.Time, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
