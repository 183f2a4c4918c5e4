package notify

import (
	"errors"
	"fmt"
)

type ErrorClass int

const (
	// ClassTransient errors are retried.
	ClassTransient ErrorClass = iota
	// ClassPermanent errors mean the destination itself is gone and must be
	// deregistered.
	ClassPermanent
)

func (c ErrorClass) String() string {
	if c == ClassPermanent {
		return "permanent"
	}
	return "transient"
}

// SinkError tags a delivery failure with its class.
type SinkError struct {
	Class ErrorClass
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink error: %v", e.Class, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &SinkError{Class: ClassPermanent, Err: err}
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &SinkError{Class: ClassTransient, Err: err}
}

// IsPermanent reports whether err carries ClassPermanent. Untagged errors
// are transient.
func IsPermanent(err error) bool {
	var se *SinkError
	return errors.As(err, &se) && se.Class == ClassPermanent
}
