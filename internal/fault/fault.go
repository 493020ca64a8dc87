package fault

import (
	"errors"
	"fmt"
)

// Class groups errors by how the run reacts to them.
type Class int

const (
	Unknown Class = iota
	Config
	Input
	IO
	Database
	Capability
	Verification
)

func (c Class) String() string {
	switch c {
	case Config:
		return "configuration"
	case Input:
		return "input"
	case IO:
		return "i/o"
	case Database:
		return "database"
	case Capability:
		return "capability"
	case Verification:
		return "verification"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this class end the run.
// Capability and verification errors are handled where they occur.
func (c Class) Fatal() bool {
	return c != Capability && c != Verification
}

// Error tags an underlying error with its class.
type Error struct {
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err in the given class. A nil err stays nil.
func New(class Class, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Class: class, Err: err}
}

// Newf is New with a formatted cause.
func Newf(class Class, format string, args ...any) error {
	return &Error{Class: class, Err: fmt.Errorf(format, args...)}
}

// ClassOf returns the class of the outermost fault in err's chain.
func ClassOf(err error) Class {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Class
	}
	return Unknown
}

// Is reports whether err carries the given class.
func Is(err error, class Class) bool {
	return err != nil && ClassOf(err) == class
}
