package scanlog

import (
	"errors"
	"fmt"
)

// Error kinds returned by the codec. Every error from Decode, Encode and
// Validate matches exactly one of them under errors.Is:
//
//	if errors.Is(err, scanlog.ErrCountMismatch) {
//	    // place planes and shards disagree
//	}
var (
	// ErrNotFound is returned when log.yaml is missing or unreadable.
	ErrNotFound = errors.New("scan log not found")

	// ErrMalformedDocument is returned when the document does not parse or a
	// structurally required path is absent. Numeric leaves that fail to parse
	// only produce it under PolicyStrict.
	ErrMalformedDocument = errors.New("malformed scan log")

	// ErrCountMismatch is returned when the number of place planes differs
	// from the shard count.
	ErrCountMismatch = errors.New("place plane count does not match shard count")

	// ErrWriteError is returned when log.yaml cannot be written.
	ErrWriteError = errors.New("could not write scan log")
)

// Error pairs an error kind with the file it concerns and a message.
type Error struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.Error()
	if e.Path != "" {
		s += ": " + e.Path
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

// KindOf returns the kind sentinel of err, or nil if err did not come from
// this package.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

func newError(kind error, path string, err error, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, v...), Err: err}
}
