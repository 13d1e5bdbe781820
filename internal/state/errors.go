package state

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no drawing has been persisted under the key.
	ErrNotFound = errors.New("no saved canvas")
	// ErrSurfaceUnavailable is returned when a rendering surface cannot be acquired.
	ErrSurfaceUnavailable = errors.New("rendering surface unavailable")
)

// MalformedLogError reports persisted data that does not have the sample shape.
// Index is -1 when the problem is with the document rather than a record.
type MalformedLogError struct {
	Index int
	Field string
	Err   error
}

func (e *MalformedLogError) Error() string {
	switch {
	case e.Index < 0 && e.Field == "":
		return fmt.Sprintf("malformed stroke log: %v", e.Err)
	case e.Index < 0:
		return fmt.Sprintf("malformed stroke log: field %q: %v", e.Field, e.Err)
	case e.Field == "":
		return fmt.Sprintf("malformed stroke log: sample %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("malformed stroke log: sample %d field %q: %v", e.Index, e.Field, e.Err)
}

func (e *MalformedLogError) Unwrap() error { return e.Err }

var (
	errMissing   = errors.New("missing")
	errNullEntry = errors.New("null record")
)
