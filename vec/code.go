package vec

import (
	"errors"
	"strconv"
)

// Code is the outcome of a fallible Vector operation.
type Code uint8

// Outcomes of fallible operations.
const (
	// NoError reports that the operation took effect.
	NoError Code = iota

	// OutOfSpace reports an insertion into a full vector.
	OutOfSpace

	// OutOfRange reports a checked mutation outside the live range.
	OutOfRange

	// Empty reports a removal from an empty vector.
	Empty

	// CannotDefaultConstruct is reserved for default-fill operations.
	CannotDefaultConstruct
)

// Sentinel errors matching the failure codes.
var (
	ErrOutOfSpace             = errors.New("vec: out of space")
	ErrOutOfRange             = errors.New("vec: index out of range")
	ErrEmpty                  = errors.New("vec: empty")
	ErrCannotDefaultConstruct = errors.New("vec: cannot default construct")
)

// OK reports whether c is NoError.
func (c Code) OK() bool {
	return c == NoError
}

// Err converts the code to one of the sentinel errors, or nil for NoError.
func (c Code) Err() error {
	switch c {
	case NoError:
		return nil
	case OutOfSpace:
		return ErrOutOfSpace
	case OutOfRange:
		return ErrOutOfRange
	case Empty:
		return ErrEmpty
	case CannotDefaultConstruct:
		return ErrCannotDefaultConstruct
	default:
		panic("vec: unknown code")
	}
}

func (c Code) String() string {
	switch c {
	case NoError:
		return "NoError"
	case OutOfSpace:
		return "OutOfSpace"
	case OutOfRange:
		return "OutOfRange"
	case Empty:
		return "Empty"
	case CannotDefaultConstruct:
		return "CannotDefaultConstruct"
	default:
		return "Code(" + strconv.Itoa(int(c)) + ")"
	}
}
