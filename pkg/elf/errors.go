package elf

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated              = errors.New("truncated input")
	ErrBadMagic               = errors.New("bad magic")
	ErrUnknownEnumValue       = errors.New("unknown enum value")
	ErrUnknownFlagBits        = errors.New("unknown flag bits")
	ErrInconsistentRecordSize = errors.New("inconsistent record size")
	ErrTableOverflow          = errors.New("table overflows buffer")
	ErrTableOverlap           = errors.New("program and section header tables overlap")
	ErrInvalidName            = errors.New("invalid name")
	ErrUnsupported            = errors.New("unsupported")
	ErrIndexOutOfRange        = errors.New("index out of range")
)

// DecodeError reports which field failed to decode and why. Kind is one of
// the Err* sentinels above and is what errors.Is matches against.
type DecodeError struct {
	Kind   error
	Field  string
	Offset int
	Value  uint64
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrUnknownEnumValue, ErrUnknownFlagBits, ErrInconsistentRecordSize, ErrIndexOutOfRange, ErrUnsupported:
		return fmt.Sprintf("%s: %v 0x%x at offset %d", e.Field, e.Kind, e.Value, e.Offset)
	}
	return fmt.Sprintf("%s: %v at offset %d", e.Field, e.Kind, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

func newError(kind error, field string, off int, value uint64) error {
	return &DecodeError{Kind: kind, Field: field, Offset: off, Value: value}
}
