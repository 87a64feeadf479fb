package frame

import (
	"errors"
	"fmt"
)

// Causes carried by InternalError
var (
	ErrSlotOutOfRange     = errors.New("slot index out of range")
	ErrKindMismatch       = errors.New("accessor does not match slot kind")
	ErrFrozenDescriptor   = errors.New("descriptor already in use by a frame")
	ErrDuplicateSlot      = errors.New("duplicate slot name")
	ErrUnwritten          = errors.New("slot has never been written")
	ErrDescriptorMismatch = errors.New("frame was not built from the slot's descriptor")
	ErrNoFrame            = errors.New("no frame in context")
	ErrNoGeneratorFrame   = errors.New("no materialized generator frame in context")
)

// InternalError is a contract violation inside the interpreter: a frame
// descriptor mismatch, an out of range slot, or a typed read that disagrees
// with the slot kind. It is never a language-level error and aborts the
// current activation.
type InternalError struct {
	Op   string
	Slot int
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s slot %d: %v", e.Op, e.Slot, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func internalErr(op string, slot int, cause error) *InternalError {
	return &InternalError{Op: op, Slot: slot, Err: cause}
}

// IsInternal reports whether err is, or wraps, an InternalError
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
