package vector

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is wrapped by every IndexError.
var ErrOutOfBounds = errors.New("index out of bounds")

// ErrUnknownOp is returned when applying a VectorDiff with an invalid Op.
var ErrUnknownOp = errors.New("unknown diff op")

// IndexError reports an index that does not fit the sequence it was used
// on. A mutation that fails with an IndexError leaves the vector unchanged
// and emits no diff.
type IndexError struct {
	Op    DiffOp
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("vector %s: index %d out of bounds for length %d", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrOutOfBounds
}
