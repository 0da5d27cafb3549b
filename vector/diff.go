package vector

import (
	"fmt"
	"slices"
)

// DiffOp names the kind of change a VectorDiff describes.
type DiffOp uint8

const (
	OpPushBack DiffOp = iota + 1
	OpPushFront
	OpPopBack
	OpPopFront
	OpInsert
	OpSet
	OpRemove
	OpClear
	OpAppend
	OpTruncate
	// OpReset replaces the whole sequence. Subscribers get one when their
	// backlog overflowed and they must resynchronise.
	OpReset
)

var opNames = [...]string{
	OpPushBack:  "push_back",
	OpPushFront: "push_front",
	OpPopBack:   "pop_back",
	OpPopFront:  "pop_front",
	OpInsert:    "insert",
	OpSet:       "set",
	OpRemove:    "remove",
	OpClear:     "clear",
	OpAppend:    "append",
	OpTruncate:  "truncate",
	OpReset:     "reset",
}

func (op DiffOp) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("DiffOp(%d)", uint8(op))
}

// VectorDiff describes one mutation of a Vector. Which fields are
// meaningful depends on Op:
//
//	OpPushBack, OpPushFront   Value
//	OpInsert, OpSet           Index, Value
//	OpRemove                  Index
//	OpAppend, OpReset         Values
//	OpTruncate                Length
//	OpPopBack, OpPopFront,
//	OpClear                   none
//
// Diffs are shared between subscribers; treat Values as read-only.
type VectorDiff[T any] struct {
	Op     DiffOp
	Index  int
	Value  T
	Values []T
	Length int
}

func PushBack[T any](v T) VectorDiff[T] {
	return VectorDiff[T]{Op: OpPushBack, Value: v}
}
func PushFront[T any](v T) VectorDiff[T] {
	return VectorDiff[T]{Op: OpPushFront, Value: v}
}
func PopBack[T any]() VectorDiff[T] {
	return VectorDiff[T]{Op: OpPopBack}
}
func PopFront[T any]() VectorDiff[T] {
	return VectorDiff[T]{Op: OpPopFront}
}
func Insert[T any](i int, v T) VectorDiff[T] {
	return VectorDiff[T]{Op: OpInsert, Index: i, Value: v}
}
func Set[T any](i int, v T) VectorDiff[T] {
	return VectorDiff[T]{Op: OpSet, Index: i, Value: v}
}
func Remove[T any](i int) VectorDiff[T] {
	return VectorDiff[T]{Op: OpRemove, Index: i}
}
func Clear[T any]() VectorDiff[T] {
	return VectorDiff[T]{Op: OpClear}
}
func Append[T any](vs ...T) VectorDiff[T] {
	return VectorDiff[T]{Op: OpAppend, Values: vs}
}
func Truncate[T any](length int) VectorDiff[T] {
	return VectorDiff[T]{Op: OpTruncate, Length: length}
}
func Reset[T any](vs ...T) VectorDiff[T] {
	return VectorDiff[T]{Op: OpReset, Values: vs}
}

func (d VectorDiff[T]) String() string {
	switch d.Op {
	case OpPushBack, OpPushFront:
		return fmt.Sprintf("%s{%v}", d.Op, d.Value)
	case OpInsert, OpSet:
		return fmt.Sprintf("%s{%d: %v}", d.Op, d.Index, d.Value)
	case OpRemove:
		return fmt.Sprintf("%s{%d}", d.Op, d.Index)
	case OpAppend, OpReset:
		return fmt.Sprintf("%s{%v}", d.Op, d.Values)
	case OpTruncate:
		return fmt.Sprintf("%s{%d}", d.Op, d.Length)
	default:
		return d.Op.String()
	}
}

// Apply performs the change on items and returns the result, reusing
// items' backing array where possible. The returned slice never aliases
// d.Values.
func (d VectorDiff[T]) Apply(items []T) ([]T, error) {
	n := len(items)
	switch d.Op {
	case OpPushBack:
		return append(items, d.Value), nil
	case OpPushFront:
		return slices.Insert(items, 0, d.Value), nil
	case OpPopBack:
		if n == 0 {
			return items, &IndexError{Op: d.Op, Index: 0, Len: n}
		}
		return slices.Delete(items, n-1, n), nil
	case OpPopFront:
		if n == 0 {
			return items, &IndexError{Op: d.Op, Index: 0, Len: n}
		}
		return slices.Delete(items, 0, 1), nil
	case OpInsert:
		if d.Index < 0 || d.Index > n {
			return items, &IndexError{Op: d.Op, Index: d.Index, Len: n}
		}
		return slices.Insert(items, d.Index, d.Value), nil
	case OpSet:
		if d.Index < 0 || d.Index >= n {
			return items, &IndexError{Op: d.Op, Index: d.Index, Len: n}
		}
		items[d.Index] = d.Value
		return items, nil
	case OpRemove:
		if d.Index < 0 || d.Index >= n {
			return items, &IndexError{Op: d.Op, Index: d.Index, Len: n}
		}
		return slices.Delete(items, d.Index, d.Index+1), nil
	case OpClear:
		clear(items)
		return items[:0], nil
	case OpAppend:
		return append(items, d.Values...), nil
	case OpTruncate:
		if d.Length < 0 {
			return items, &IndexError{Op: d.Op, Index: d.Length, Len: n}
		}
		if d.Length >= n {
			return items, nil
		}
		clear(items[d.Length:])
		return items[:d.Length], nil
	case OpReset:
		return append(items[:0], d.Values...), nil
	default:
		return items, fmt.Errorf("%w: %d", ErrUnknownOp, uint8(d.Op))
	}
}
