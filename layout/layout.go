// Package layout implements the target data layout oracle: pointer
// size, ABI alignment, and per-type allocation size. Computing these
// from a parsed layout string is out of scope (the host toolchain owns
// that); this package ships the one concrete layout this backend
// supports, since the core cannot lower getelementptr, alloca, or
// global sizing without a real answer.
package layout

import (
	"fmt"

	"github.com/lljvm-go/jvmback/ir"
	"tlog.app/go/errors"
)

// Layout answers size/alignment queries for IR types.
type Layout interface {
	// PointerBits is the pointer width in bits; this backend requires
	// exactly 32.
	PointerBits() int

	// Align returns t's ABI alignment in bytes.
	Align(t ir.Type) (int, error)

	// AllocSize returns t's allocation size in bytes (the size
	// reserved for a value of type t, including tail padding).
	AllocSize(t ir.Type) (int, error)
}

type defaultLayout struct{}

// Default returns the layout named in the target data layout constant:
// "e-p:32:32:32-i1:8:8-i8:8:8-i16:16:16-i32:32:32-i64:64:64-f32:32:32-f64:64:64".
// Any other pointer size is a fatal error elsewhere in the pipeline;
// this implementation simply never produces one.
func Default() Layout { return defaultLayout{} }

func (defaultLayout) PointerBits() int { return 32 }

func (l defaultLayout) Align(t ir.Type) (int, error) {
	switch t := t.(type) {
	case ir.VoidType:
		return 0, errors.New("align: void has no alignment")
	case ir.IntType:
		switch t.Bits {
		case 1, 8:
			return 1, nil
		case 16:
			return 2, nil
		case 32:
			return 4, nil
		case 64:
			return 8, nil
		default:
			return 0, errors.New("align: unsupported integer width %d", t.Bits)
		}
	case ir.FloatType:
		return 4, nil
	case ir.DoubleType:
		return 8, nil
	case ir.PointerType:
		return 4, nil
	case ir.ArrayType:
		return l.Align(t.Elem)
	case ir.VectorType:
		return l.Align(t.Elem)
	case ir.StructType:
		max := 1
		for _, f := range t.Fields {
			a, err := l.Align(f)
			if err != nil {
				return 0, err
			}
			if a > max {
				max = a
			}
		}
		return max, nil
	default:
		return 0, errors.New("align: unsupported type %v (%T)", t, t)
	}
}

func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	return (off + align - 1) / align * align
}

func (l defaultLayout) AllocSize(t ir.Type) (int, error) {
	switch t := t.(type) {
	case ir.VoidType:
		return 0, errors.New("allocsize: void has no size")
	case ir.IntType:
		switch t.Bits {
		case 1, 8:
			return 1, nil
		case 16:
			return 2, nil
		case 32:
			return 4, nil
		case 64:
			return 8, nil
		default:
			return 0, errors.New("allocsize: unsupported integer width %d", t.Bits)
		}
	case ir.FloatType:
		return 4, nil
	case ir.DoubleType:
		return 8, nil
	case ir.PointerType:
		return 4, nil
	case ir.ArrayType:
		elem, err := l.AllocSize(t.Elem)
		if err != nil {
			return 0, err
		}
		return elem * t.Len, nil
	case ir.VectorType:
		elem, err := l.AllocSize(t.Elem)
		if err != nil {
			return 0, err
		}
		return elem * t.Len, nil
	case ir.StructType:
		return l.structSize(t)
	default:
		return 0, errors.New("allocsize: unsupported type %v (%T)", t, t)
	}
}

// structSize and FieldOffset both walk fields 0..i-1 accumulating
// aligned(prev + allocSize(f[k]), alignment(f[k+1])) — the rule §4.5's
// GEP struct step and §6.1's AllocSize share.
func (l defaultLayout) structSize(t ir.StructType) (int, error) {
	off := 0
	max := 1

	for i, f := range t.Fields {
		a, err := l.Align(f)
		if err != nil {
			return 0, err
		}
		if !t.Packed {
			off = alignUp(off, a)
		}
		if a > max {
			max = a
		}

		sz, err := l.AllocSize(f)
		if err != nil {
			return 0, err
		}

		off += sz

		_ = i
	}

	if !t.Packed {
		off = alignUp(off, max)
	}

	return off, nil
}

// FieldOffset returns the byte offset of field index i within struct
// type t, per §4.5's struct-step rule: walk fields 0..i-1, each
// contribution = aligned(prev + allocSize(f[k]), alignment(f[k+1])).
func FieldOffset(l Layout, t ir.StructType, i int) (int, error) {
	if i < 0 || i >= len(t.Fields) {
		return 0, fmt.Errorf("field index %d out of range for %v", i, t)
	}

	off := 0

	for k := 0; k < i; k++ {
		sz, err := l.AllocSize(t.Fields[k])
		if err != nil {
			return 0, err
		}

		off += sz

		if !t.Packed {
			a, err := l.Align(t.Fields[k+1])
			if err != nil {
				return 0, err
			}
			off = alignUp(off, a)
		}
	}

	return off, nil
}
