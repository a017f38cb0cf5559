// Package jtype implements the type oracle: mapping IR types to
// single-char JVM type IDs, call-signature descriptors, mnemonic
// postfixes, and stack-op-family prefixes.
package jtype

import (
	"github.com/lljvm-go/jvmback/ir"
	"tlog.app/go/errors"
)

// BitWidth returns t's bit width. Aggregates and pointers are 32.
// Integers return their primitive size (one of 1, 8, 16, 32, 64),
// widened to 32 when expand is set and the original width was
// 1, 8, 16, or 32 (the 32 case returns 32 regardless). Any other type
// or integer width is an error.
func BitWidth(t ir.Type, expand bool) (int, error) {
	switch t := t.(type) {
	case ir.PointerType:
		return 32, nil
	case ir.ArrayType, ir.StructType, ir.VectorType:
		return 32, nil
	case ir.IntType:
		switch t.Bits {
		case 1, 8, 16, 32:
			if expand {
				return 32, nil
			}
			return t.Bits, nil
		case 64:
			return 64, nil
		default:
			return 0, errors.New("bitwidth: unsupported integer width %d", t.Bits)
		}
	default:
		return 0, errors.New("bitwidth: unsupported type %v (%T)", t, t)
	}
}

// TypeID returns the single-character JVM type ID for t: V (void), Z
// (i1), B (i8), S (i16), I (i32, pointers, and aggregates), J (i64), F
// (float), D (double). The integer case depends on the expanded width.
func TypeID(t ir.Type, expand bool) (byte, error) {
	switch t := t.(type) {
	case ir.VoidType:
		return 'V', nil
	case ir.FloatType:
		return 'F', nil
	case ir.DoubleType:
		return 'D', nil
	case ir.PointerType, ir.ArrayType, ir.StructType, ir.VectorType:
		return 'I', nil
	case ir.IntType:
		bits := t.Bits
		if expand && bits != 64 {
			bits = 32
		}
		switch bits {
		case 1:
			return 'Z', nil
		case 8:
			return 'B', nil
		case 16:
			return 'S', nil
		case 32:
			return 'I', nil
		case 64:
			return 'J', nil
		default:
			return 0, errors.New("typeid: unsupported integer width %d", t.Bits)
		}
	default:
		return 0, errors.New("typeid: unsupported type %v (%T)", t, t)
	}
}

// Descriptor returns the type ID as a one-character string, the atom
// used in call-signature syntax "(params...)return".
func Descriptor(t ir.Type, expand bool) (string, error) {
	id, err := TypeID(t, expand)
	if err != nil {
		return "", err
	}
	return string(id), nil
}

// Postfix returns the mnemonic postfix used to name postfixed runtime
// helpers (Memory.load_<postfix>, zext_<postfix>, ...): "void",
// "i<N>" for N in {1,8,16,32,64}, "f32", "f64", and "i32" for pointers
// and aggregates.
func Postfix(t ir.Type, expand bool) (string, error) {
	switch t := t.(type) {
	case ir.VoidType:
		return "void", nil
	case ir.FloatType:
		return "f32", nil
	case ir.DoubleType:
		return "f64", nil
	case ir.PointerType, ir.ArrayType, ir.StructType, ir.VectorType:
		return "i32", nil
	case ir.IntType:
		bits := t.Bits
		if expand && bits != 64 {
			bits = 32
		}
		switch bits {
		case 1, 8, 16, 32, 64:
			return "i" + itoa(bits), nil
		default:
			return "", errors.New("postfix: unsupported integer width %d", t.Bits)
		}
	default:
		return "", errors.New("postfix: unsupported type %v (%T)", t, t)
	}
}

// Prefix returns the stack-op family prefix used to select mnemonics
// (b|s|i|l|f|d). void has no prefix — callers that need one have a
// bug, so this is a fatal condition here too.
func Prefix(t ir.Type, expand bool) (byte, error) {
	switch t := t.(type) {
	case ir.VoidType:
		return 0, errors.New("prefix: void has no stack-op prefix")
	case ir.FloatType:
		return 'f', nil
	case ir.DoubleType:
		return 'd', nil
	case ir.PointerType, ir.ArrayType, ir.StructType, ir.VectorType:
		return 'i', nil
	case ir.IntType:
		bits := t.Bits
		if expand && bits != 64 {
			bits = 32
		}
		switch bits {
		case 1:
			return 'b', nil // byte-width stack family: boolean masks to i, but slot family follows width below
		case 8:
			return 'b', nil
		case 16:
			return 's', nil
		case 32:
			return 'i', nil
		case 64:
			return 'l', nil
		default:
			return 0, errors.New("prefix: unsupported integer width %d", t.Bits)
		}
	default:
		return 0, errors.New("prefix: unsupported type %v (%T)", t, t)
	}
}

func itoa(n int) string {
	switch n {
	case 1:
		return "1"
	case 8:
		return "8"
	case 16:
		return "16"
	case 32:
		return "32"
	case 64:
		return "64"
	default:
		return "?"
	}
}
