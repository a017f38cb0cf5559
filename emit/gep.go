package emit

import (
	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/layout"
	"github.com/lljvm-go/jvmback/rt"
)

// emitGEP lowers getelementptr: load the base pointer, then fold each
// index into a running byte offset — a struct step looks up the field's
// precomputed offset via the layout oracle, a sequential step (array,
// vector, or the pointer's own first index) scales the index by the
// element's allocation size.
func (e *Emitter) emitGEP(instr *ir.Instr) error {
	if len(instr.Operands) != 1 {
		return NewUnsupported("gep operand count", instr)
	}

	base := instr.Operands[0]

	if err := e.loadValue(base); err != nil {
		return err
	}

	ptrType, ok := base.Type().(ir.PointerType)
	if !ok {
		return NewUnsupported("gep base is not a pointer", base.Type())
	}

	current := ptrType.Elem

	for i, idx := range instr.Indices {
		if i == 0 {
			if err := e.emitSequentialStep(current, idx); err != nil {
				return err
			}
			continue
		}

		switch t := current.(type) {
		case ir.StructType:
			ci, ok := idx.(ir.ConstInt)
			if !ok {
				return NewUnsupported("gep struct index must be constant", idx)
			}

			fieldIdx := int(ci.Value)

			off, err := layout.FieldOffset(e.Layout, t, fieldIdx)
			if err != nil {
				return err
			}

			if off != 0 {
				e.loadIntLiteral(int64(off))
				e.W.Insn("iadd")
			}

			current = t.Fields[fieldIdx]

		case ir.ArrayType:
			if err := e.emitSequentialStep(t.Elem, idx); err != nil {
				return err
			}
			current = t.Elem

		case ir.VectorType:
			if err := e.emitSequentialStep(t.Elem, idx); err != nil {
				return err
			}
			current = t.Elem

		default:
			return NewUnsupported("gep index into non-aggregate", current)
		}
	}

	return nil
}

// emitSequentialStep folds one array/vector/pointer-first index into the
// running offset, assuming the base address is on the stack. A constant
// zero index emits nothing; a negative constant subtracts |i|*size; a
// positive constant adds i*size. A variable index loads size, loads the
// index (narrowing a 64-bit index to int), multiplies, and adds.
func (e *Emitter) emitSequentialStep(elem ir.Type, idx ir.Value) error {
	size, err := e.Layout.AllocSize(elem)
	if err != nil {
		return err
	}

	if ci, ok := idx.(ir.ConstInt); ok {
		switch {
		case ci.Value == 0:
			// nothing to emit
		case ci.Value < 0:
			e.loadIntLiteral(-ci.Value * int64(size))
			e.W.Insn("isub")
		default:
			e.loadIntLiteral(ci.Value * int64(size))
			e.W.Insn("iadd")
		}
		return nil
	}

	e.loadIntLiteral(int64(size))

	if err := e.loadValue(idx); err != nil {
		return err
	}

	width, err := jtype.BitWidth(idx.Type(), false)
	if err != nil {
		return err
	}
	if width == 64 {
		e.W.Insn("l2i")
	}

	e.W.Insn("imul")
	e.W.Insn("iadd")

	return nil
}

// emitAlloca lowers alloca: a fixed-size allocation reserves
// allocSize(AllocType) bytes via Memory.allocateStack; a variable-count
// allocation multiplies the element count by that size first.
func (e *Emitter) emitAlloca(instr *ir.Instr) error {
	size, err := e.Layout.AllocSize(instr.AllocType)
	if err != nil {
		return err
	}

	if len(instr.Operands) == 0 || instr.Operands[0] == nil {
		e.loadIntLiteral(int64(size))
	} else {
		count := instr.Operands[0]

		if ci, ok := count.(ir.ConstInt); ok {
			e.loadIntLiteral(ci.Value * int64(size))
		} else {
			e.loadIntLiteral(int64(size))
			if err := e.loadValue(count); err != nil {
				return err
			}
			e.W.Insn("imul")
		}
	}

	e.W.Insn("invokestatic %s", rt.MemoryAllocateStack)

	return e.storeValue(instr)
}
