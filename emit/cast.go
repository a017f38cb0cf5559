package emit

import (
	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
)

// emitCastInstr lowers a cast instruction: load the operand, then
// dispatch to emitCast for the opcode-specific conversion.
func (e *Emitter) emitCastInstr(instr *ir.Instr) error {
	if len(instr.Operands) != 1 {
		return NewUnsupported("cast operand count", instr)
	}

	src := instr.Operands[0]

	if err := e.loadValue(src); err != nil {
		return err
	}

	return e.emitCast(instr, src.Type())
}

// emitCast emits the conversion itself, assuming the source value is
// already on the stack. This is shared by instruction dispatch (above)
// and constant-expression folding (constant.go), per §4.3's "dispatch
// by opcode over the same lowering used for the corresponding
// instruction".
func (e *Emitter) emitCast(instr *ir.Instr, srcType ir.Type) error {
	dst := instr.Typ

	switch instr.Op {
	case ir.OpSExt, ir.OpSIToFP, ir.OpFPTrunc, ir.OpFPExt:
		// Operands were loaded through the expanded (widened) load
		// path, so any source narrower than 32 bits is already an int
		// on the stack — the "narrow via x2i" step the matrix
		// describes has no bytecode to emit under that representation.
		srcPrefix, err := jtype.Prefix(srcType, true)
		if err != nil {
			return err
		}
		dstPrefix, err := jtype.Prefix(dst, true)
		if err != nil {
			return err
		}
		if srcPrefix != dstPrefix {
			e.W.Insn("%c2%c", srcPrefix, dstPrefix)
		}
		return nil

	case ir.OpFPToSI:
		srcPrefix, err := jtype.Prefix(srcType, true)
		if err != nil {
			return err
		}
		dstPrefix, err := jtype.Prefix(dst, true)
		if err != nil {
			return err
		}
		if srcPrefix != dstPrefix {
			e.W.Insn("%c2%c", srcPrefix, dstPrefix)
		}
		return nil

	case ir.OpTrunc:
		return e.emitTrunc(srcType, dst)

	case ir.OpIntToPtr:
		srcPrefix, err := jtype.Prefix(srcType, true)
		if err != nil {
			return err
		}
		if srcPrefix != 'i' {
			e.W.Insn("%c2i", srcPrefix)
		}
		return nil

	case ir.OpPtrToInt:
		dstPrefix, err := jtype.Prefix(dst, true)
		if err != nil {
			return err
		}
		if dstPrefix != 'i' {
			e.W.Insn("i2%c", dstPrefix)
		}
		return nil

	case ir.OpZExt:
		post, err := jtype.Postfix(dst, false)
		if err != nil {
			return err
		}
		e.emitVirtual("zext_"+post, zextDesc(srcType, dst))
		return nil

	case ir.OpUIToFP:
		post, err := jtype.Postfix(dst, false)
		if err != nil {
			return err
		}
		e.emitVirtual("uitofp_"+post, singleArgDesc(srcType, dst))
		return nil

	case ir.OpFPToUI:
		post, err := jtype.Postfix(dst, false)
		if err != nil {
			return err
		}
		e.emitVirtual("fptoui_"+post, singleArgDesc(srcType, dst))
		return nil

	case ir.OpBitCast:
		return e.emitBitcast(srcType, dst)

	default:
		return NewUnsupported("cast opcode", instr.Op)
	}
}

// emitTrunc implements §4.5's trunc rule: for 64-bit source narrowing to
// <32 bits, emit l2i then i2<dst>; otherwise <src>2<dst> (no-op if
// equal), both prefixes unexpanded so narrow integer destinations get
// their real b/s letter.
func (e *Emitter) emitTrunc(src, dst ir.Type) error {
	srcWidth, err := jtype.BitWidth(src, false)
	if err != nil {
		return err
	}
	dstWidth, err := jtype.BitWidth(dst, false)
	if err != nil {
		return err
	}

	if srcWidth == 64 && dstWidth < 32 {
		e.W.Insn("l2i")

		dstPrefix, err := jtype.Prefix(dst, false)
		if err != nil {
			return err
		}
		if dstPrefix != 'i' {
			e.W.Insn("i2%c", dstPrefix)
		}
		return nil
	}

	srcPrefix, err := jtype.Prefix(src, false)
	if err != nil {
		return err
	}
	dstPrefix, err := jtype.Prefix(dst, false)
	if err != nil {
		return err
	}

	if srcPrefix != dstPrefix {
		e.W.Insn("%c2%c", srcPrefix, dstPrefix)
	}

	return nil
}

// emitBitcast implements §4.5's bitcast rule: identity between matching
// storage categories; boxed BitsTo*/ToRawBits runtime calls between
// i64<->double and i32<->float.
func (e *Emitter) emitBitcast(src, dst ir.Type) error {
	switch {
	case isI64(src) && isDouble(dst):
		e.W.Insn("invokestatic java/lang/Double/longBitsToDouble(J)D")
	case isDouble(src) && isI64(dst):
		e.W.Insn("invokestatic java/lang/Double/doubleToRawLongBits(D)J")
	case isI32(src) && isFloat(dst):
		e.W.Insn("invokestatic java/lang/Float/intBitsToFloat(I)F")
	case isFloat(src) && isI32(dst):
		e.W.Insn("invokestatic java/lang/Float/floatToRawIntBits(F)I")
	default:
		// identity: matching storage category, nothing to emit
	}

	return nil
}

func isI64(t ir.Type) bool {
	it, ok := t.(ir.IntType)
	return ok && it.Bits == 64
}

func isI32(t ir.Type) bool {
	it, ok := t.(ir.IntType)
	return ok && it.Bits == 32
}

func isDouble(t ir.Type) bool {
	_, ok := t.(ir.DoubleType)
	return ok
}

func isFloat(t ir.Type) bool {
	_, ok := t.(ir.FloatType)
	return ok
}

func zextDesc(src, dst ir.Type) string {
	return singleArgDesc(src, dst)
}

// singleArgDesc builds a "(srcDesc)dstDesc" descriptor for a single-
// argument virtual instruction, both sides expanded.
func singleArgDesc(src, dst ir.Type) string {
	sd, err := jtype.Descriptor(src, true)
	if err != nil {
		sd = "I"
	}
	dd, err := jtype.Descriptor(dst, true)
	if err != nil {
		dd = "I"
	}
	return "(" + sd + ")" + dd
}
