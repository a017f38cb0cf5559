package emit

import (
	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/rt"
)

// emitIntrinsic dispatches the fixed set of intrinsics §4.7 names. Every
// case assumes instr.Args holds the intrinsic's arguments in source
// order and stores a result via storeValue when instr.Typ isn't void.
func (e *Emitter) emitIntrinsic(instr *ir.Instr) error {
	switch instr.Intrinsic {
	case ir.IntrinsicVAStart:
		return e.emitVAStart(instr)
	case ir.IntrinsicVACopy:
		return e.emitVACopy(instr)
	case ir.IntrinsicVAEnd:
		return nil

	case ir.IntrinsicMemcpy:
		return e.emitMemIntrinsic(instr, rt.MemoryCopy)
	case ir.IntrinsicMemmove:
		return e.emitMemIntrinsic(instr, rt.MemoryMove)
	case ir.IntrinsicMemset:
		return e.emitMemIntrinsic(instr, rt.MemorySet)

	case ir.IntrinsicFltRounds:
		e.loadIntLiteral(-1)
		return e.storeValue(instr)

	case ir.IntrinsicDebugTrap:
		return nil

	case ir.IntrinsicPow:
		return e.emitMathBinary(instr, "pow")
	case ir.IntrinsicExp:
		return e.emitMathUnary(instr, "exp")
	case ir.IntrinsicLog:
		return e.emitMathUnary(instr, "log")
	case ir.IntrinsicLog10:
		return e.emitMathUnary(instr, "log10")
	case ir.IntrinsicSqrt:
		return e.emitMathUnary(instr, "sqrt")

	case ir.IntrinsicBswap:
		return e.emitBswap(instr)

	default:
		return NewUnsupported("intrinsic", instr.Intrinsic)
	}
}

// emitVAStart stashes the function's trailing packed-args base address
// (loaded from its own parameter slot, e.vaArgNum) into the va_list
// pointer.
func (e *Emitter) emitVAStart(instr *ir.Instr) error {
	if len(instr.Args) != 1 {
		return NewUnsupported("va_start argument count", instr)
	}

	if err := e.loadValue(instr.Args[0]); err != nil {
		return err
	}
	e.loadScratch(e.vaArgNum)

	return e.indirectStore(ir.I32)
}

// emitVACopy copies the cursor word from one va_list pointer to another.
func (e *Emitter) emitVACopy(instr *ir.Instr) error {
	if len(instr.Args) != 2 {
		return NewUnsupported("va_copy argument count", instr)
	}

	dest, src := instr.Args[0], instr.Args[1]

	if err := e.loadValue(dest); err != nil {
		return err
	}
	if err := e.loadValue(src); err != nil {
		return err
	}
	if err := e.indirectLoad(ir.I32); err != nil {
		return err
	}

	return e.indirectStore(ir.I32)
}

// emitMemIntrinsic lowers memcpy/memmove/memset to the matching Memory
// runtime call: all three take (dest, src-or-value, length, align).
func (e *Emitter) emitMemIntrinsic(instr *ir.Instr, m rt.Method) error {
	if len(instr.Args) != 4 {
		return NewUnsupported("mem intrinsic argument count", instr)
	}

	for _, a := range instr.Args {
		if err := e.loadValue(a); err != nil {
			return err
		}
	}

	e.W.Insn("invokestatic %s", m)

	return nil
}

// emitMathUnary lowers a single-argument double-precision intrinsic,
// promoting a float argument to double and narrowing the result back.
func (e *Emitter) emitMathUnary(instr *ir.Instr, name string) error {
	_, argIsFloat := instr.Args[0].Type().(ir.FloatType)

	if err := e.loadValue(instr.Args[0]); err != nil {
		return err
	}
	if argIsFloat {
		e.W.Insn("f2d")
	}

	e.W.Insn("invokestatic %s", rt.MathMethod(name))

	if argIsFloat {
		e.W.Insn("d2f")
	}

	return e.storeValue(instr)
}

// emitMathBinary lowers pow(x, y), promoting/narrowing both operands the
// same way emitMathUnary does for one.
func (e *Emitter) emitMathBinary(instr *ir.Instr, name string) error {
	if len(instr.Args) != 2 {
		return NewUnsupported("math intrinsic argument count", instr)
	}

	_, argIsFloat := instr.Args[0].Type().(ir.FloatType)

	for _, a := range instr.Args {
		if err := e.loadValue(a); err != nil {
			return err
		}
		if argIsFloat {
			e.W.Insn("f2d")
		}
	}

	e.W.Insn("invokestatic %s", rt.MathMethod(name))

	if argIsFloat {
		e.W.Insn("d2f")
	}

	return e.storeValue(instr)
}

// emitBswap lowers llvm.bswap.* to the bswap virtual instruction with
// a (T)T descriptor.
func (e *Emitter) emitBswap(instr *ir.Instr) error {
	if len(instr.Args) != 1 {
		return NewUnsupported("bswap argument count", instr)
	}

	if err := e.loadValue(instr.Args[0]); err != nil {
		return err
	}

	desc, err := jtype.Descriptor(instr.Typ, true)
	if err != nil {
		return err
	}

	e.emitVirtual("bswap", "("+desc+")"+desc)

	return e.storeValue(instr)
}
