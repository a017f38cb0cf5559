package emit

import (
	"fmt"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/rt"
)

// emitCall dispatches a call instruction: intrinsics and setjmp get
// dedicated lowering, everything else — including longjmp — goes
// through the ordinary direct/indirect call path.
func (e *Emitter) emitCall(instr *ir.Instr) error {
	if instr.Intrinsic != ir.IntrinsicNone {
		return e.emitIntrinsic(instr)
	}
	if instr.IsSetjmp {
		return e.emitSetjmp(instr)
	}
	return e.emitCallCommon(instr)
}

// emitCallCommon lowers a direct or indirect call: a direct call to a
// non-vararg function loads its fixed arguments and invokes it by name;
// a vararg call packs the trailing arguments into a single stack buffer
// first; an indirect call packs every argument and dispatches through
// Function.invoke_<postfix>. The result, if any, is stored into instr's
// slot. longjmp has no dedicated lowering: the real extern method does
// its own stack-depth unwinding and throws Jump itself, so an ordinary
// call here is exactly right.
func (e *Emitter) emitCallCommon(instr *ir.Instr) error {
	if err := e.emitCallInvoke(instr); err != nil {
		return err
	}

	if ir.IsVoid(instr.Typ) {
		return nil
	}
	return e.storeValue(instr)
}

// emitCallInvoke loads a call instruction's arguments and emits the
// invoke sequence, leaving the callee's return value (if any) on the
// stack. It is the half of emitCallCommon that emitSetjmp reuses: a
// setjmp call site needs the raw return value routed into a scratch
// slot instead of instr's own SSA slot.
func (e *Emitter) emitCallInvoke(instr *ir.Instr) error {
	fn, direct := instr.Callee.(*ir.Func)

	switch {
	case direct && !fn.VarArg:
		for i, p := range fn.Params {
			_ = p
			if err := e.loadValue(instr.Args[i]); err != nil {
				return err
			}
		}

		sig, err := e.methodSignature(fn)
		if err != nil {
			return err
		}
		e.W.Insn("invokestatic %s%s", e.qualify(fn, e.valueName(fn)), sig)

	case direct && fn.VarArg:
		fixed := fn.Params
		for i := range fixed {
			if err := e.loadValue(instr.Args[i]); err != nil {
				return err
			}
		}
		if err := e.packArgs(instr.Args[len(fixed):]); err != nil {
			return err
		}

		sig, err := e.methodSignature(fn)
		if err != nil {
			return err
		}
		e.W.Insn("invokestatic %s%s", e.qualify(fn, e.valueName(fn)), sig)

	default:
		if err := e.loadValue(instr.Callee); err != nil {
			return err
		}
		if err := e.packArgs(instr.Args); err != nil {
			return err
		}

		postfix, err := jtype.Postfix(instr.Typ, false)
		if err != nil {
			return err
		}
		desc, err := jtype.Descriptor(instr.Typ, true)
		if err != nil {
			return err
		}
		e.W.Insn("invokestatic %s", rt.FunctionInvoke(postfix, desc))
	}

	return nil
}

// emitInvoke lowers invoke: the call runs inside a synthesized try
// region; the normal edge falls out through its own φ-copies and a
// goto, the unwind edge is the .catch handler's landing pad.
func (e *Emitter) emitInvoke(instr *ir.Instr, from *ir.Block) error {
	uid := e.nextUID()
	begin := fmt.Sprintf("%d$invoke_begin", uid)
	catch := fmt.Sprintf("%d$invoke_catch", uid)

	e.W.Directive("catch %s from %s to %s using %s", rt.UnwindClass, begin, catch, catch)

	e.emitLabel(begin)
	if err := e.emitCallCommon(instr); err != nil {
		return err
	}
	if err := e.emitPhiCopies(phiCopiesFor(instr.NormalBlock, from)); err != nil {
		return err
	}
	e.W.Insn("goto %s", e.blockLabel(instr.NormalBlock))

	e.emitLabel(catch)
	e.W.Insn("pop")
	if err := e.emitPhiCopies(phiCopiesFor(instr.UnwindBlock, from)); err != nil {
		return err
	}
	e.W.Insn("goto %s", e.blockLabel(instr.UnwindBlock))

	return nil
}

// emitSetjmp implements the setjmp marker protocol: invoke the real
// extern setjmp (which stashes this call site's id and the current
// stack depth into the jmp_buf and returns the id), capture that return
// value into this call site's pre-reserved slot, push 0 for the direct
// return, then mark the landing point with a "setjmp$<slot>" label. The
// function's catch_jump trailer (function.go) re-enters here with the
// longjmp value already on the stack in place of the 0, so a reentry is
// indistinguishable from an ordinary return at the storeValue that
// follows. The slot itself was reserved and zero-initialised in the
// function prologue, keyed by call-site order via setjmpIdx.
func (e *Emitter) emitSetjmp(instr *ir.Instr) error {
	if len(instr.Args) != 1 {
		return NewUnsupported("setjmp argument count", instr)
	}

	slot := e.setjmpSlots[e.setjmpIdx]
	e.setjmpIdx++

	if err := e.emitCallInvoke(instr); err != nil {
		return err
	}
	e.storeScratch(slot)

	e.loadIntLiteral(0)
	e.emitLabel(fmt.Sprintf("setjmp$%d", slot))

	return e.storeValue(instr)
}

// packArgs marshals args into a fresh stack-allocated buffer for a
// vararg tail or an indirect call, leaving the buffer's base address on
// the stack. Two scratch slots track the buffer: base (the value
// returned) and cursor (advanced by each Memory.pack call, which
// returns the offset the next value should land at).
func (e *Emitter) packArgs(args []ir.Value) error {
	size := 0
	for _, a := range args {
		sz, err := e.Layout.AllocSize(a.Type())
		if err != nil {
			return err
		}
		size += sz
	}

	e.loadIntLiteral(int64(size))
	e.W.Insn("invokestatic %s", rt.MemoryAllocateStack)
	e.W.Insn("dup")

	base := e.reserveScratchSlot()
	cursor := e.reserveScratchSlot()
	e.storeScratch(base)
	e.storeScratch(cursor)

	for _, a := range args {
		e.loadScratch(cursor)
		if err := e.loadValue(a); err != nil {
			return err
		}

		desc, err := jtype.Descriptor(a.Type(), true)
		if err != nil {
			return err
		}
		e.W.Insn("invokestatic %s", rt.MemoryPack(desc))
		e.storeScratch(cursor)
	}

	e.loadScratch(base)

	return nil
}

// reserveScratchSlot allocates a fresh local slot not tied to any IR
// value, for bookkeeping values like packArgs' base/cursor addresses.
func (e *Emitter) reserveScratchSlot() int {
	slot := e.usedRegisters
	e.usedRegisters++
	return slot
}

func (e *Emitter) loadScratch(slot int) {
	if slot <= 3 {
		e.W.Insn("iload_%d", slot)
	} else {
		e.W.Insn("iload %d", slot)
	}
}

func (e *Emitter) storeScratch(slot int) {
	if slot <= 3 {
		e.W.Insn("istore_%d", slot)
	} else {
		e.W.Insn("istore %d", slot)
	}
}
