package emit

import (
	"context"
	"fmt"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/rt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

const (
	catchJumpBegin = "catch_jump$begin"
	catchJumpEnd   = "catch_jump$end"
)

// CompileFunction emits one ".method" body: the header and parameter
// slot assignment, the prologue (stack frame creation, zero-initialised
// result locals), the block-ordered instruction stream, and the epilogue
// (.limit directives and, if the function contains a setjmp, the
// catch_jump trailer that routes a caught Jump back to its landing
// label).
func (e *Emitter) CompileFunction(ctx context.Context, f *ir.Func) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "emit: compile function", "name", f.Name)
	defer tr.Finish("err", &err)

	e.resetFunc(f)

	sig, err := e.methodSignature(f)
	if err != nil {
		return errors.Wrap(err, "signature")
	}

	e.W.Directive("method public static %s%s", e.valueName(f), sig)

	for _, p := range f.Params {
		if _, err := e.getLocalVarNumber(p); err != nil {
			return errors.Wrap(err, "param %v", p.Name)
		}
		if err := e.emitVarDirective(p, p.Typ); err != nil {
			return errors.Wrap(err, "param %v", p.Name)
		}
	}

	if f.VarArg {
		e.vaArgNum = e.usedRegisters
		e.usedRegisters++
		e.hasVaArg = true
	}

	if err := e.preassignAndZeroLocals(f); err != nil {
		return errors.Wrap(err, "zero locals")
	}

	for n := countSetjmps(f); n > 0; n-- {
		slot := e.reserveScratchSlot()
		e.setjmpSlots = append(e.setjmpSlots, slot)
		e.loadIntLiteral(0)
		e.storeScratch(slot)
	}

	maxOperands := maxOperandCount(f)
	e.stackDepth = maxOperands
	if e.stackDepth < 8 {
		e.stackDepth = 8
	}
	e.stackDepth *= 2

	e.W.Insn("invokestatic %s", rt.MemoryCreateStackFrame)
	e.W.Label(catchJumpBegin)

	for _, step := range BlockOrder(f) {
		if step.BackEdgeTo != nil {
			e.W.Insn("goto %s", e.blockLabel(step.BackEdgeTo))
			continue
		}

		b := step.Block
		e.emitBlockLabel(b)
		if err := e.compileBlock(b); err != nil {
			return errors.Wrap(err, "block %v", b.Name)
		}
	}

	e.W.Label(catchJumpEnd)

	if len(e.setjmpSlots) > 0 {
		if err := e.emitCatchJumpTrailer(); err != nil {
			return errors.Wrap(err, "catch_jump")
		}
	}

	e.W.Directive("limit stack %d", e.stackDepth)
	e.W.Directive("limit locals %d", e.usedRegisters)
	e.W.Directive("end method")
	e.W.Blank()

	return nil
}

func (e *Emitter) emitBlockLabel(b *ir.Block) {
	e.W.Label(e.blockLabel(b))
}

// preassignAndZeroLocals allocates a local slot for every instruction
// result up front (phis first, then body instructions, in block order)
// and stores a type-appropriate zero into each, so the verifier sees
// every local defined on every path regardless of which predecessor
// actually reaches a use.
func (e *Emitter) preassignAndZeroLocals(f *ir.Func) error {
	for _, b := range f.Blocks {
		for _, phi := range b.Phis {
			if err := e.zeroLocal(phi); err != nil {
				return err
			}
			if err := e.emitVarDirective(phi, phi.Typ); err != nil {
				return err
			}
		}
		for _, instr := range b.Instr {
			if ir.IsVoid(instr.Typ) {
				continue
			}
			if err := e.zeroLocal(instr); err != nil {
				return err
			}
			if err := e.emitVarDirective(instr, instr.Typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitVarDirective emits ".var N is <name> <desc> from catch_jump$begin to
// catch_jump$end" for v under -g2, the analogue of printLocalVariable's
// local-variable-name annotations; a no-op below that debug level.
func (e *Emitter) emitVarDirective(v ir.Value, typ ir.Type) error {
	if e.Debug < 2 {
		return nil
	}

	slot, err := e.getLocalVarNumber(v)
	if err != nil {
		return err
	}

	desc, err := jtype.Descriptor(typ, true)
	if err != nil {
		return err
	}

	e.W.Directive("var %d is %s %s from %s to %s", slot, e.valueName(v), desc, catchJumpBegin, catchJumpEnd)

	return nil
}

func (e *Emitter) zeroLocal(v ir.Value) error {
	if err := e.loadZeroOfType(v.Type()); err != nil {
		return err
	}
	return e.storeValue(v)
}

// countSetjmps counts the direct calls to setjmp in f, the basis for
// how many jump-id slots the prologue reserves: §3's function prologue
// reserves these after every other local and zero-initialises them, so
// emitSetjmp always finds a defined slot waiting for its call site.
func countSetjmps(f *ir.Func) int {
	n := 0
	for _, b := range f.Blocks {
		for _, instr := range b.Instr {
			if instr.IsSetjmp {
				n++
			}
		}
	}
	return n
}

// maxOperandCount scans every instruction for the widest operand/
// argument/index list, the basis for the stack depth bound.
func maxOperandCount(f *ir.Func) int {
	max := 0
	consider := func(n int) {
		if n > max {
			max = n
		}
	}

	for _, b := range f.Blocks {
		for _, phi := range b.Phis {
			consider(len(phi.Incoming))
		}
		for _, instr := range b.Instr {
			consider(len(instr.Operands) + len(instr.Indices) + len(instr.Args))
		}
	}

	return max
}

// emitCatchJumpTrailer emits the handler for every setjmp call site in
// this function: compare the caught Jump's id field against the id its
// matching setjmp stored in each slot at runtime, and goto the matching
// "setjmp$<slot>" label with the jump's value left on the stack; an id
// matching none of them (impossible for a well-formed program, since a
// jmp_buf's id always names a setjmp in its own function) rethrows.
func (e *Emitter) emitCatchJumpTrailer() error {
	handler := "catch_jump"

	e.W.Directive("catch %s from %s to %s using %s", rt.JumpClass, catchJumpBegin, catchJumpEnd, handler)
	e.W.Label(handler)

	excSlot := e.reserveScratchSlot()
	e.W.Insn("astore %d", excSlot)

	for _, slot := range e.setjmpSlots {
		nextLabel := fmt.Sprintf("catch_jump$next%d", slot)

		e.W.Insn("aload %d", excSlot)
		e.W.Insn("getfield %s/id I", rt.JumpClass)
		e.loadScratch(slot)
		e.W.Insn("if_icmpne %s", nextLabel)

		e.W.Insn("aload %d", excSlot)
		e.W.Insn("getfield %s/value I", rt.JumpClass)
		e.W.Insn("goto setjmp$%d", slot)

		e.W.Label(nextLabel)
	}

	e.W.Insn("aload %d", excSlot)
	e.W.Insn("athrow")

	return nil
}

// emitRet lowers ret: a non-void return loads its operand and emits the
// xreturn matching its expanded prefix; either way the stack frame is
// torn down first.
func (e *Emitter) emitRet(instr *ir.Instr) error {
	e.W.Insn("invokestatic %s", rt.MemoryDestroyStackFrame)

	if len(instr.Operands) == 0 {
		e.W.Insn("return")
		return nil
	}

	if err := e.loadValue(instr.Operands[0]); err != nil {
		return err
	}

	prefix, err := jtype.Prefix(instr.Operands[0].Type(), true)
	if err != nil {
		return err
	}

	switch prefix {
	case 'l':
		e.W.Insn("lreturn")
	case 'f':
		e.W.Insn("freturn")
	case 'd':
		e.W.Insn("dreturn")
	default:
		e.W.Insn("ireturn")
	}

	return nil
}

// emitUnreachable and emitUnwind throw the runtime's singleton sentinel
// objects for their respective terminators.
func (e *Emitter) emitUnreachable(instr *ir.Instr) error {
	e.W.Insn("getstatic %s/INSTANCE L%s;", rt.UnreachableClass, rt.UnreachableClass)
	e.W.Insn("athrow")
	return nil
}

func (e *Emitter) emitUnwind(instr *ir.Instr) error {
	e.W.Insn("getstatic %s/INSTANCE L%s;", rt.UnwindSingleton, rt.UnwindSingleton)
	e.W.Insn("athrow")
	return nil
}
