package emit

import (
	"fmt"
	"sort"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
)

// phiCopy is one resolved (destination phi, source value) pair for a
// single control-flow edge.
type phiCopy struct {
	phi   *ir.Instr
	value ir.Value
}

// phiCopiesFor collects the phi assignments target's φ-nodes make along
// the edge from "from": for each phi, the incoming value whose parallel
// predecessor-block entry equals from. An undef incoming value is
// skipped rather than copied, since its value is unconstrained and
// storing one would just clobber the destination with an arbitrary
// zero for no reason.
func phiCopiesFor(target, from *ir.Block) []phiCopy {
	var copies []phiCopy

	for _, phi := range target.Phis {
		for i, b := range phi.Blocks {
			if b == from {
				if _, undef := phi.Incoming[i].(ir.ConstUndef); undef {
					break
				}
				copies = append(copies, phiCopy{phi, phi.Incoming[i]})
				break
			}
		}
	}

	return copies
}

// emitPhiCopies performs the copy-on-edge protocol: every source value is
// loaded before any destination is stored, so a cycle among the φ-nodes
// (one feeding another) still reads pre-edge values.
func (e *Emitter) emitPhiCopies(copies []phiCopy) error {
	for _, c := range copies {
		if err := e.loadValue(c.value); err != nil {
			return err
		}
	}

	for i := len(copies) - 1; i >= 0; i-- {
		if err := e.storeValue(copies[i].phi); err != nil {
			return err
		}
	}

	return nil
}

// emitBr lowers an unconditional branch: resolve this edge's φ-copies,
// then jump.
func (e *Emitter) emitBr(instr *ir.Instr, from *ir.Block) error {
	if err := e.emitPhiCopies(phiCopiesFor(instr.Target, from)); err != nil {
		return err
	}
	e.W.Insn("goto %s", e.blockLabel(instr.Target))
	return nil
}

// emitCondBr lowers a conditional branch. When the true successor has no
// φ-copies for this edge, the condition jumps straight to its label.
// Otherwise the jump target is a synthesized "label$phi<uid>" landing pad
// that performs the copies before falling through to a goto — the false
// side never needs one, since its copies run inline in the fallthrough
// path before its own goto.
func (e *Emitter) emitCondBr(instr *ir.Instr, from *ir.Block) error {
	if err := e.loadValue(instr.Cond); err != nil {
		return err
	}

	truePhis := phiCopiesFor(instr.TrueBlock, from)
	falsePhis := phiCopiesFor(instr.FalseBlock, from)
	trueLabel := e.blockLabel(instr.TrueBlock)
	falseLabel := e.blockLabel(instr.FalseBlock)

	if len(truePhis) == 0 && len(falsePhis) == 0 {
		e.W.Insn("ifne %s", trueLabel)
		e.W.Insn("goto %s", falseLabel)
		return nil
	}

	landing := trueLabel
	if len(truePhis) != 0 {
		landing = fmt.Sprintf("label$phi%d", e.nextUID())
	}

	e.W.Insn("ifne %s", landing)

	if err := e.emitPhiCopies(falsePhis); err != nil {
		return err
	}
	e.W.Insn("goto %s", falseLabel)

	if len(truePhis) != 0 {
		e.W.Label(landing)
		if err := e.emitPhiCopies(truePhis); err != nil {
			return err
		}
		e.W.Insn("goto %s", trueLabel)
	}

	return nil
}

// emitSwitch lowers switch to lookupswitch with ascending case order.
// Every case and the default jump straight to their target block's own
// label; φ-handling along a switch edge is left to the upstream
// switch-lowering pass, not inserted here.
func (e *Emitter) emitSwitch(instr *ir.Instr, from *ir.Block) error {
	if instr.Cond == nil {
		return NewUnsupported("switch has no scrutinee", instr)
	}

	if err := e.loadValue(instr.Cond); err != nil {
		return err
	}

	width, err := jtype.BitWidth(instr.Cond.Type(), false)
	if err != nil {
		return err
	}
	if width == 64 {
		e.W.Insn("l2i")
	}

	cases := append([]ir.SwitchCase(nil), instr.Cases...)
	sort.Slice(cases, func(i, j int) bool { return cases[i].Value < cases[j].Value })

	e.W.Insn("lookupswitch")
	for _, c := range cases {
		e.W.Raw(fmt.Sprintf("\t\t%d : %s\n", c.Value, e.blockLabel(c.Block)))
	}
	e.W.Raw(fmt.Sprintf("\t\tdefault : %s\n", e.blockLabel(instr.Default)))

	return nil
}

// emitSelect lowers select: a value-producing ternary with no block-level
// φ-copies involved.
func (e *Emitter) emitSelect(instr *ir.Instr) error {
	if err := e.loadValue(instr.Cond); err != nil {
		return err
	}

	trueLabel := fmt.Sprintf("select$true%d", e.nextUID())
	endLabel := fmt.Sprintf("select$end%d", e.nextUID())

	e.W.Insn("ifne %s", trueLabel)

	if err := e.loadValue(instr.SelectFalse); err != nil {
		return err
	}
	e.W.Insn("goto %s", endLabel)

	e.W.Label(trueLabel)
	if err := e.loadValue(instr.SelectTrue); err != nil {
		return err
	}
	e.W.Label(endLabel)

	return e.storeValue(instr)
}
