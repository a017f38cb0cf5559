package emit

import (
	"fmt"

	"github.com/lljvm-go/jvmback/ir"
)

// compileBlock emits b's instruction stream in order, dispatching each
// opcode to its opcode family's lowering. φ-nodes produce no code of
// their own here — they are resolved entirely by the predecessor's
// branch/switch/invoke emission (control.go), which is why this loop
// skips b.Phis.
func (e *Emitter) compileBlock(b *ir.Block) error {
	for _, instr := range b.Instr {
		if e.Debug >= 1 && instr.Line != 0 {
			e.W.Directive("line %d", instr.Line)
		}
		if e.Debug >= 3 {
			e.W.Comment(" %s", describeInstr(instr))
		}

		e.instNum++

		if err := e.compileInstr(instr, b); err != nil {
			return err
		}
	}

	return nil
}

// compileInstr dispatches a single instruction by opcode family.
func (e *Emitter) compileInstr(instr *ir.Instr, b *ir.Block) error {
	switch instr.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpUDiv, ir.OpSDiv, ir.OpURem, ir.OpSRem,
		ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpLShr, ir.OpAShr,
		ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv, ir.OpFRem:
		if err := e.emitArith(instr); err != nil {
			return err
		}
		return e.storeValue(instr)

	case ir.OpICmp, ir.OpFCmp:
		if err := e.emitCompare(instr); err != nil {
			return err
		}
		return e.storeValue(instr)

	case ir.OpAlloca:
		return e.emitAlloca(instr)

	case ir.OpLoad:
		if len(instr.Operands) != 1 {
			return NewUnsupported("load operand count", instr)
		}
		if err := e.loadValue(instr.Operands[0]); err != nil {
			return err
		}
		if err := e.indirectLoad(instr.Typ); err != nil {
			return err
		}
		return e.storeValue(instr)

	case ir.OpStore:
		if len(instr.Operands) != 2 {
			return NewUnsupported("store operand count", instr)
		}
		addr, val := instr.Operands[0], instr.Operands[1]
		if err := e.loadValue(addr); err != nil {
			return err
		}
		if err := e.loadValue(val); err != nil {
			return err
		}
		return e.indirectStore(val.Type())

	case ir.OpGetElementPtr:
		if err := e.emitGEP(instr); err != nil {
			return err
		}
		return e.storeValue(instr)

	case ir.OpTrunc, ir.OpZExt, ir.OpSExt, ir.OpFPTrunc, ir.OpFPExt,
		ir.OpFPToUI, ir.OpFPToSI, ir.OpUIToFP, ir.OpSIToFP,
		ir.OpPtrToInt, ir.OpIntToPtr, ir.OpBitCast:
		if err := e.emitCastInstr(instr); err != nil {
			return err
		}
		return e.storeValue(instr)

	case ir.OpBr:
		return e.emitBr(instr, b)
	case ir.OpCondBr:
		return e.emitCondBr(instr, b)
	case ir.OpSwitch:
		return e.emitSwitch(instr, b)
	case ir.OpSelect:
		return e.emitSelect(instr)

	case ir.OpRet:
		return e.emitRet(instr)
	case ir.OpUnreachable:
		return e.emitUnreachable(instr)
	case ir.OpUnwind:
		return e.emitUnwind(instr)

	case ir.OpCall:
		return e.emitCall(instr)
	case ir.OpInvoke:
		return e.emitInvoke(instr, b)

	default:
		return NewUnsupported("opcode", instr.Op)
	}
}

func describeInstr(instr *ir.Instr) string {
	name := instr.Name
	if name == "" {
		name = "_"
	}
	return fmt.Sprintf("%s = op%d", name, instr.Op)
}
