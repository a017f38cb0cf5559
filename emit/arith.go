package emit

import (
	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
)

// emitArith lowers a binary arithmetic/bitwise instruction: load left,
// load right, emit the mapped opcode. The type prefix is chosen from
// the left operand (expanded).
func (e *Emitter) emitArith(instr *ir.Instr) error {
	if len(instr.Operands) != 2 {
		return NewUnsupported("arith operand count", instr)
	}
	return e.emitArithValues(instr, instr.Operands[0], instr.Operands[1])
}

func (e *Emitter) emitArithValues(instr *ir.Instr, left, right ir.Value) error {
	prefix, err := jtype.Prefix(left.Type(), true)
	if err != nil {
		return err
	}

	if err := e.loadValue(left); err != nil {
		return err
	}
	if err := e.loadValue(right); err != nil {
		return err
	}

	return e.emitArithOp(instr.Op, instr.Typ, prefix, right)
}

// emitArithOp emits the opcode itself, assuming both operands are
// already on the stack.
func (e *Emitter) emitArithOp(op ir.Opcode, typ ir.Type, prefix byte, right ir.Value) error {
	switch op {
	case ir.OpAdd, ir.OpFAdd:
		e.W.Insn("%cadd", prefix)
	case ir.OpSub, ir.OpFSub:
		e.W.Insn("%csub", prefix)
	case ir.OpMul, ir.OpFMul:
		e.W.Insn("%cmul", prefix)
	case ir.OpSDiv, ir.OpFDiv:
		e.W.Insn("%cdiv", prefix)
	case ir.OpSRem, ir.OpFRem:
		e.W.Insn("%crem", prefix)
	case ir.OpUDiv:
		desc, err := jtype.Descriptor(typ, true)
		if err != nil {
			return err
		}
		e.emitVirtual("udiv", "("+desc+desc+")"+desc)
	case ir.OpURem:
		desc, err := jtype.Descriptor(typ, true)
		if err != nil {
			return err
		}
		e.emitVirtual("urem", "("+desc+desc+")"+desc)
	case ir.OpAnd:
		e.W.Insn("%cand", prefix)
	case ir.OpOr:
		e.W.Insn("%cor", prefix)
	case ir.OpXor:
		e.W.Insn("%cxor", prefix)
	case ir.OpShl:
		if err := e.narrowShiftCount(right); err != nil {
			return err
		}
		e.W.Insn("%cshl", prefix)
	case ir.OpLShr:
		if err := e.narrowShiftCount(right); err != nil {
			return err
		}
		e.W.Insn("%cushr", prefix)
	case ir.OpAShr:
		if err := e.narrowShiftCount(right); err != nil {
			return err
		}
		e.W.Insn("%cshr", prefix)
	default:
		return NewUnsupported("arithmetic opcode", op)
	}

	return nil
}

// narrowShiftCount emits l2i when the right operand (the shift count)
// is 64-bit, since the JVM shift opcodes take an int count.
func (e *Emitter) narrowShiftCount(right ir.Value) error {
	width, err := jtype.BitWidth(right.Type(), false)
	if err != nil {
		return err
	}
	if width == 64 {
		e.W.Insn("l2i")
	}
	return nil
}

// emitCompare lowers icmp/fcmp: load operands left-then-right, map the
// predicate to a virtual icmp_*/fcmp_* instruction returning Z.
func (e *Emitter) emitCompare(instr *ir.Instr) error {
	if len(instr.Operands) != 2 {
		return NewUnsupported("compare operand count", instr)
	}

	left, right := instr.Operands[0], instr.Operands[1]

	if err := e.loadValue(left); err != nil {
		return err
	}
	if err := e.loadValue(right); err != nil {
		return err
	}

	desc, err := jtype.Descriptor(left.Type(), true)
	if err != nil {
		return err
	}

	switch instr.Op {
	case ir.OpICmp:
		name, ok := icmpNames[instr.IPred]
		if !ok {
			return NewUnsupported("icmp predicate", instr.IPred)
		}
		e.emitVirtual(name, "("+desc+desc+")Z")
	case ir.OpFCmp:
		name, ok := fcmpNames[instr.FPred]
		if !ok {
			return NewUnsupported("fcmp predicate", instr.FPred)
		}
		e.emitVirtual(name, "("+desc+desc+")Z")
	default:
		return NewUnsupported("compare opcode", instr.Op)
	}

	return nil
}

var icmpNames = map[ir.ICmpPred]string{
	ir.ICmpEQ:  "icmp_eq",
	ir.ICmpNE:  "icmp_ne",
	ir.ICmpUGT: "icmp_ugt",
	ir.ICmpUGE: "icmp_uge",
	ir.ICmpULT: "icmp_ult",
	ir.ICmpULE: "icmp_ule",
	ir.ICmpSGT: "icmp_sgt",
	ir.ICmpSGE: "icmp_sge",
	ir.ICmpSLT: "icmp_slt",
	ir.ICmpSLE: "icmp_sle",
}

var fcmpNames = map[ir.FCmpPred]string{
	ir.FCmpFalse: "fcmp_false",
	ir.FCmpOEQ:   "fcmp_oeq",
	ir.FCmpOGT:   "fcmp_ogt",
	ir.FCmpOGE:   "fcmp_oge",
	ir.FCmpOLT:   "fcmp_olt",
	ir.FCmpOLE:   "fcmp_ole",
	ir.FCmpONE:   "fcmp_one",
	ir.FCmpORD:   "fcmp_ord",
	ir.FCmpUEQ:   "fcmp_ueq",
	ir.FCmpUGT:   "fcmp_ugt",
	ir.FCmpUGE:   "fcmp_uge",
	ir.FCmpULT:   "fcmp_ult",
	ir.FCmpULE:   "fcmp_ule",
	ir.FCmpUNE:   "fcmp_une",
	ir.FCmpUNO:   "fcmp_uno",
	ir.FCmpTrue:  "fcmp_true",
}
