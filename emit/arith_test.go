package emit

import (
	"strings"
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestEmitArithAdd(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I32}
	p1 := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpAdd, Typ: ir.I32, Operands: []ir.Value{p0, p1}}

	require.NoError(t, e.emitArith(instr))

	out := e.W.String()
	require.True(t, strings.Contains(out, "iload_0"))
	require.True(t, strings.Contains(out, "iload_1"))
	require.True(t, strings.Contains(out, "iadd"))
}

func TestEmitArithUDiv(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I32}
	p1 := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpUDiv, Typ: ir.I32, Operands: []ir.Value{p0, p1}}

	require.NoError(t, e.emitArith(instr))
	require.Contains(t, e.W.String(), "invokestatic lljvm/runtime/Instruction/udiv(II)I")
}

func TestEmitArithShlNarrowsLongCount(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I64}
	p1 := &ir.Param{Typ: ir.I64}
	instr := &ir.Instr{Op: ir.OpShl, Typ: ir.I64, Operands: []ir.Value{p0, p1}}

	require.NoError(t, e.emitArith(instr))

	out := e.W.String()
	require.Contains(t, out, "l2i")
	require.Contains(t, out, "lshl")
}

func TestEmitCompareICmpSLT(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I32}
	p1 := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpICmp, Typ: ir.I1, IPred: ir.ICmpSLT, Operands: []ir.Value{p0, p1}}

	require.NoError(t, e.emitCompare(instr))
	require.Contains(t, e.W.String(), "lljvm/runtime/Instruction/icmp_slt(II)Z")
}

func TestEmitCompareFCmpOEQ(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.Double}
	p1 := &ir.Param{Typ: ir.Double}
	instr := &ir.Instr{Op: ir.OpFCmp, Typ: ir.I1, FPred: ir.FCmpOEQ, Operands: []ir.Value{p0, p1}}

	require.NoError(t, e.emitCompare(instr))
	require.Contains(t, e.W.String(), "fcmp_oeq(DD)Z")
}
