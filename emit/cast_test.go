package emit

import (
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestEmitCastSExt(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpSExt, Typ: ir.I64, Operands: []ir.Value{p0}}

	require.NoError(t, e.emitCastInstr(instr))
	require.Contains(t, e.W.String(), "i2l")
}

func TestEmitCastTruncLongToByte(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I64}
	instr := &ir.Instr{Op: ir.OpTrunc, Typ: ir.I8, Operands: []ir.Value{p0}}

	require.NoError(t, e.emitCastInstr(instr))

	out := e.W.String()
	require.Contains(t, out, "l2i")
	require.Contains(t, out, "i2b")
}

func TestEmitCastTruncIsNoopWhenWidthsMatch(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpTrunc, Typ: ir.I32, Operands: []ir.Value{p0}}

	require.NoError(t, e.emitCastInstr(instr))

	out := e.W.String()
	require.NotContains(t, out, "i2i")
}

func TestEmitCastZExtIsVirtual(t *testing.T) {
	e := newTestEmitter()

	p0 := &ir.Param{Typ: ir.I8}
	instr := &ir.Instr{Op: ir.OpZExt, Typ: ir.I32, Operands: []ir.Value{p0}}

	require.NoError(t, e.emitCastInstr(instr))
	require.Contains(t, e.W.String(), "zext_i32")
}

func TestEmitBitcastI64ToDouble(t *testing.T) {
	e := newTestEmitter()

	require.NoError(t, e.emitBitcast(ir.I64, ir.Double))
	require.Contains(t, e.W.String(), "java/lang/Double/longBitsToDouble(J)D")
}

func TestEmitBitcastIdentity(t *testing.T) {
	e := newTestEmitter()

	require.NoError(t, e.emitBitcast(ir.I32, ir.I32))
	require.Empty(t, e.W.String())
}
