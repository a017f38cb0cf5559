package emit

import (
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestEmitGEPStructFieldOffset(t *testing.T) {
	e := newTestEmitter()

	st := ir.StructType{Name: "pair", Fields: []ir.Type{ir.I32, ir.I32}}
	base := &ir.Param{Typ: ir.Ptr(st)}

	instr := &ir.Instr{
		Op:       ir.OpGetElementPtr,
		Typ:      ir.Ptr(ir.I32),
		Operands: []ir.Value{base},
		Indices:  []ir.Value{ir.ConstInt{Value: 0}, ir.ConstInt{Value: 1}},
	}

	require.NoError(t, e.emitGEP(instr))

	out := e.W.String()
	require.Contains(t, out, "iload_0")
	require.Contains(t, out, "iadd")
}

func TestEmitGEPArrayConstantZeroIndexEmitsNothingExtra(t *testing.T) {
	e := newTestEmitter()

	base := &ir.Param{Typ: ir.Ptr(ir.I32)}

	instr := &ir.Instr{
		Op:       ir.OpGetElementPtr,
		Typ:      ir.Ptr(ir.I32),
		Operands: []ir.Value{base},
		Indices:  []ir.Value{ir.ConstInt{Value: 0}},
	}

	require.NoError(t, e.emitGEP(instr))
	require.Equal(t, "\tiload_0\n", e.W.String())
}

func TestEmitGEPVariableIndexScalesBySize(t *testing.T) {
	e := newTestEmitter()

	base := &ir.Param{Typ: ir.Ptr(ir.I32)}
	idx := &ir.Param{Typ: ir.I32}

	instr := &ir.Instr{
		Op:       ir.OpGetElementPtr,
		Typ:      ir.Ptr(ir.I32),
		Operands: []ir.Value{base},
		Indices:  []ir.Value{idx},
	}

	require.NoError(t, e.emitGEP(instr))

	out := e.W.String()
	require.Contains(t, out, "imul")
	require.Contains(t, out, "iadd")
}

func TestEmitAllocaFixedSize(t *testing.T) {
	e := newTestEmitter()

	instr := &ir.Instr{Op: ir.OpAlloca, Typ: ir.Ptr(ir.I64), AllocType: ir.I64}

	require.NoError(t, e.emitAlloca(instr))
	require.Contains(t, e.W.String(), "lljvm/runtime/Memory/allocateStack")
}
