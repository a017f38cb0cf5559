package emit

import (
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestEmitIntrinsicMemcpy(t *testing.T) {
	e := newTestEmitter()

	dst := &ir.Param{Typ: ir.Ptr(ir.I8)}
	src := &ir.Param{Typ: ir.Ptr(ir.I8)}
	n := &ir.Param{Typ: ir.I32}
	align := &ir.Param{Typ: ir.I32}

	instr := &ir.Instr{Op: ir.OpCall, Typ: ir.Void, Intrinsic: ir.IntrinsicMemcpy, Args: []ir.Value{dst, src, n, align}}

	require.NoError(t, e.emitIntrinsic(instr))
	require.Contains(t, e.W.String(), "lljvm/runtime/Memory/memcpy(IIII)V")
}

func TestEmitIntrinsicMemset(t *testing.T) {
	e := newTestEmitter()

	dst := &ir.Param{Typ: ir.Ptr(ir.I8)}
	val := &ir.Param{Typ: ir.I8}
	n := &ir.Param{Typ: ir.I32}
	align := &ir.Param{Typ: ir.I32}

	instr := &ir.Instr{Op: ir.OpCall, Typ: ir.Void, Intrinsic: ir.IntrinsicMemset, Args: []ir.Value{dst, val, n, align}}

	require.NoError(t, e.emitIntrinsic(instr))
	require.Contains(t, e.W.String(), "lljvm/runtime/Memory/memset(IBII)V")
}

func TestEmitIntrinsicSqrtPromotesFloat(t *testing.T) {
	e := newTestEmitter()

	arg := &ir.Param{Typ: ir.Float}
	instr := &ir.Instr{Op: ir.OpCall, Typ: ir.Float, Intrinsic: ir.IntrinsicSqrt, Args: []ir.Value{arg}}

	require.NoError(t, e.emitIntrinsic(instr))

	out := e.W.String()
	require.Contains(t, out, "f2d")
	require.Contains(t, out, "java/lang/Math/sqrt")
	require.Contains(t, out, "d2f")
}

func TestEmitIntrinsicBswap(t *testing.T) {
	e := newTestEmitter()

	arg := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpCall, Typ: ir.I32, Intrinsic: ir.IntrinsicBswap, Args: []ir.Value{arg}}

	require.NoError(t, e.emitIntrinsic(instr))
	require.Contains(t, e.W.String(), "bswap(I)I")
}
