package emit

import (
	"fmt"
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestEmitCallDirect(t *testing.T) {
	e := newTestEmitter()

	fn := &ir.Func{Name: "add", Ret: ir.I32, Params: []*ir.Param{{Typ: ir.I32}, {Typ: ir.I32}}}
	a0 := &ir.Param{Typ: ir.I32}
	a1 := &ir.Param{Typ: ir.I32}

	instr := &ir.Instr{
		Op:     ir.OpCall,
		Typ:    ir.I32,
		Callee: fn,
		Args:   []ir.Value{a0, a1},
	}

	require.NoError(t, e.emitCallCommon(instr))
	require.Contains(t, e.W.String(), "invokestatic Test/add(II)I")
}

func TestEmitCallVarargPacksTrailingArgs(t *testing.T) {
	e := newTestEmitter()

	fn := &ir.Func{Name: "printf", Ret: ir.I32, VarArg: true, Params: []*ir.Param{{Typ: ir.Ptr(ir.I8)}}}
	fmtArg := &ir.Param{Typ: ir.Ptr(ir.I8)}
	extra := &ir.Param{Typ: ir.I32}

	instr := &ir.Instr{
		Op:     ir.OpCall,
		Typ:    ir.I32,
		Callee: fn,
		Args:   []ir.Value{fmtArg, extra},
	}

	require.NoError(t, e.emitCallCommon(instr))

	out := e.W.String()
	require.Contains(t, out, "lljvm/runtime/Memory/allocateStack")
	require.Contains(t, out, "lljvm/runtime/Memory/pack")
	require.Contains(t, out, "invokestatic Test/printf")
}

func TestEmitSetjmpInvokesCalleeAndStoresReturnValue(t *testing.T) {
	e := newTestEmitter()

	fn := &ir.Func{Name: "setjmp", Ret: ir.I32, Params: []*ir.Param{{Typ: ir.Ptr(ir.I32)}}}
	buf := &ir.Param{Typ: ir.Ptr(ir.I32)}
	instr := &ir.Instr{Op: ir.OpCall, Typ: ir.I32, IsSetjmp: true, Callee: fn, Args: []ir.Value{buf}}

	slot := e.reserveScratchSlot()
	e.setjmpSlots = []int{slot}

	require.NoError(t, e.emitSetjmp(instr))

	out := e.W.String()
	require.Contains(t, out, "invokestatic Test/setjmp(")
	require.Contains(t, out, fmt.Sprintf("istore_%d", slot))
	require.Contains(t, out, "iconst_0")
	require.Contains(t, out, fmt.Sprintf("setjmp$%d:", slot))
	require.Equal(t, 1, e.setjmpIdx)
}

func TestEmitLongjmpLowersAsOrdinaryCall(t *testing.T) {
	e := newTestEmitter()

	fn := &ir.Func{Name: "longjmp", Ret: ir.Void, Params: []*ir.Param{{Typ: ir.Ptr(ir.I32)}, {Typ: ir.I32}}}
	buf := &ir.Param{Typ: ir.Ptr(ir.I32)}
	val := &ir.Param{Typ: ir.I32}
	instr := &ir.Instr{Op: ir.OpCall, Typ: ir.Void, Callee: fn, Args: []ir.Value{buf, val}}

	require.NoError(t, e.emitCall(instr))

	out := e.W.String()
	require.Contains(t, out, "invokestatic Test/longjmp(")
	require.NotContains(t, out, "new lljvm/runtime/Jump")
	require.NotContains(t, out, "athrow")
}
