package emit

import (
	"context"
	"strings"
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

// TestCompileFunctionReturnsConstant exercises the full driver
// (prologue, stack-frame creation, single block, epilogue) for the
// smallest possible function: one that returns a literal.
func TestCompileFunctionReturnsConstant(t *testing.T) {
	e := newTestEmitter()

	ret := &ir.Instr{Op: ir.OpRet, Typ: ir.Void, Operands: []ir.Value{ir.ConstInt{Bits: 32, Value: 5}}}
	entry := &ir.Block{Name: "entry", Instr: []*ir.Instr{ret}}
	f := &ir.Func{Name: "five", Ret: ir.I32, Blocks: []*ir.Block{entry}}

	require.NoError(t, e.CompileFunction(context.Background(), f))

	out := e.W.String()
	require.Contains(t, out, ".method public static five()I")
	require.Contains(t, out, "lljvm/runtime/Memory/createStackFrame")
	require.Contains(t, out, "lljvm/runtime/Memory/destroyStackFrame")
	require.Contains(t, out, "ireturn")
	require.Contains(t, out, ".limit stack")
	require.Contains(t, out, ".limit locals")
	require.Contains(t, out, ".end method")
}

// TestCompileFunctionWithLoopKeepsHeaderAdjacentToBody checks that
// BlockOrder keeps a loop's body contiguous with its header even when
// the function's block list interleaves an unrelated block between
// them.
func TestCompileFunctionWithLoopKeepsHeaderAdjacentToBody(t *testing.T) {
	e := newTestEmitter()

	header := &ir.Block{Name: "header"}
	body := &ir.Block{Name: "body"}
	exit := &ir.Block{Name: "exit"}

	header.Instr = []*ir.Instr{{Op: ir.OpCondBr, Typ: ir.Void, Cond: ir.ConstInt{Bits: 1, Value: 1}, TrueBlock: body, FalseBlock: exit}}
	body.Instr = []*ir.Instr{{Op: ir.OpBr, Typ: ir.Void, Target: header}}
	exit.Instr = []*ir.Instr{{Op: ir.OpRet, Typ: ir.Void}}

	loop := &ir.Loop{Header: header, Blocks: []*ir.Block{header, body}}

	f := &ir.Func{
		Name:   "loopy",
		Ret:    ir.Void,
		Blocks: []*ir.Block{header, exit, body},
		Loops:  []*ir.Loop{loop},
	}

	require.NoError(t, e.CompileFunction(context.Background(), f))

	out := e.W.String()
	require.True(t, strings.Contains(out, "label"))
	require.Contains(t, out, "goto")

	headerAt := strings.Index(out, e.blockLabel(header)+":\n")
	bodyAt := strings.Index(out, e.blockLabel(body)+":\n")
	exitAt := strings.Index(out, e.blockLabel(exit)+":\n")
	require.NotEqual(t, -1, headerAt)
	require.Less(t, headerAt, bodyAt)
	require.Less(t, bodyAt, exitAt)
}

// TestCompileFunctionSynthesizesLoopBackEdge checks that the emitter
// itself appends the closing "goto <header>" once a loop's body is
// walked, independent of whatever branches the body's own blocks
// happen to carry — unlike the fixture above, body's terminator here
// never targets header.
func TestCompileFunctionSynthesizesLoopBackEdge(t *testing.T) {
	e := newTestEmitter()

	header := &ir.Block{Name: "header"}
	body := &ir.Block{Name: "body"}
	exit := &ir.Block{Name: "exit"}

	header.Instr = []*ir.Instr{{Op: ir.OpCondBr, Typ: ir.Void, Cond: ir.ConstInt{Bits: 1, Value: 1}, TrueBlock: body, FalseBlock: exit}}
	body.Instr = []*ir.Instr{{Op: ir.OpRet, Typ: ir.Void}}
	exit.Instr = []*ir.Instr{{Op: ir.OpRet, Typ: ir.Void}}

	loop := &ir.Loop{Header: header, Blocks: []*ir.Block{header, body}}

	f := &ir.Func{
		Name:   "loopy2",
		Ret:    ir.Void,
		Blocks: []*ir.Block{header, exit, body},
		Loops:  []*ir.Loop{loop},
	}

	require.NoError(t, e.CompileFunction(context.Background(), f))

	out := e.W.String()
	require.Contains(t, out, "goto "+e.blockLabel(header))
}

// TestCompileFunctionEmitsVarDirectivesAtDebugLevel2 checks that -g2
// annotates both a parameter's and an instruction result's local slot
// with a ".var" directive, and that -g1 emits neither.
func TestCompileFunctionEmitsVarDirectivesAtDebugLevel2(t *testing.T) {
	e := newTestEmitter()
	e.Debug = 2

	p := &ir.Param{Name: "count", Typ: ir.I32}
	add := &ir.Instr{Op: ir.OpAdd, Typ: ir.I32, Name: "sum", Operands: []ir.Value{p, ir.ConstInt{Bits: 32, Value: 1}}}
	ret := &ir.Instr{Op: ir.OpRet, Typ: ir.Void, Operands: []ir.Value{add}}
	entry := &ir.Block{Name: "entry", Instr: []*ir.Instr{add, ret}}
	f := &ir.Func{Name: "bump", Ret: ir.I32, Params: []*ir.Param{p}, Blocks: []*ir.Block{entry}}

	require.NoError(t, e.CompileFunction(context.Background(), f))

	out := e.W.String()
	require.Contains(t, out, ".var 0 is _count I from catch_jump$begin to catch_jump$end")
	require.Contains(t, out, "is _sum I from catch_jump$begin to catch_jump$end")

	e2 := newTestEmitter()
	e2.Debug = 1
	require.NoError(t, e2.CompileFunction(context.Background(), f))
	require.NotContains(t, e2.W.String(), ".var")
}
