// Package emit is the core of the backend: the typed IR instruction
// dispatcher, the load/store protocol, control-flow emission, and the
// function and section drivers.
package emit

import (
	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jasm"
	"github.com/lljvm-go/jvmback/layout"
	"github.com/lljvm-go/jvmback/names"
)

// Emitter holds both per-module and per-function emitter state. Per-
// module state (ClassName, SourceName, Module, externRefs, Debug,
// instNum) persists across functions; per-function state (localVars,
// usedRegisters, vaArgNum, blockIDs, setjmpSlots) is reset at every
// function entry (see resetFunc).
type Emitter struct {
	W       *jasm.Writer
	Layout  layout.Layout
	Mangler names.Mangler

	// Debug is the -g0..3 annotation level.
	Debug int

	ClassName  string
	SourceName string
	Module     *ir.Module

	externRefs map[ir.Value]struct{}
	instNum    int

	// per-function state
	f             *ir.Func
	localVars     map[ir.Value]int
	usedRegisters int
	vaArgNum      int
	hasVaArg      bool
	blockIDs      *names.BlockIDs
	setjmpSlots   []int
	setjmpIdx     int
	stackDepth    int
	uid           int
}

// New returns an Emitter ready for CompileModule.
func New(w *jasm.Writer, l layout.Layout, m names.Mangler, debug int) *Emitter {
	return &Emitter{
		W:          w,
		Layout:     l,
		Mangler:    m,
		Debug:      debug,
		externRefs: map[ir.Value]struct{}{},
	}
}

// resetFunc clears per-function state at method prologue emission, per
// the per-function state lifecycle in §3.
func (e *Emitter) resetFunc(f *ir.Func) {
	e.f = f
	e.localVars = map[ir.Value]int{}
	e.usedRegisters = 0
	e.vaArgNum = 0
	e.hasVaArg = false
	e.blockIDs = names.NewBlockIDs()
	e.setjmpSlots = nil
	e.setjmpIdx = 0
	e.stackDepth = 0
	e.uid = 0
}

// Slot implements names.Slots.
func (e *Emitter) Slot(v ir.Value) (int, bool) {
	id, ok := e.localVars[v]
	return id, ok
}

// IsExtern reports whether v is a declaration-only global or function,
// i.e. whether references to it must be left unqualified rather than
// qualified with "<class>/".
func (e *Emitter) IsExtern(v ir.Value) bool {
	_, ok := e.externRefs[v]
	return ok
}

// nextUID returns a fresh per-function unique integer, used to
// synthesize labels ("label$phi<uid>", "<uid>$invoke_begin", ...) that
// must not collide with any other label in the method.
func (e *Emitter) nextUID() int {
	e.uid++
	return e.uid
}

// valueName is names.ValueName bound to this emitter's mangler/slots.
func (e *Emitter) valueName(v ir.Value) string {
	return names.ValueName(v, e.Mangler, e)
}

// blockLabel is names.BlockLabel bound to this emitter's block IDs.
func (e *Emitter) blockLabel(b *ir.Block) string {
	return names.BlockLabel(b, e.blockIDs)
}

// qualify returns "<class>/<name>" for locally-defined references, or
// bare "<name>" for members of externRefs — the linkage rule of §4.9's
// design note: qualification is driven purely by externRefs membership.
func (e *Emitter) qualify(v ir.Value, name string) string {
	if e.IsExtern(v) {
		return name
	}
	return e.ClassName + "/" + name
}
