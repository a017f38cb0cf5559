package emit

import (
	"github.com/lljvm-go/jvmback/jasm"
	"github.com/lljvm-go/jvmback/layout"
	"github.com/lljvm-go/jvmback/names"
)

// newTestEmitter returns an Emitter ready to lower instructions into a
// fresh, empty function context, for tests that exercise one opcode
// family in isolation rather than a full CompileFunction run.
func newTestEmitter() *Emitter {
	e := New(&jasm.Writer{}, layout.Default(), names.IdentityMangler{}, 0)
	e.ClassName = "Test"
	e.resetFunc(nil)
	return e
}
