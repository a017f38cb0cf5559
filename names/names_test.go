package names

import (
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

type fakeSlots map[ir.Value]int

func (s fakeSlots) Slot(v ir.Value) (int, bool) {
	id, ok := s[v]
	return id, ok
}

func TestSanitize(t *testing.T) {
	require.Equal(t, "a_b_c", Sanitize("a.b/c"))
	require.Equal(t, "foo123", Sanitize("foo123"))
}

func TestValueNameGlobal(t *testing.T) {
	g := &ir.Global{Name: "my.global"}
	require.Equal(t, "my_global", ValueName(g, IdentityMangler{}, nil))
}

func TestValueNameSlotted(t *testing.T) {
	inst := &ir.Instr{}
	slots := fakeSlots{inst: 3}

	require.Equal(t, "_3", ValueName(inst, IdentityMangler{}, slots))
}

func TestValueNameNamed(t *testing.T) {
	inst := &ir.Instr{Name: "tmp.1"}
	require.Equal(t, "_tmp_1", ValueName(inst, IdentityMangler{}, fakeSlots{}))
}

func TestBlockLabelUnique(t *testing.T) {
	ids := NewBlockIDs()
	b1 := &ir.Block{}
	b2 := &ir.Block{}

	l1 := BlockLabel(b1, ids)
	l2 := BlockLabel(b2, ids)
	l1again := BlockLabel(b1, ids)

	require.NotEqual(t, l1, l2)
	require.Equal(t, l1, l1again)
	require.Equal(t, "label0", l1)
	require.Equal(t, "label1", l2)
}
