// Package names implements the name oracle: deterministic, sanitised
// names for values and labels.
package names

import (
	"strconv"

	"github.com/lljvm-go/jvmback/ir"
)

// Mangler is the out-of-scope name-mangling utility's interface. This
// package ships only IdentityMangler, a seam for the host toolchain's
// real C++-style mangler.
type Mangler interface {
	Mangle(name string) string
}

// IdentityMangler returns its input unchanged.
type IdentityMangler struct{}

func (IdentityMangler) Mangle(name string) string { return name }

// Sanitize replaces every rune outside [A-Za-z0-9] with '_'. JVM/Jasmin
// identifiers are ASCII-safe, so this is a byte-range check rather than
// a full Unicode table.
func Sanitize(s string) string {
	b := []byte(s)
	out := make([]byte, len(b))

	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}

	return string(out)
}

// Slots resolves an ir.Value to its allocated local slot, mirroring the
// emitter's localVars map. It is the minimal interface names needs from
// the per-function emitter state, kept separate so this package does
// not import emit (which imports names).
type Slots interface {
	// Slot returns the slot assigned to v and true, or false if v has
	// no allocated slot (it is a constant/global/function).
	Slot(v ir.Value) (int, bool)
}

// ExternRefs reports whether v is a declaration-only global or function.
type ExternRefs interface {
	IsExtern(v ir.Value) bool
}

// ValueName returns the name used to refer to v in emitted assembly: the
// mangled+sanitised external name for a global, "_"+sanitised name for
// a named value, "_"+slot for a slotted-but-unnamed value, or bare "_"
// otherwise.
func ValueName(v ir.Value, mangle Mangler, slots Slots) string {
	switch v := v.(type) {
	case *ir.Global:
		return Sanitize(mangle.Mangle(v.Name))
	case *ir.Func:
		return Sanitize(mangle.Mangle(v.Name))
	case *ir.Instr:
		if v.Name != "" {
			return "_" + Sanitize(v.Name)
		}
		if id, ok := slots.Slot(v); ok {
			return "_" + strconv.Itoa(id)
		}
		return "_"
	case *ir.Param:
		if v.Name != "" {
			return "_" + Sanitize(v.Name)
		}
		if id, ok := slots.Slot(v); ok {
			return "_" + strconv.Itoa(id)
		}
		return "_"
	default:
		return "_"
	}
}

// BlockIDs allocates monotonic integer identifiers for basic blocks on
// first lookup, guaranteeing label uniqueness across a method.
type BlockIDs struct {
	ids  map[*ir.Block]int
	next int
}

// NewBlockIDs returns an empty allocator, reset at every function entry
// per the per-function state lifecycle (§3).
func NewBlockIDs() *BlockIDs {
	return &BlockIDs{ids: map[*ir.Block]int{}}
}

// ID returns b's stable integer identifier, allocating one on first use.
func (ids *BlockIDs) ID(b *ir.Block) int {
	if id, ok := ids.ids[b]; ok {
		return id
	}

	id := ids.next
	ids.next++
	ids.ids[b] = id

	return id
}

// BlockLabel returns the sanitised "label<ID>" name for b.
func BlockLabel(b *ir.Block, ids *BlockIDs) string {
	id := ids.ID(b)
	return Sanitize("label" + strconv.Itoa(id))
}
