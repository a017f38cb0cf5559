package emit

import "github.com/lljvm-go/jvmback/rt"

// emitVirtual emits an invokestatic of a runtime-supplied "virtual
// instruction" — a mnemonic this backend invents (icmp_*, fcmp_*, udiv,
// urem, zext_*, uitofp_*, fptoui_*, bswap) with the given descriptor,
// lowered to Instruction/<mnemonic>.
func (e *Emitter) emitVirtual(mnemonic, desc string) {
	e.W.Insn("invokestatic %s", rt.InstructionVirtual(mnemonic, desc))
}

// emitLabel writes a bare label line for b.
func (e *Emitter) emitLabel(name string) {
	e.W.Label(name)
}
