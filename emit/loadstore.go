package emit

import (
	"fmt"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/rt"
)

// getLocalVarNumber returns v's assigned slot, allocating one if v has
// none yet. It is idempotent: subsequent calls return the originally
// assigned slot. A value of 64-bit width reserves both slot k and k+1,
// advancing usedRegisters by 2; everything else advances by 1.
func (e *Emitter) getLocalVarNumber(v ir.Value) (int, error) {
	if slot, ok := e.localVars[v]; ok {
		return slot, nil
	}

	width := 32
	switch v.Type().(type) {
	case ir.DoubleType:
		width = 64
	case ir.FloatType:
	default:
		w, err := jtype.BitWidth(v.Type(), true)
		if err != nil {
			return 0, err
		}
		width = w
	}

	slot := e.usedRegisters
	e.localVars[v] = slot

	if width == 64 {
		e.usedRegisters += 2
	} else {
		e.usedRegisters++
	}

	return slot, nil
}

// loadValue implements the value-load protocol: a function value pushes
// a 32-bit function-pointer integer via a runtime registration call; a
// global pushes getstatic of its backing field; a null pointer pushes
// 0; a constant expression recurses; other constants use loadConstant;
// a slotted local uses the compact xload_N form when the slot is <= 3,
// otherwise xload N, with x chosen by the expanded type prefix.
func (e *Emitter) loadValue(v ir.Value) error {
	switch v := v.(type) {
	case *ir.Func:
		owner := rt.CLASSFORMETHOD
		if !e.IsExtern(v) {
			owner = e.ClassName
		}

		sig, err := e.methodSignature(v)
		if err != nil {
			return err
		}

		e.W.Insn("ldc %q", owner)
		e.W.Insn("ldc %q", e.valueName(v)+sig)
		e.W.Insn("invokestatic %s", rt.FunctionGetFunctionPointer)
		return nil
	case *ir.Global:
		e.W.Insn("getstatic %s I", e.qualify(v, e.valueName(v)))
		return nil
	case ir.ConstNull:
		e.loadIntLiteral(0)
		return nil
	case ir.ConstExpr:
		return e.loadConstExpr(v)
	case ir.Const:
		return e.loadConstant(v)
	case *ir.Instr, *ir.Param:
		return e.loadLocal(v)
	default:
		return NewUnsupported("value kind", fmt.Sprintf("%T", v))
	}
}

// loadLocal emits the xload_N/xload N form for a slotted value.
func (e *Emitter) loadLocal(v ir.Value) error {
	slot, err := e.getLocalVarNumber(v)
	if err != nil {
		return err
	}

	prefix, err := jtype.Prefix(v.Type(), true)
	if err != nil {
		return err
	}

	if slot <= 3 {
		e.W.Insn("%cload_%d", prefix, slot)
	} else {
		e.W.Insn("%cload %d", prefix, slot)
	}

	return nil
}

// storeValue implements the value-store protocol: v must be a slotted
// value (an *ir.Instr or *ir.Param); storing to a constant/global is a
// bug in the caller. Narrow integer results are truncated before the
// store: 16-bit -> i2s; 8-bit -> i2b; 1-bit -> iconst_1; iand (masking
// to a single bit).
func (e *Emitter) storeValue(v ir.Value) error {
	switch v.(type) {
	case *ir.Instr, *ir.Param:
	default:
		return NewUnsupported("store target", fmt.Sprintf("%T", v))
	}

	if it, ok := v.Type().(ir.IntType); ok {
		switch it.Bits {
		case 16:
			e.W.Insn("i2s")
		case 8:
			e.W.Insn("i2b")
		case 1:
			e.W.Insn("iconst_1")
			e.W.Insn("iand")
		}
	}

	slot, err := e.getLocalVarNumber(v)
	if err != nil {
		return err
	}

	prefix, err := jtype.Prefix(v.Type(), true)
	if err != nil {
		return err
	}

	if slot <= 3 {
		e.W.Insn("%cstore_%d", prefix, slot)
	} else {
		e.W.Insn("%cstore %d", prefix, slot)
	}

	return nil
}

// indirectLoad funnels a pointer dereference through
// Memory.load_<postfix>(I) -> T: the address must already be on the
// stack.
func (e *Emitter) indirectLoad(t ir.Type) error {
	postfix, err := jtype.Postfix(t, false)
	if err != nil {
		return err
	}
	desc, err := jtype.Descriptor(t, true)
	if err != nil {
		return err
	}

	e.W.Insn("invokestatic %s", rt.MemoryLoad(postfix, desc))
	return nil
}

// indirectStore funnels a pointer store through Memory.store(I,T)V: the
// address must be on the stack followed by the value.
func (e *Emitter) indirectStore(t ir.Type) error {
	desc, err := jtype.Descriptor(t, true)
	if err != nil {
		return err
	}

	e.W.Insn("invokestatic %s/store(I%s)V", rt.MemoryClass, desc)
	return nil
}
