package emit

import (
	"fmt"
	"strings"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/rt"
)

// loadIntLiteral picks the shortest integer load instruction for a
// 32-bit constant, per §4.3's boundary table: -1 -> iconst_m1; 0..5 ->
// iconst_N; [-128,127] -> bipush; [-32768,32767] -> sipush; otherwise
// ldc.
func (e *Emitter) loadIntLiteral(v int64) {
	switch {
	case v == -1:
		e.W.Insn("iconst_m1")
	case v >= 0 && v <= 5:
		e.W.Insn("iconst_%d", v)
	case v >= -128 && v <= 127:
		e.W.Insn("bipush %d", v)
	case v >= -32768 && v <= 32767:
		e.W.Insn("sipush %d", v)
	default:
		e.W.Insn("ldc %d", v)
	}
}

// loadLongLiteral picks lconst_0/1 for 0/1, otherwise ldc2_w.
func (e *Emitter) loadLongLiteral(v int64) {
	switch v {
	case 0:
		e.W.Insn("lconst_0")
	case 1:
		e.W.Insn("lconst_1")
	default:
		e.W.Insn("ldc2_w %d", v)
	}
}

// loadFloatLiteral picks fconst_0/1/2 for 0/1/2, a getstatic of the
// corresponding NaN/+-Infinity field for those specials, otherwise ldc.
func (e *Emitter) loadFloatLiteral(v float64) {
	switch {
	case isNaN(v):
		e.W.Insn("getstatic %s/NaN F", rt.FloatClass)
	case isInf(v, 1):
		e.W.Insn("getstatic %s/POSITIVE_INFINITY F", rt.FloatClass)
	case isInf(v, -1):
		e.W.Insn("getstatic %s/NEGATIVE_INFINITY F", rt.FloatClass)
	case v == 0:
		e.W.Insn("fconst_0")
	case v == 1:
		e.W.Insn("fconst_1")
	case v == 2:
		e.W.Insn("fconst_2")
	default:
		e.W.Insn("ldc %s", formatFloat(v))
	}
}

// loadDoubleLiteral is loadFloatLiteral's double-width counterpart:
// dconst_0/1, getstatic Double.{NaN,POSITIVE_INFINITY,NEGATIVE_INFINITY},
// or ldc2_w.
func (e *Emitter) loadDoubleLiteral(v float64) {
	switch {
	case isNaN(v):
		e.W.Insn("getstatic %s/NaN D", rt.DoubleClass)
	case isInf(v, 1):
		e.W.Insn("getstatic %s/POSITIVE_INFINITY D", rt.DoubleClass)
	case isInf(v, -1):
		e.W.Insn("getstatic %s/NEGATIVE_INFINITY D", rt.DoubleClass)
	case v == 0:
		e.W.Insn("dconst_0")
	case v == 1:
		e.W.Insn("dconst_1")
	default:
		e.W.Insn("ldc2_w %s", formatFloat(v))
	}
}

// loadConstant pushes c's value onto the stack: small-literal loads for
// ints/floats/doubles, 0 for null pointers, a typed zero for undef, the
// referenced value for a global reference, and the corresponding
// instruction lowering for constant expressions. Any other constant kind
// is reported as unsupported.
func (e *Emitter) loadConstant(c ir.Const) error {
	switch c := c.(type) {
	case ir.ConstInt:
		if c.Bits == 64 {
			e.loadLongLiteral(c.Value)
		} else {
			e.loadIntLiteral(c.Value)
		}
		return nil
	case ir.ConstFloat:
		if c.Double {
			e.loadDoubleLiteral(c.Value)
		} else {
			e.loadFloatLiteral(c.Value)
		}
		return nil
	case ir.ConstNull:
		e.loadIntLiteral(0)
		return nil
	case ir.ConstUndef:
		return e.loadZeroOfType(c.Typ)
	case ir.ConstGlobalRef:
		return e.loadValue(c.Ref)
	case ir.ConstExpr:
		return e.loadConstExpr(c)
	default:
		return NewUnsupported("constant kind", fmt.Sprintf("%T", c))
	}
}

// loadZeroOfType pushes the zero value appropriate to t's stack-op
// family, used for undef constants (treated as zero, a conservative but
// deterministic choice since undef's value is otherwise unconstrained).
func (e *Emitter) loadZeroOfType(t ir.Type) error {
	prefix, err := jtype.Prefix(t, true)
	if err != nil {
		return err
	}

	switch prefix {
	case 'l':
		e.loadLongLiteral(0)
	case 'f':
		e.loadFloatLiteral(0)
	case 'd':
		e.loadDoubleLiteral(0)
	default:
		e.loadIntLiteral(0)
	}

	return nil
}

// loadConstExpr dispatches a constant expression by opcode, re-using
// the same lowering as the corresponding instruction for gep, cast and
// arithmetic opcodes. Compare and select constant expressions are not
// lowered; they are reported as unsupported like any other opcode.
func (e *Emitter) loadConstExpr(c ir.ConstExpr) error {
	instr := &ir.Instr{
		Op:       c.Op,
		Typ:      c.Typ,
		Operands: c.Operands,
		Indices:  c.Indices,
	}

	switch c.Op {
	case ir.OpGetElementPtr:
		return e.emitGEP(instr)
	case ir.OpTrunc, ir.OpZExt, ir.OpSExt, ir.OpFPTrunc, ir.OpFPExt,
		ir.OpFPToUI, ir.OpFPToSI, ir.OpUIToFP, ir.OpSIToFP,
		ir.OpPtrToInt, ir.OpIntToPtr, ir.OpBitCast:
		if len(c.Operands) != 1 {
			return NewUnsupported("const expr cast operand count", c)
		}
		if err := e.loadValue(c.Operands[0]); err != nil {
			return err
		}
		return e.emitCast(instr, c.Operands[0].Type())
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpUDiv, ir.OpSDiv, ir.OpURem, ir.OpSRem,
		ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpLShr, ir.OpAShr,
		ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv, ir.OpFRem:
		if len(c.Operands) != 2 {
			return NewUnsupported("const expr arith operand count", c)
		}
		return e.emitArithValues(instr, c.Operands[0], c.Operands[1])
	default:
		return NewUnsupported("const expr opcode", c.Op)
	}
}

// packStaticConstant packs c at the address left on top of the stack by
// the caller, used to fill memory allocated by the class initialiser.
// For a zero/zero-aggregate it calls Memory.zero(addr, size); for a
// scalar it loads the literal and calls Memory.pack, which returns the
// first address past the written value so calls can chain; for strings
// it emits the encoded literal and the String/char-array pack overload;
// for arrays/structs/vectors it recurses per element; for pointer
// constants it loads a 32-bit address and packs.
func (e *Emitter) packStaticConstant(c ir.Const) error {
	if ir.IsZero(c) {
		size, err := e.Layout.AllocSize(c.Type())
		if err != nil {
			return err
		}
		e.loadIntLiteral(int64(size))
		e.W.Insn("invokestatic %s", rt.MemoryZero)
		return nil
	}

	switch c := c.(type) {
	case ir.ConstInt, ir.ConstFloat:
		if err := e.loadConstant(c); err != nil {
			return err
		}
		desc, err := jtype.Descriptor(c.Type(), false)
		if err != nil {
			return err
		}
		e.W.Insn("invokestatic %s", rt.MemoryPack(desc))
		return nil
	case ir.ConstString:
		return e.packStaticString(c)
	case ir.ConstAggregate:
		return e.packStaticAggregate(c)
	case ir.ConstNull, ir.ConstGlobalRef, ir.ConstExpr:
		if err := e.loadConstant(c); err != nil {
			return err
		}
		e.W.Insn("invokestatic %s", rt.MemoryPack("I"))
		return nil
	default:
		return NewUnsupported("static constant kind", fmt.Sprintf("%T", c))
	}
}

func (e *Emitter) packStaticAggregate(c ir.ConstAggregate) error {
	for _, elem := range c.Elements {
		if err := e.packStaticConstant(elem); err != nil {
			return err
		}
	}
	return nil
}

// packStaticString emits the encoded string literal and packs it: a
// C-string's bytes are escaped and packed with the String overload
// (dropping the trailing NUL); a non-C-string array has every byte
// hex-escaped as \u00hh and is converted to a char array with
// toCharArray before packing with the [C overload, since the literal on
// the stack is a String.
func (e *Emitter) packStaticString(c ir.ConstString) error {
	if c.CString {
		e.W.Insn("ldc %s", encodeJavaString(c.Bytes))
		e.W.Insn("invokestatic %s", rt.MemoryPack("Ljava/lang/String;"))
		return nil
	}

	e.W.Insn("ldc %s", encodeJavaCharArray(c.Bytes))
	e.W.Insn("invokevirtual java/lang/String/toCharArray()[C")
	e.W.Insn("invokestatic %s", rt.MemoryPack("[C"))
	return nil
}

// encodeJavaString escapes a C-string's bytes (dropping the trailing
// NUL, since cstring asserts one) into a Jasmin string literal.
func encodeJavaString(b []byte) string {
	s := b
	if len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		writeEscapedByte(&sb, c)
	}
	sb.WriteByte('"')

	return sb.String()
}

// encodeJavaCharArray hex-escapes every byte as \u00hh, the fallback
// used when the array is not asserted to be a C-string.
func encodeJavaCharArray(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		fmt.Fprintf(&sb, "\\u00%02x", c)
	}
	sb.WriteByte('"')

	return sb.String()
}

func writeEscapedByte(sb *strings.Builder, c byte) {
	switch c {
	case '\n':
		sb.WriteString("\\n")
	case '\t':
		sb.WriteString("\\t")
	case '"':
		sb.WriteString("\\\"")
	case '\\':
		sb.WriteString("\\\\")
	default:
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(sb, "\\u%04x", c)
		}
	}
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
