package ir

// Module is a compilation unit: globals, function declarations, and
// function definitions, in the order the section driver must emit them.
type Module struct {
	// Identifier is the source module name (e.g. the input file path);
	// the section driver derives sourcename/classname from it.
	Identifier string

	Globals []*Global
	Funcs   []*Func
}

// Func is an IR function: either a declaration (Blocks == nil) or a
// definition with an ordered parameter list and basic blocks, the first
// of which is the entry block.
type Func struct {
	Name     string
	Linkage  Linkage
	Params   []*Param
	Ret      Type
	VarArg   bool
	Blocks   []*Block

	// Loops lists the outermost natural loops of this function, supplied
	// by the host's loop-analysis pass (out of scope for this backend;
	// see Loop below). Nil means the function has no loops, or loop
	// structure was not computed (blocks are then emitted in list order).
	Loops []*Loop
}

func (f *Func) Type() Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Typ
	}
	return FuncType{Ret: f.Ret, Params: params, VarArg: f.VarArg}
}

func (*Func) isValue() {}

// IsDeclaration reports whether f has no body, i.e. is an external
// function reference rather than a definition emitted by this module.
func (f *Func) IsDeclaration() bool { return len(f.Blocks) == 0 }

// Entry returns the function's entry block (its first block).
func (f *Func) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block is a basic block: an optional list of leading φ-nodes followed
// by an ordered instruction stream ending in a terminator.
type Block struct {
	Name  string
	Phis  []*Instr
	Instr []*Instr
}

// Loop is a natural loop as computed by the host's loop-analysis pass.
// Header is a block of the function; Blocks are every block whose
// innermost containing loop is exactly this loop, plus the headers of
// its direct children (the children's other blocks are not included);
// Children are loops nested directly inside this one (Parent == this
// loop).
type Loop struct {
	Header   *Block
	Blocks   []*Block
	Children []*Loop
	Parent   *Loop
}

// Opcode is the instruction opcode set, shared between ir.Instr and
// ir.ConstExpr (constant expressions re-use the instruction opcode set).
type Opcode int

const (
	OpInvalid Opcode = iota

	// arithmetic / bitwise
	OpAdd
	OpSub
	OpMul
	OpUDiv
	OpSDiv
	OpURem
	OpSRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr

	// floating arithmetic
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem

	// compare
	OpICmp
	OpFCmp

	// memory
	OpAlloca
	OpLoad
	OpStore
	OpGetElementPtr

	// casts
	OpTrunc
	OpZExt
	OpSExt
	OpFPTrunc
	OpFPExt
	OpFPToUI
	OpFPToSI
	OpUIToFP
	OpSIToFP
	OpPtrToInt
	OpIntToPtr
	OpBitCast

	// control flow
	OpPhi
	OpBr
	OpCondBr
	OpSwitch
	OpSelect
	OpRet
	OpUnreachable
	OpUnwind

	// calls
	OpCall
	OpInvoke

	// intrinsics have no opcode of their own: an intrinsic call is an
	// ordinary OpCall/OpInvoke with Instr.Intrinsic set
)

// ICmpPred is the 10 integer comparison predicates.
type ICmpPred int

const (
	ICmpEQ ICmpPred = iota
	ICmpNE
	ICmpUGT
	ICmpUGE
	ICmpULT
	ICmpULE
	ICmpSGT
	ICmpSGE
	ICmpSLT
	ICmpSLE
)

// FCmpPred is the 14 floating-point comparison predicates (ordered and
// unordered variants of the 6 relations, plus true/false).
type FCmpPred int

const (
	FCmpFalse FCmpPred = iota
	FCmpOEQ
	FCmpOGT
	FCmpOGE
	FCmpOLT
	FCmpOLE
	FCmpONE
	FCmpORD
	FCmpUEQ
	FCmpUGT
	FCmpUGE
	FCmpULT
	FCmpULE
	FCmpUNE
	FCmpUNO
	FCmpTrue
)

// IntrinsicID enumerates the intrinsics §4.7 names as individually
// dispatched. Non-intrinsic calls carry IntrinsicID zero value
// (IntrinsicNone).
type IntrinsicID int

const (
	IntrinsicNone IntrinsicID = iota
	IntrinsicVAStart
	IntrinsicVACopy
	IntrinsicVAEnd
	IntrinsicMemcpy
	IntrinsicMemmove
	IntrinsicMemset
	IntrinsicFltRounds
	IntrinsicDebugTrap
	IntrinsicPow
	IntrinsicExp
	IntrinsicLog
	IntrinsicLog10
	IntrinsicSqrt
	IntrinsicBswap
)

// Instr is a single SSA instruction: an opcode, a typed result (possibly
// void), and typed operands referring to constants, globals, parameters,
// or prior instruction results.
type Instr struct {
	Op  Opcode
	Typ Type // result type; Void for instructions with no result

	// Operands, by convention per opcode; see the opcode-specific
	// accessor types below for the fields each opcode actually uses.
	Operands []Value

	// ICmp/FCmp predicate.
	IPred ICmpPred
	FPred FCmpPred

	// GetElementPtr: Operands[0] is the base pointer, Indices the index
	// list (constants or variable values per §4.5).
	Indices []Value

	// Alloca: Operands[0] (if non-nil) is the variable element count;
	// AllocType is the per-element type being allocated.
	AllocType Type

	// Phi: Incoming lists one value per predecessor block, same order
	// as the block's predecessor list as discovered by the caller
	// (typically block.Phis[i].Blocks[i] corresponds to Incoming[i]).
	Incoming []Value
	Blocks   []*Block // predecessor blocks, parallel to Incoming

	// Br: Target is the unconditional successor.
	Target *Block

	// CondBr: Cond is the branch condition, TrueBlock/FalseBlock the two
	// successors (possibly equal, per §4.6).
	Cond       Value
	TrueBlock  *Block
	FalseBlock *Block

	// Switch: Cases map a constant integer to a target block, Default
	// the fallback target.
	Cases   []SwitchCase
	Default *Block

	// Select: Cond/True/False mirror CondBr's shape but produce a value.
	// Reuses Cond above; SelectTrue/SelectFalse hold the two choices.
	SelectTrue  Value
	SelectFalse Value

	// Call/Invoke: Callee is the function (direct) or a function-
	// pointer value (indirect); Args the argument list in source order.
	Callee    Value
	Args      []Value
	Intrinsic IntrinsicID

	// Invoke: Normal/Unwind are the two successor blocks.
	NormalBlock *Block
	UnwindBlock *Block

	// setjmp marker: set by the front end/analysis on the Instr whose
	// Callee resolves to a function literally named "setjmp".
	IsSetjmp bool

	// Name, if non-empty, is the instruction's source-level name (used
	// by the name oracle in preference to a synthesized slot-based
	// name).
	Name string

	// Line, if non-zero, is the source line number for `-g1`+ `.line`
	// directives.
	Line int
}

func (i *Instr) Type() Type { return i.Typ }
func (*Instr) isValue()     {}

// SwitchCase is one `lookupswitch` arm: a constant integer value and its
// target block.
type SwitchCase struct {
	Value int64
	Block *Block
}
