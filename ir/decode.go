package ir

import (
	"encoding/gob"
	"io"

	"tlog.app/go/errors"
)

// DecodeModule reads a Module encoded with encoding/gob.
//
// Real LLVM-bitcode-family parsing is out of scope for this backend (the
// host IR framework owns it); this is the seam a real bitcode reader
// would plug into. It exists so the CLI and this module's own tests can
// exercise the full pipeline without a bitcode parser.
func DecodeModule(r io.Reader) (*Module, error) {
	var m Module

	dec := gob.NewDecoder(r)

	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decode module")
	}

	return &m, nil
}

// EncodeModule is the DecodeModule inverse, used by tests and by any
// tool that wants to produce the gob stand-in format.
func EncodeModule(w io.Writer, m *Module) error {
	enc := gob.NewEncoder(w)

	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, "encode module")
	}

	return nil
}

func init() {
	gob.Register(VoidType{})
	gob.Register(FloatType{})
	gob.Register(DoubleType{})
	gob.Register(IntType{})
	gob.Register(PointerType{})
	gob.Register(ArrayType{})
	gob.Register(StructType{})
	gob.Register(VectorType{})
	gob.Register(FuncType{})

	gob.Register(ConstInt{})
	gob.Register(ConstFloat{})
	gob.Register(ConstNull{})
	gob.Register(ConstUndef{})
	gob.Register(ConstAggregate{})
	gob.Register(ConstString{})
	gob.Register(ConstGlobalRef{})
	gob.Register(ConstExpr{})

	gob.Register(&Param{})
	gob.Register(&Global{})
	gob.Register(&Func{})
	gob.Register(&Instr{})
}
