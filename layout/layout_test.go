package layout

import (
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestScalarSizes(t *testing.T) {
	l := Default()

	require.Equal(t, 32, l.PointerBits())

	sz, err := l.AllocSize(ir.I32)
	require.NoError(t, err)
	require.Equal(t, 4, sz)

	sz, err = l.AllocSize(ir.Ptr(ir.I8))
	require.NoError(t, err)
	require.Equal(t, 4, sz)

	sz, err = l.AllocSize(ir.I64)
	require.NoError(t, err)
	require.Equal(t, 8, sz)
}

func TestStructFieldOffset(t *testing.T) {
	// struct { char *a,b,c,d; } — four pointer fields, 4 bytes each.
	st := ir.StructType{
		Fields: []ir.Type{ir.Ptr(ir.I8), ir.Ptr(ir.I8), ir.Ptr(ir.I8), ir.Ptr(ir.I8)},
	}

	l := Default()

	off, err := FieldOffset(l, st, 0)
	require.NoError(t, err)
	require.Equal(t, 0, off)

	off, err = FieldOffset(l, st, 3)
	require.NoError(t, err)
	require.Equal(t, 12, off)

	sz, err := l.AllocSize(st)
	require.NoError(t, err)
	require.Equal(t, 16, sz)
}

func TestArraySize(t *testing.T) {
	l := Default()

	sz, err := l.AllocSize(ir.ArrayType{Len: 10, Elem: ir.I32})
	require.NoError(t, err)
	require.Equal(t, 40, sz)
}
