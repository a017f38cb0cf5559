package jtype

import (
	"testing"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/stretchr/testify/require"
)

func TestBitWidth(t *testing.T) {
	w, err := BitWidth(ir.I8, false)
	require.NoError(t, err)
	require.Equal(t, 8, w)

	w, err = BitWidth(ir.I8, true)
	require.NoError(t, err)
	require.Equal(t, 32, w)

	w, err = BitWidth(ir.I64, true)
	require.NoError(t, err)
	require.Equal(t, 64, w)

	w, err = BitWidth(ir.Ptr(ir.I32), false)
	require.NoError(t, err)
	require.Equal(t, 32, w)
}

func TestTypeIDAndDescriptor(t *testing.T) {
	cases := []struct {
		t      ir.Type
		expand bool
		id     byte
	}{
		{ir.Void, false, 'V'},
		{ir.I1, false, 'Z'},
		{ir.I8, false, 'B'},
		{ir.I8, true, 'I'},
		{ir.I16, false, 'S'},
		{ir.I32, false, 'I'},
		{ir.I64, false, 'J'},
		{ir.Float, false, 'F'},
		{ir.Double, false, 'D'},
		{ir.Ptr(ir.I32), false, 'I'},
	}

	for _, c := range cases {
		id, err := TypeID(c.t, c.expand)
		require.NoError(t, err)
		require.Equal(t, c.id, id, "%v expand=%v", c.t, c.expand)

		desc, err := Descriptor(c.t, c.expand)
		require.NoError(t, err)
		require.Equal(t, string(c.id), desc)
	}
}

func TestPostfix(t *testing.T) {
	p, err := Postfix(ir.Void, false)
	require.NoError(t, err)
	require.Equal(t, "void", p)

	p, err = Postfix(ir.I16, false)
	require.NoError(t, err)
	require.Equal(t, "i16", p)

	p, err = Postfix(ir.Ptr(ir.I8), false)
	require.NoError(t, err)
	require.Equal(t, "i32", p)

	p, err = Postfix(ir.Double, false)
	require.NoError(t, err)
	require.Equal(t, "f64", p)
}

func TestPrefix(t *testing.T) {
	p, err := Prefix(ir.I8, false)
	require.NoError(t, err)
	require.Equal(t, byte('b'), p)

	p, err = Prefix(ir.I16, false)
	require.NoError(t, err)
	require.Equal(t, byte('s'), p)

	p, err = Prefix(ir.I8, true)
	require.NoError(t, err)
	require.Equal(t, byte('i'), p)

	p, err = Prefix(ir.I64, false)
	require.NoError(t, err)
	require.Equal(t, byte('l'), p)

	_, err = Prefix(ir.Void, false)
	require.Error(t, err)
}
