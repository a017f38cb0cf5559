package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeStrings(t *testing.T) {
	require.Equal(t, "void", Void.String())
	require.Equal(t, "i32", I32.String())
	require.Equal(t, "i32*", Ptr(I32).String())
	require.Equal(t, "[4 x i32]", ArrayType{Len: 4, Elem: I32}.String())
}

func TestIsZero(t *testing.T) {
	require.True(t, IsZero(ConstInt{Bits: 32, Value: 0}))
	require.False(t, IsZero(ConstInt{Bits: 32, Value: 1}))
	require.True(t, IsZero(ConstAggregate{
		Typ:      ArrayType{Len: 2, Elem: I32},
		Elements: []Const{ConstInt{Bits: 32}, ConstInt{Bits: 32}},
	}))
	require.False(t, IsZero(ConstAggregate{
		Typ:      ArrayType{Len: 2, Elem: I32},
		Elements: []Const{ConstInt{Bits: 32}, ConstInt{Bits: 32, Value: 1}},
	}))
}

func TestFuncEntry(t *testing.T) {
	b0 := &Block{Name: "entry"}
	f := &Func{Name: "f", Blocks: []*Block{b0}}

	require.Same(t, b0, f.Entry())
	require.False(t, f.IsDeclaration())

	decl := &Func{Name: "g"}
	require.True(t, decl.IsDeclaration())
	require.Nil(t, decl.Entry())
}
