// Package bitset implements a growable bit vector indexed by dense
// integer position, the structure the block-layout walk uses to mark
// which blocks it has already claimed.
package bitset

import (
	"tlog.app/go/tlog/tlwire"
)

// Set is a bit vector over non-negative positions, grown as bits are
// set. The zero value is an empty set.
type Set struct {
	words []uint64
}

// New returns a Set pre-grown to hold at least n bits.
func New(n int) *Set {
	s := &Set{}
	s.grow(n - 1)
	return s
}

func (s *Set) ij(pos int) (int, int) {
	return pos / 64, pos % 64
}

func (s *Set) grow(pos int) {
	i, _ := s.ij(pos)
	if i < 0 {
		return
	}
	for i >= len(s.words) {
		s.words = append(s.words, 0)
	}
}

// Set marks bit i.
func (s *Set) Set(i int) {
	s.grow(i)
	w, b := s.ij(i)
	s.words[w] |= 1 << uint(b)
}

// IsSet reports whether bit i is marked.
func (s *Set) IsSet(i int) bool {
	w, b := s.ij(i)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<uint(b)) != 0
}

// Range calls f for every set bit in ascending order, stopping early if
// f returns false.
func (s *Set) Range(f func(i int) bool) {
	for w, word := range s.words {
		if word == 0 {
			continue
		}
		for b := 0; b < 64; b++ {
			if word&(1<<uint(b)) == 0 {
				continue
			}
			if !f(w*64 + b) {
				return
			}
		}
	}
}

// TlogAppend encodes the set as its sorted list of set bit positions,
// the same shape the teacher's own Bitmap.TlogAppend uses, so a trace
// logging a claimed-block set gets a readable array of indices rather
// than the raw words.
func (s *Set) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s == nil || s.words == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(i int) bool {
		b = e.AppendInt(b, i)
		return true
	})

	b = e.AppendBreak(b)

	return b
}
