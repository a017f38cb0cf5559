package bitset

import "testing"

func TestSetSetAndIsSet(t *testing.T) {
	s := New(4)

	s.Set(2)

	if !s.IsSet(2) {
		t.Fatalf("expected bit 2 set")
	}
	if s.IsSet(1) {
		t.Fatalf("expected bit 1 clear")
	}
	if s.IsSet(200) {
		t.Fatalf("out-of-range bit should read as clear")
	}
}

func TestSetGrowsPastInitialCapacity(t *testing.T) {
	s := New(1)

	s.Set(130)

	if !s.IsSet(130) {
		t.Fatalf("expected bit 130 set after growing past the initial word")
	}
}

func TestSetRangeVisitsAscending(t *testing.T) {
	s := New(0)
	s.Set(5)
	s.Set(70)
	s.Set(1)

	var got []int
	s.Range(func(i int) bool {
		got = append(got, i)
		return true
	})

	want := []int{1, 5, 70}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSetTlogAppendEmptyIsNil(t *testing.T) {
	var s *Set

	b := s.TlogAppend(nil)
	if len(b) == 0 {
		t.Fatalf("expected encoded nil marker for an empty set")
	}
}
