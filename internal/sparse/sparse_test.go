package sparse

import "testing"

func TestSparseSet_InsertAndContains(t *testing.T) {
	s := NewSparseSet(16)

	for _, v := range []uint32{3, 0, 15, 3} {
		s.Insert(v)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (duplicate insert must be a no-op)", s.Len())
	}
	for _, v := range []uint32{0, 3, 15} {
		if !s.Contains(v) {
			t.Errorf("Contains(%d) = false, want true", v)
		}
	}
	if s.Contains(7) {
		t.Error("Contains(7) = true, want false")
	}
}

func TestSparseSet_ContainsOutOfRange(t *testing.T) {
	s := NewSparseSet(4)
	if s.Contains(4) || s.Contains(1000) {
		t.Error("values at or above capacity must never be members")
	}
}

func TestSparseSet_ValuesInsertionOrder(t *testing.T) {
	s := NewSparseSet(8)
	want := []uint32{5, 1, 7, 2}
	for _, v := range want {
		s.Insert(v)
	}

	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("Values() has %d members, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSparseSet_ClearAndReuse(t *testing.T) {
	s := NewSparseSet(8)
	s.Insert(2)
	s.Insert(6)

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
	if s.Contains(2) || s.Contains(6) {
		t.Error("stale members survived Clear")
	}

	// Reuse after Clear: stale sparse entries must not fake membership.
	s.Insert(6)
	if !s.Contains(6) || s.Contains(2) {
		t.Error("set misbehaves when refilled after Clear")
	}
}

func TestSparseSet_ZeroCapacity(t *testing.T) {
	s := NewSparseSet(0)
	if s.Contains(0) {
		t.Error("empty-universe set must contain nothing")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
