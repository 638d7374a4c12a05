package ttable

import "testing"

func TestProbeEvalMissThenHit(t *testing.T) {
	tt := New()
	if _, ok := tt.ProbeEval(12345); ok {
		t.Fatal("expected a miss on an empty table")
	}
	tt.StoreEval(12345, 77)
	got, ok := tt.ProbeEval(12345)
	if !ok || got != 77 {
		t.Fatalf("ProbeEval after store = (%d, %v), want (77, true)", got, ok)
	}
}

func TestProbeSearchRoundTrip(t *testing.T) {
	tt := New()
	key := MoveKey{From: 12, To: 28, MoveType: 1, Promotion: 0}
	tt.StoreSearch(999, 6, -150, BoundLower, key)

	entry, ok := tt.ProbeSearch(999)
	if !ok {
		t.Fatal("expected a hit after StoreSearch")
	}
	if entry.Depth != 6 || entry.Score != -150 || entry.Bound != BoundLower || entry.Move != key {
		t.Fatalf("ProbeSearch returned %+v, want depth=6 score=-150 bound=BoundLower move=%+v", entry, key)
	}
}

func TestEvalAndSearchSlotsAreIndependent(t *testing.T) {
	tt := New()
	hash := uint64(42)
	tt.StoreEval(hash, 5)
	if _, ok := tt.ProbeSearch(hash); ok {
		t.Fatal("storing an eval entry must not populate the search sub-cache")
	}
	tt.StoreSearch(hash, 3, 10, BoundExact, MoveKey{})
	v, ok := tt.ProbeEval(hash)
	if !ok || v != 5 {
		t.Fatal("storing a search entry must not clobber the eval sub-cache")
	}
}

func TestClearResetsBothSubCaches(t *testing.T) {
	tt := New()
	tt.StoreEval(1, 1)
	tt.StoreSearch(1, 1, 1, BoundExact, MoveKey{})
	tt.Clear()
	if _, ok := tt.ProbeEval(1); ok {
		t.Fatal("eval sub-cache should be empty after Clear")
	}
	if _, ok := tt.ProbeSearch(1); ok {
		t.Fatal("search sub-cache should be empty after Clear")
	}
}

func TestCollisionOverwritesDifferentHash(t *testing.T) {
	tt := New()
	// Two hashes that land on the same slot (differ by exactly `size`)
	// should overwrite each other, since the table is direct-mapped.
	h1 := uint64(7)
	h2 := h1 + uint64(size)
	tt.StoreEval(h1, 111)
	tt.StoreEval(h2, 222)
	if _, ok := tt.ProbeEval(h1); ok {
		t.Fatal("h1's entry should have been evicted by h2's write to the same slot")
	}
	got, ok := tt.ProbeEval(h2)
	if !ok || got != 222 {
		t.Fatalf("ProbeEval(h2) = (%d, %v), want (222, true)", got, ok)
	}
}
