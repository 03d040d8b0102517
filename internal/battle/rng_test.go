package battle

import "testing"

func TestStream_DeterministicPerSeed(t *testing.T) {
	a, b := NewStream(31), NewStream(31)
	for i := 0; i < 50; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v vs %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, va)
		}
	}
}

func TestStream_SeedsDiffer(t *testing.T) {
	a, b := NewStream(1), NewStream(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
		}
	}
	if same {
		t.Error("ten identical draws from different seeds")
	}
}
