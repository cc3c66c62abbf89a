package searcher

import (
	"math/rand"
	"testing"
)

func TestTopK(t *testing.T) {
	q := NewTopK(3)

	q.Push(Candidate{ID: 1, Score: 0.1})
	q.Push(Candidate{ID: 2, Score: 0.9})
	q.Push(Candidate{ID: 3, Score: 0.5})

	if q.Len() != 3 {
		t.Fatalf("expected len 3, got %d", q.Len())
	}

	worst, ok := q.Worst()
	if !ok || worst.ID != 1 {
		t.Errorf("expected worst id 1, got %v", worst)
	}

	if q.Push(Candidate{ID: 4, Score: 0.05}) {
		t.Error("worse candidate must be rejected")
	}
	if !q.Push(Candidate{ID: 5, Score: 0.7}) {
		t.Error("better candidate must be retained")
	}

	got := q.AppendSorted(nil)
	want := []int64{2, 5, 3}
	for i, c := range got {
		if c.ID != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], c.ID)
		}
	}

	// AppendSorted does not drain.
	if q.Len() != 3 {
		t.Errorf("expected len 3 after AppendSorted, got %d", q.Len())
	}
}

func TestTopK_TieBreak(t *testing.T) {
	q := NewTopK(2)
	q.Push(Candidate{ID: 9, Score: 1})
	q.Push(Candidate{ID: 4, Score: 1})
	q.Push(Candidate{ID: 7, Score: 1})
	q.Push(Candidate{ID: 2, Score: 1})

	got := q.AppendSorted(nil)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Errorf("expected ids [2 4], got %v", got)
	}
}

func TestTopK_ZeroCapacity(t *testing.T) {
	q := NewTopK(0)
	if q.Push(Candidate{ID: 1, Score: 1}) {
		t.Error("zero capacity queue must reject everything")
	}
	if _, ok := q.Worst(); ok {
		t.Error("expected empty queue")
	}

	q.Reset(1)
	if !q.Push(Candidate{ID: 1, Score: 1}) || q.Cap() != 1 {
		t.Error("reset queue must accept candidates")
	}
}

func TestTopK_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(200)
		k := 1 + rng.Intn(20)

		all := make([]Candidate, n)
		q := NewTopK(k)
		for i := range all {
			// Coarse scores force plenty of ties.
			all[i] = Candidate{ID: int64(i), Score: float32(rng.Intn(10))}
			q.Push(all[i])
		}

		SortCandidates(all)
		if k > n {
			k = n
		}
		got := q.AppendSorted(nil)
		if len(got) != k {
			t.Fatalf("expected %d candidates, got %d", k, len(got))
		}
		for i := range got {
			if got[i] != all[i] {
				t.Fatalf("trial %d position %d: expected %v, got %v", trial, i, all[i], got[i])
			}
		}
	}
}
