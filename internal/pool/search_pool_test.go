package pool

import (
	"sync"
	"testing"

	"github.com/hupe1980/vecmatch/internal/searcher"
)

func TestSearchContext_Basic(t *testing.T) {
	sc := Get(2)
	defer Put(sc)

	if sc.TopK.Len() != 0 {
		t.Error("New context should have an empty queue")
	}
	if sc.TopK.Cap() != 2 {
		t.Errorf("Cap() = %d, want 2", sc.TopK.Cap())
	}

	sc.TopK.Push(searcher.Candidate{ID: 3, Score: 0.1})
	sc.TopK.Push(searcher.Candidate{ID: 1, Score: 0.9})
	sc.TopK.Push(searcher.Candidate{ID: 2, Score: 0.5})

	got := sc.Collect()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("Collect() = %v, want IDs [1 2]", got)
	}

	sc.Reset(1)
	if sc.TopK.Len() != 0 || len(sc.Sorted) != 0 {
		t.Error("Reset should clear queue and buffer")
	}
}

func TestSearchContext_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sc := Get(3)
				sc.TopK.Push(searcher.Candidate{ID: int64(g), Score: float32(i)})
				if got := sc.Collect(); len(got) != 1 || got[0].ID != int64(g) {
					t.Errorf("goroutine %d: Collect() = %v", g, got)
				}
				Put(sc)
			}
		}(g)
	}
	wg.Wait()
}
