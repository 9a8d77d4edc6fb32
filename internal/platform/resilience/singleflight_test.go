package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightDedupes(t *testing.T) {
	var g SingleFlight
	var loads atomic.Int32
	release := make(chan struct{})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, err, _ := g.Do("key", func() (any, error) {
				loads.Add(1)
				<-release
				return "loaded", nil
			})
			if err != nil {
				t.Errorf("Do returned error: %v", err)
			}
			results[i] = val
		}(i)
	}

	close(release)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
	for i, v := range results {
		if v != "loaded" {
			t.Fatalf("caller %d got %v", i, v)
		}
	}
}

func TestSingleFlightSequentialCallsReload(t *testing.T) {
	var g SingleFlight
	var loads int

	for i := 0; i < 3; i++ {
		_, _, shared := g.Do("key", func() (any, error) {
			loads++
			return nil, nil
		})
		if shared {
			t.Fatalf("call %d reported shared result", i)
		}
	}
	if loads != 3 {
		t.Fatalf("loader ran %d times, want 3", loads)
	}
}
