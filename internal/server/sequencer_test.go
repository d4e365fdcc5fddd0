package server

import (
	"sort"
	"sync"
	"testing"
)

func TestSequencerInterleavedNextAndCurrent(t *testing.T) {
	seq := NewSequencer()

	if got := seq.Current(); got != 0 {
		t.Fatalf("fresh sequencer: got %d, want 0", got)
	}
	for i := 1; i <= 50; i++ {
		if got := seq.Next(); got != int64(i) {
			t.Fatalf("Next %d: got %d", i, got)
		}
		if got := seq.Current(); got != int64(i) {
			t.Fatalf("Current after Next %d: got %d", i, got)
		}
	}
}

// Concurrent callers must carve up a gap-free range: every number from 1
// through goroutines*perGoroutine handed out exactly once.
func TestSequencerConcurrentGapFree(t *testing.T) {
	const goroutines, perGoroutine = 16, 25

	seq := NewSequencer()
	var mu sync.Mutex
	var stamps []int64

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				local = append(local, seq.Next())
			}
			mu.Lock()
			stamps = append(stamps, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })
	for i, s := range stamps {
		if s != int64(i+1) {
			t.Fatalf("stamp %d: got %d, want %d (duplicate or gap)", i, s, i+1)
		}
	}
	if got := seq.Current(); got != goroutines*perGoroutine {
		t.Errorf("final Current: got %d, want %d", got, goroutines*perGoroutine)
	}
}
