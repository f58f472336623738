package monitoring

import (
	"sync"
	"testing"
)

func TestStatsCounts(t *testing.T) {
	stats := NewStats()
	stats.RecordBatch(3, 1)
	stats.RecordBatch(2, 0)
	stats.RecordRejected()

	snap := stats.Snapshot()
	if snap.Requests != 2 {
		t.Fatalf("expected 2 requests, got %d", snap.Requests)
	}
	if snap.Flights != 5 {
		t.Fatalf("expected 5 flights, got %d", snap.Flights)
	}
	if snap.Delayed != 1 {
		t.Fatalf("expected 1 delayed, got %d", snap.Delayed)
	}
	if snap.Rejected != 1 {
		t.Fatalf("expected 1 rejected, got %d", snap.Rejected)
	}
}

func TestStatsConcurrent(t *testing.T) {
	stats := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.RecordBatch(1, 1)
		}()
	}
	wg.Wait()
	if snap := stats.Snapshot(); snap.Flights != 50 || snap.Delayed != 50 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
