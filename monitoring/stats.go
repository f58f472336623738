// Package monitoring tracks serving statistics and streams them to
// dashboard clients over WebSocket.
package monitoring

import (
	"sync"
	"time"
)

// Stats counts served predictions. Safe for concurrent use.
type Stats struct {
	mu        sync.RWMutex
	requests  int64
	flights   int64
	delayed   int64
	rejected  int64
	startTime time.Time
}

func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordBatch registers one successful prediction request.
func (s *Stats) RecordBatch(flights, delayed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	s.flights += int64(flights)
	s.delayed += int64(delayed)
}

// RecordRejected registers a request rejected by validation.
func (s *Stats) RecordRejected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected++
}

// Snapshot is the JSON form pushed to dashboard clients.
type Snapshot struct {
	Requests      int64     `json:"requests"`
	Flights       int64     `json:"flights"`
	Delayed       int64     `json:"delayed"`
	Rejected      int64     `json:"rejected"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Requests:      s.requests,
		Flights:       s.flights,
		Delayed:       s.delayed,
		Rejected:      s.rejected,
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		Timestamp:     time.Now().UTC(),
	}
}
