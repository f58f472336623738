package ml

import (
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"flightdelay/flights"
)

// cacheSize comfortably covers the whole input space: 5 carriers x 2 flight
// types x 12 months.
const cacheSize = 256

type cacheKey struct {
	operator string
	ftype    flights.FlightType
	month    int
}

// snapshot pairs a classifier with its prediction cache so a hot reload
// replaces both in one pointer swap; in-flight requests keep whichever
// snapshot they loaded.
type snapshot struct {
	model    *LogisticRegression
	cache    *lru.Cache[cacheKey, int]
	source   string
	loadedAt time.Time
}

// Service validates inference batches and serves predictions from the
// currently loaded classifier. Safe for concurrent use; serving only reads
// the published snapshot.
type Service struct {
	current atomic.Pointer[snapshot]
}

func NewService() *Service {
	return &Service{}
}

// SetModel publishes a new classifier. source is a human-readable origin
// (artifact path or registry key) surfaced in model metadata.
func (s *Service) SetModel(m *LogisticRegression, source string) {
	cache, _ := lru.New[cacheKey, int](cacheSize)
	s.current.Store(&snapshot{
		model:    m,
		cache:    cache,
		source:   source,
		loadedAt: time.Now().UTC(),
	})
}

// Loaded reports whether a trained classifier is currently published.
func (s *Service) Loaded() bool {
	snap := s.current.Load()
	return snap != nil && snap.model.Trained()
}

// ModelInfo describes the published classifier for the /api/model endpoint.
type ModelInfo struct {
	Loaded       bool      `json:"loaded"`
	Source       string    `json:"source,omitempty"`
	LoadedAt     time.Time `json:"loaded_at,omitempty"`
	FeatureCount int       `json:"feature_count"`
}

func (s *Service) Info() ModelInfo {
	info := ModelInfo{FeatureCount: FeatureCount}
	snap := s.current.Load()
	if snap == nil || !snap.model.Trained() {
		return info
	}
	info.Loaded = true
	info.Source = snap.source
	info.LoadedAt = snap.loadedAt
	return info
}

// Predict returns one binary prediction per record, preserving input order.
// Any invalid record rejects the whole batch with ErrInvalidInput and no
// partial results. With no classifier loaded every flight predicts 0: the
// endpoint fails open rather than erroring on a missing model.
func (s *Service) Predict(records []flights.Record) ([]int, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: flight %d: %v", ErrInvalidInput, i, err)
		}
	}

	predictions := make([]int, len(records))
	snap := s.current.Load()
	if snap == nil || !snap.model.Trained() {
		return predictions, nil
	}

	for i, r := range records {
		key := cacheKey{operator: r.Operator, ftype: r.Type, month: r.Month}
		if label, ok := snap.cache.Get(key); ok {
			predictions[i] = label
			continue
		}
		label, _, err := snap.model.Predict(EncodeRecord(r))
		if err != nil {
			return nil, err
		}
		snap.cache.Add(key, label)
		predictions[i] = label
	}
	return predictions, nil
}
