package es

import (
	"context"
	"time"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/metrics"
)

// InstrumentedStore decorates a Store with Prometheus metrics: per-endpoint
// request duration plus document-level indexing counters.
type InstrumentedStore struct {
	inner Store
}

var _ Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with metrics.
func NewInstrumentedStore(inner Store) *InstrumentedStore {
	return &InstrumentedStore{inner: inner}
}

// Ping delegates with timing.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.inner.Ping(ctx)
	observe(OpPing, start, err)
	return err
}

// IndexExists delegates with timing.
func (s *InstrumentedStore) IndexExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	exists, err := s.inner.IndexExists(ctx, name)
	observe(OpIndexExists, start, err)
	return exists, err
}

// CreateIndex delegates with timing.
func (s *InstrumentedStore) CreateIndex(ctx context.Context, name string, body []byte) error {
	start := time.Now()
	err := s.inner.CreateIndex(ctx, name, body)
	observe(OpCreateIndex, start, err)
	return err
}

// PutMapping delegates with timing.
func (s *InstrumentedStore) PutMapping(ctx context.Context, name string, body []byte) error {
	start := time.Now()
	err := s.inner.PutMapping(ctx, name, body)
	observe(OpPutMapping, start, err)
	return err
}

// Bulk delegates with timing and counts indexed/deleted documents per index.
// A response with item-level errors counts as one bulk failure per index
// involved; per-item successes are not counted in that case, matching the
// all-or-nothing reporting of the orchestration layer.
func (s *InstrumentedStore) Bulk(ctx context.Context, ops []BulkOp) (*BulkResult, error) {
	start := time.Now()
	result, err := s.inner.Bulk(ctx, ops)
	observe(OpBulk, start, err)
	if err != nil {
		return nil, err
	}

	indexed := make(map[string]int)
	deleted := make(map[string]int)
	targets := make(map[string]struct{})
	for _, op := range ops {
		targets[op.Index] = struct{}{}
		switch op.Action {
		case ActionIndex:
			indexed[op.Index]++
		case ActionDelete:
			deleted[op.Index]++
		}
	}

	if result.Errors {
		for index := range targets {
			metrics.BulkFailuresTotal.WithLabelValues(index).Inc()
		}
		return result, nil
	}

	for index, n := range indexed {
		metrics.DocumentsIndexedTotal.WithLabelValues(index).Add(float64(n))
	}
	for index, n := range deleted {
		metrics.DocumentsDeletedTotal.WithLabelValues(index).Add(float64(n))
	}
	return result, nil
}

// Search delegates with timing.
func (s *InstrumentedStore) Search(ctx context.Context, indices []string, body []byte) (*SearchResult, error) {
	start := time.Now()
	result, err := s.inner.Search(ctx, indices, body)
	observe(OpSearch, start, err)
	return result, err
}

// DeleteByQuery delegates with timing and counts deleted documents.
func (s *InstrumentedStore) DeleteByQuery(ctx context.Context, index string, body []byte) (int, error) {
	start := time.Now()
	n, err := s.inner.DeleteByQuery(ctx, index, body)
	observe(OpDeleteByQuery, start, err)
	if err == nil && n > 0 {
		metrics.DocumentsDeletedTotal.WithLabelValues(index).Add(float64(n))
	}
	return n, err
}

func observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EngineRequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
