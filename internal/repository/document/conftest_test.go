package document

import (
	"context"
	"testing"

	domidx "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/index"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/es"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	bulkFn          func(ctx context.Context, ops []es.BulkOp) (*es.BulkResult, error)
	searchFn        func(ctx context.Context, indices []string, body []byte) (*es.SearchResult, error)
	deleteByQueryFn func(ctx context.Context, index string, body []byte) (int, error)

	bulkCalls   int
	searchCalls int
}

func (m *mockStore) Bulk(ctx context.Context, ops []es.BulkOp) (*es.BulkResult, error) {
	m.bulkCalls++
	if m.bulkFn != nil {
		return m.bulkFn(ctx, ops)
	}
	return &es.BulkResult{}, nil
}

func (m *mockStore) Search(ctx context.Context, indices []string, body []byte) (*es.SearchResult, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, indices, body)
	}
	return &es.SearchResult{}, nil
}

func (m *mockStore) DeleteByQuery(ctx context.Context, index string, body []byte) (int, error) {
	if m.deleteByQueryFn != nil {
		return m.deleteByQueryFn(ctx, index, body)
	}
	return 0, nil
}

func newTestRepo(t *testing.T, variant string) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, nil, domidx.NewResolver(variant)), ms
}

// okBulkResult builds a successful bulk response echoing the op ids.
func okBulkResult(ops []es.BulkOp) *es.BulkResult {
	result := &es.BulkResult{}
	for _, op := range ops {
		result.Items = append(result.Items, es.BulkItem{ID: op.ID, Status: 200})
	}
	return result
}
