package index

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	existsFn     func(ctx context.Context, name string) (bool, error)
	createFn     func(ctx context.Context, name string, body []byte) error
	putMappingFn func(ctx context.Context, name string, body []byte) error

	createCalls     int
	putMappingCalls int
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, name string, body []byte) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, name, body)
	}
	return nil
}

func (m *mockStore) PutMapping(ctx context.Context, name string, body []byte) error {
	m.putMappingCalls++
	if m.putMappingFn != nil {
		return m.putMappingFn(ctx, name, body)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
