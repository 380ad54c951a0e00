package indexer

import (
	"context"
	"testing"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/field"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/page"
)

type mockDocumentRepo struct {
	bulkIndexFn  func(ctx context.Context, physical string, docs []document.Document) ([]string, error)
	bulkDeleteFn func(ctx context.Context, physical string, docs []document.Document) ([]string, error)
	getFn        func(ctx context.Context, id string) (*document.Document, error)
	getManyFn    func(ctx context.Context, ids []string) ([]document.Document, error)
	listFn       func(ctx context.Context, physical string, pageSize, currentPage int) (page.Result, error)
	countFn      func(ctx context.Context, physical string) (int, error)
	deleteAllFn  func(ctx context.Context, physical string) (int, error)

	bulkIndexCalls  []string
	bulkDeleteCalls []string
	getManyCalls    int
	listCalls       int
	countCalls      int
}

func (m *mockDocumentRepo) BulkIndex(ctx context.Context, physical string, docs []document.Document) ([]string, error) {
	m.bulkIndexCalls = append(m.bulkIndexCalls, physical)
	if m.bulkIndexFn != nil {
		return m.bulkIndexFn(ctx, physical, docs)
	}
	return docIDs(docs), nil
}

func (m *mockDocumentRepo) BulkDelete(ctx context.Context, physical string, docs []document.Document) ([]string, error) {
	m.bulkDeleteCalls = append(m.bulkDeleteCalls, physical)
	if m.bulkDeleteFn != nil {
		return m.bulkDeleteFn(ctx, physical, docs)
	}
	return docIDs(docs), nil
}

func (m *mockDocumentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDocumentRepo) GetMany(ctx context.Context, ids []string) ([]document.Document, error) {
	m.getManyCalls++
	if m.getManyFn != nil {
		return m.getManyFn(ctx, ids)
	}
	return []document.Document{}, nil
}

func (m *mockDocumentRepo) List(ctx context.Context, physical string, pageSize, currentPage int) (page.Result, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, physical, pageSize, currentPage)
	}
	return page.Empty(pageSize, currentPage), nil
}

func (m *mockDocumentRepo) Count(ctx context.Context, physical string) (int, error) {
	m.countCalls++
	if m.countFn != nil {
		return m.countFn(ctx, physical)
	}
	return 0, nil
}

func (m *mockDocumentRepo) DeleteAll(ctx context.Context, physical string) (int, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx, physical)
	}
	return 0, nil
}

type mockIndexRepo struct {
	existsFn       func(ctx context.Context, physical string) (bool, error)
	ensureExistsFn func(ctx context.Context, physical string) error
	applyMappingFn func(ctx context.Context, physical string, fields []field.Descriptor) error

	ensureCalls  []string
	mappingCalls []string
}

func (m *mockIndexRepo) Exists(ctx context.Context, physical string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, physical)
	}
	return true, nil
}

func (m *mockIndexRepo) EnsureExists(ctx context.Context, physical string) error {
	m.ensureCalls = append(m.ensureCalls, physical)
	if m.ensureExistsFn != nil {
		return m.ensureExistsFn(ctx, physical)
	}
	return nil
}

func (m *mockIndexRepo) ApplyMapping(ctx context.Context, physical string, fields []field.Descriptor) error {
	m.mappingCalls = append(m.mappingCalls, physical)
	if m.applyMappingFn != nil {
		return m.applyMappingFn(ctx, physical, fields)
	}
	return nil
}

type mockConfig struct {
	variant string
	names   []string
	fields  map[string][]field.Descriptor
}

func (m *mockConfig) IndexVariant() string { return m.variant }
func (m *mockConfig) IndexNames() []string { return m.names }

func (m *mockConfig) FieldsForIndex(logical string) []field.Descriptor {
	return m.fields[logical]
}

func newTestService(t *testing.T, variant string) (*Service, *mockDocumentRepo, *mockIndexRepo) {
	t.Helper()
	docs := &mockDocumentRepo{}
	indexes := &mockIndexRepo{}
	cfg := &mockConfig{variant: variant}
	return New(docs, indexes, cfg), docs, indexes
}

func docIDs(docs []document.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Identifier())
	}
	return ids
}

func mustDoc(t *testing.T, id, source string) document.Document {
	t.Helper()
	doc, err := document.New(id, source, map[string]any{"title": id})
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}
