package indexer

import (
	"context"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/field"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/page"
)

// DocumentRepository executes engine reads and writes for documents.
type DocumentRepository interface {
	BulkIndex(ctx context.Context, physical string, docs []document.Document) ([]string, error)
	BulkDelete(ctx context.Context, physical string, docs []document.Document) ([]string, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	GetMany(ctx context.Context, ids []string) ([]document.Document, error)
	List(ctx context.Context, physical string, pageSize, currentPage int) (page.Result, error)
	Count(ctx context.Context, physical string) (int, error)
	DeleteAll(ctx context.Context, physical string) (int, error)
}

// IndexRepository manages physical index lifecycle and mappings.
type IndexRepository interface {
	Exists(ctx context.Context, physical string) (bool, error)
	EnsureExists(ctx context.Context, physical string) error
	ApplyMapping(ctx context.Context, physical string, fields []field.Descriptor) error
}

// ConfigSource supplies the declarative index configuration. It is queried
// fresh on every call; the service never caches what it returns.
type ConfigSource interface {
	IndexVariant() string
	IndexNames() []string
	FieldsForIndex(logical string) []field.Descriptor
}
