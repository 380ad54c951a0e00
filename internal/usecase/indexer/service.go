package indexer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/field"
	domidx "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/index"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/page"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/logger"
)

const (
	// DefaultPageSize bounds ListDocuments when the caller passes no size.
	DefaultPageSize = 10

	// DefaultMaxDocumentSize is the advisory per-document byte ceiling.
	DefaultMaxDocumentSize = 102400
)

// Service orchestrates indexing operations against the search engine. It
// groups documents per physical index, provisions indexes before writes and
// absorbs missing indexes on reads.
type Service struct {
	docs            DocumentRepository
	indexes         IndexRepository
	cfg             ConfigSource
	resolver        *domidx.Resolver
	maxDocumentSize int
}

// Option customizes a Service.
type Option func(*Service)

// WithMaxDocumentSize overrides the advisory document size ceiling.
func WithMaxDocumentSize(bytes int) Option {
	return func(s *Service) {
		if bytes > 0 {
			s.maxDocumentSize = bytes
		}
	}
}

// New builds the indexing service. The resolver carries the environment
// variant applied to every logical index name.
func New(docs DocumentRepository, indexes IndexRepository, cfg ConfigSource, opts ...Option) *Service {
	s := &Service{
		docs:            docs,
		indexes:         indexes,
		cfg:             cfg,
		resolver:        domidx.NewResolver(cfg.IndexVariant()),
		maxDocumentSize: DefaultMaxDocumentSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddDocument indexes a single document.
func (s *Service) AddDocument(ctx context.Context, doc document.Document) error {
	_, err := s.AddDocuments(ctx, []document.Document{doc})
	return err
}

// AddDocuments groups documents by target index, ensures each index exists
// and writes each group in one bulk call. Returned identifiers follow group
// order, then input order within each group. The first failing group aborts
// the remainder.
func (s *Service) AddDocuments(ctx context.Context, docs []document.Document) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}

	log := logger.FromContext(ctx)

	processed := []string{}
	for _, g := range groupByIndex(s.resolver, docs) {
		if err := s.indexes.EnsureExists(ctx, g.physical); err != nil {
			return processed, fmt.Errorf("ensure index %s: %w: %w", g.physical, domain.ErrConfiguration, err)
		}
		ids, err := s.docs.BulkIndex(ctx, g.physical, g.docs)
		if err != nil {
			log.Warn("bulk index group failed",
				zap.String("index", g.physical),
				zap.Int("documents", len(g.docs)))
			return processed, err
		}
		processed = append(processed, ids...)
	}
	return processed, nil
}

// RemoveDocument deletes a single document from its index.
func (s *Service) RemoveDocument(ctx context.Context, doc document.Document) error {
	_, err := s.RemoveDocuments(ctx, []document.Document{doc})
	return err
}

// RemoveDocuments deletes documents grouped per index. Unlike writes, no
// index provisioning happens first.
func (s *Service) RemoveDocuments(ctx context.Context, docs []document.Document) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}

	processed := []string{}
	for _, g := range groupByIndex(s.resolver, docs) {
		ids, err := s.docs.BulkDelete(ctx, g.physical, g.docs)
		if err != nil {
			return processed, err
		}
		processed = append(processed, ids...)
	}
	return processed, nil
}

// RemoveAllDocuments deletes every document in the named logical index and
// reports how many were removed. A missing index counts as zero.
func (s *Service) RemoveAllDocuments(ctx context.Context, logical string) (int, error) {
	physical := s.resolver.Resolve(logical)

	exists, err := s.indexes.Exists(ctx, physical)
	if err != nil {
		return 0, fmt.Errorf("check index %s: %w", physical, err)
	}
	if !exists {
		return 0, nil
	}
	return s.docs.DeleteAll(ctx, physical)
}

// GetDocument fetches one document by identifier across all variant indexes.
// A miss returns nil without error.
func (s *Service) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	return s.docs.Get(ctx, id)
}

// GetDocuments fetches documents by identifier; absent identifiers are
// silently omitted from the result.
func (s *Service) GetDocuments(ctx context.Context, ids []string) ([]document.Document, error) {
	if len(ids) == 0 {
		return []document.Document{}, nil
	}
	return s.docs.GetMany(ctx, ids)
}

// ListDocuments returns one page of documents from the named logical index.
// Zero or negative paging inputs fall back to the defaults, and a missing
// index yields an empty page instead of an error.
func (s *Service) ListDocuments(ctx context.Context, logical string, pageSize, currentPage int) (page.Result, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if currentPage < 0 {
		currentPage = 0
	}

	physical := s.resolver.Resolve(logical)
	exists, err := s.indexes.Exists(ctx, physical)
	if err != nil {
		return page.Result{}, fmt.Errorf("check index %s: %w", physical, err)
	}
	if !exists {
		return page.Empty(pageSize, currentPage), nil
	}
	return s.docs.List(ctx, physical, pageSize, currentPage)
}

// GetDocumentTotal counts documents in the named logical index. A missing
// index counts as zero.
func (s *Service) GetDocumentTotal(ctx context.Context, logical string) (int, error) {
	physical := s.resolver.Resolve(logical)

	exists, err := s.indexes.Exists(ctx, physical)
	if err != nil {
		return 0, fmt.Errorf("check index %s: %w", physical, err)
	}
	if !exists {
		return 0, nil
	}
	return s.docs.Count(ctx, physical)
}

// Configure provisions every configured index and applies its field mapping.
// A failing index does not stop the rest; the returned map is keyed by the
// logical index name as callers declared it, and the error joins every
// failure naming the physical index involved.
func (s *Service) Configure(ctx context.Context) (map[string]bool, error) {
	flags := make(map[string]bool)
	var errs []error

	for _, logical := range s.cfg.IndexNames() {
		physical := s.resolver.Resolve(logical)

		if err := s.configureIndex(ctx, physical, s.cfg.FieldsForIndex(logical)); err != nil {
			flags[logical] = false
			errs = append(errs, fmt.Errorf("configure index %s: %w: %w", physical, domain.ErrConfiguration, err))
			continue
		}
		flags[logical] = true
	}
	return flags, errors.Join(errs...)
}

func (s *Service) configureIndex(ctx context.Context, physical string, fields []field.Descriptor) error {
	if err := s.indexes.EnsureExists(ctx, physical); err != nil {
		return err
	}
	return s.indexes.ApplyMapping(ctx, physical, fields)
}

// ValidateField reports whether a field name is acceptable to the engine.
func (s *Service) ValidateField(name string) error {
	return field.ValidateName(name)
}

// EnvironmentizeIndex maps a logical index name onto its physical name for
// the configured variant.
func (s *Service) EnvironmentizeIndex(logical string) string {
	return s.resolver.Resolve(logical)
}

// MaxDocumentSize returns the advisory per-document byte ceiling.
func (s *Service) MaxDocumentSize() int {
	return s.maxDocumentSize
}
