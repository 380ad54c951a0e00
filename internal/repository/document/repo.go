// Package document executes bulk writes and read-back queries against the
// engine, converting between logical documents and raw hits.
package document

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain"
	domdoc "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
	domidx "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/index"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/page"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/es"
)

// store is the consumer interface for document operations (ISP).
type store interface {
	Bulk(ctx context.Context, ops []es.BulkOp) (*es.BulkResult, error)
	Search(ctx context.Context, indices []string, body []byte) (*es.SearchResult, error)
	DeleteByQuery(ctx context.Context, index string, body []byte) (int, error)
}

// Codec converts between logical documents and raw engine bodies.
type Codec interface {
	Normalize(doc domdoc.Document) (map[string]any, error)
	Reconstruct(id, logicalIndex string, raw map[string]any) (domdoc.Document, error)
}

// Repo implements usecase/indexer.DocumentRepository.
type Repo struct {
	store    store
	codec    Codec
	resolver *domidx.Resolver
}

// New creates a document repository. A nil codec falls back to the JSON
// pass-through codec.
func New(s store, codec Codec, resolver *domidx.Resolver) *Repo {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Repo{store: s, codec: codec, resolver: resolver}
}

// BulkIndex writes one bulk call targeting a single physical index and
// returns the identifier of every item, in item order. Any item-level error
// fails the whole group: no identifiers are returned even though the engine
// may have accepted other items in the same call.
func (r *Repo) BulkIndex(ctx context.Context, physical string, docs []domdoc.Document) ([]string, error) {
	ops := make([]es.BulkOp, 0, len(docs))
	for _, d := range docs {
		normalized, err := r.codec.Normalize(d)
		if err != nil {
			return nil, fmt.Errorf("normalize document %s: %w", d.Identifier(), err)
		}
		body, err := json.Marshal(normalized)
		if err != nil {
			return nil, fmt.Errorf("marshal document %s: %w", d.Identifier(), err)
		}
		ops = append(ops, es.BulkOp{Action: es.ActionIndex, Index: physical, ID: d.Identifier(), Body: body})
	}

	result, err := r.store.Bulk(ctx, ops)
	if err != nil {
		return nil, fmt.Errorf("bulk index %s: %w", physical, err)
	}
	return collectIDs(physical, result)
}

// BulkDelete removes documents with one bulk call per physical index. Same
// all-or-nothing contract as BulkIndex; no index-existence pre-check,
// deleting from an absent index is the engine's concern.
func (r *Repo) BulkDelete(ctx context.Context, physical string, docs []domdoc.Document) ([]string, error) {
	ops := make([]es.BulkOp, 0, len(docs))
	for _, d := range docs {
		ops = append(ops, es.BulkOp{Action: es.ActionDelete, Index: physical, ID: d.Identifier()})
	}

	result, err := r.store.Bulk(ctx, ops)
	if err != nil {
		return nil, fmt.Errorf("bulk delete %s: %w", physical, err)
	}
	return collectIDs(physical, result)
}

// Get searches every index for an exact identifier match. Returns nil with
// no error when nothing matches.
func (r *Repo) Get(ctx context.Context, id string) (*domdoc.Document, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"_id": id}},
		"size":  1,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal get query: %w", err)
	}

	result, err := r.store.Search(ctx, nil, body)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(result.Hits) == 0 {
		return nil, nil
	}

	doc, err := r.reconstructHit(result.Hits[0])
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &doc, nil
}

// GetMany searches every index for the given identifiers, capping the
// result size at the number of ids requested.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]domdoc.Document, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"terms": map[string]any{"_id": ids}},
		"size":  len(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal multi-get query: %w", err)
	}

	result, err := r.store.Search(ctx, nil, body)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(result.Hits))
	for _, h := range result.Hits {
		doc, err := r.reconstructHit(h)
		if err != nil {
			return nil, fmt.Errorf("get documents: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// List runs a match-all page against one physical index.
func (r *Repo) List(ctx context.Context, physical string, pageSize, currentPage int) (page.Result, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
		"from":  currentPage * pageSize,
		"size":  pageSize,
	})
	if err != nil {
		return page.Result{}, fmt.Errorf("marshal list query: %w", err)
	}

	result, err := r.store.Search(ctx, []string{physical}, body)
	if err != nil {
		return page.Result{}, fmt.Errorf("list %s: %w", physical, err)
	}

	docs := make([]domdoc.Document, 0, len(result.Hits))
	for _, h := range result.Hits {
		doc, err := r.reconstructHit(h)
		if err != nil {
			return page.Result{}, fmt.Errorf("list %s: %w", physical, err)
		}
		docs = append(docs, doc)
	}
	return page.NewResult(docs, pageSize, currentPage, result.Total), nil
}

// Count reads the exact document total from the response metadata of a
// size-0 match-all query; counting returned hits would truncate.
func (r *Repo) Count(ctx context.Context, physical string) (int, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
		"size":  0,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal count query: %w", err)
	}

	result, err := r.store.Search(ctx, []string{physical}, body)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", physical, err)
	}
	return result.Total, nil
}

// DeleteAll removes every document in the physical index and returns the
// deleted count.
func (r *Repo) DeleteAll(ctx context.Context, physical string) (int, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal delete-all query: %w", err)
	}

	n, err := r.store.DeleteByQuery(ctx, physical, body)
	if err != nil {
		return 0, fmt.Errorf("delete all %s: %w", physical, err)
	}
	return n, nil
}

// reconstructHit rebuilds a logical document from a raw hit, recovering the
// logical source name from the hit's physical index.
func (r *Repo) reconstructHit(h es.Hit) (domdoc.Document, error) {
	logical := r.resolver.Unresolve(h.Index)
	return r.codec.Reconstruct(h.ID, logical, h.Source)
}

// collectIDs interprets one bulk response: all identifiers on full success,
// an aggregated BulkError when the response reports any item failure.
func collectIDs(physical string, result *es.BulkResult) ([]string, error) {
	if result.Errors {
		reasons := make([]string, 0, len(result.Items))
		for _, item := range result.Items {
			if item.Reason != "" {
				reasons = append(reasons, fmt.Sprintf("%s: %s", item.ID, item.Reason))
			}
		}
		return nil, domain.NewBulkError(physical, reasons)
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}
