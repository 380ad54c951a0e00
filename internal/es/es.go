// Package es is the search engine transport facade. Repositories consume
// the narrow sub-interfaces, never the SDK client directly.
package es

import "context"

// Store is the engine facade combining all sub-interfaces.
type Store interface {
	Pinger
	IndexAdmin
	DocumentStore
	Searcher
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexAdmin provides index lifecycle operations.
type IndexAdmin interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, name string, body []byte) error
	PutMapping(ctx context.Context, name string, body []byte) error
}

// DocumentStore provides bulk write operations.
type DocumentStore interface {
	Bulk(ctx context.Context, ops []BulkOp) (*BulkResult, error)
	DeleteByQuery(ctx context.Context, index string, body []byte) (int, error)
}

// Searcher executes raw search bodies. An empty index list searches
// every index in the engine.
type Searcher interface {
	Search(ctx context.Context, indices []string, body []byte) (*SearchResult, error)
}

// Bulk action names on the wire.
const (
	ActionIndex  = "index"
	ActionDelete = "delete"
)

// BulkOp is one action/body pair in a bulk request. Body is nil for
// delete actions.
type BulkOp struct {
	Action string
	Index  string
	ID     string
	Body   []byte
}

// BulkResult is the interpreted outcome of one bulk call.
type BulkResult struct {
	Errors bool
	Items  []BulkItem
}

// BulkItem is the per-document outcome inside a bulk response.
// Reason is empty when the item succeeded.
type BulkItem struct {
	ID     string
	Status int
	Reason string
}

// SearchResult is the output of a search call. Total comes from the
// response metadata, not from counting returned hits.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Hit is a single raw document hit.
type Hit struct {
	ID     string
	Index  string
	Source map[string]any
}
