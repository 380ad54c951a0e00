// Package index manages physical index lifecycle against the engine.
package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/field"
)

// store is the consumer interface for index administration (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, name string, body []byte) error
	PutMapping(ctx context.Context, name string, body []byte) error
}

// Baseline index settings: a single shard with no replicas. A simplicity
// default for the content-index use case, not a scale recommendation.
const (
	baselineShards   = 1
	baselineReplicas = 0
)

// Repo implements usecase/indexer.IndexRepository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Exists reports whether the physical index is present.
func (r *Repo) Exists(ctx context.Context, physical string) (bool, error) {
	exists, err := r.store.IndexExists(ctx, physical)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", physical, err)
	}
	return exists, nil
}

// EnsureExists creates the physical index with baseline settings when it is
// absent. Idempotent, safe to call before every write.
func (r *Repo) EnsureExists(ctx context.Context, physical string) error {
	exists, err := r.store.IndexExists(ctx, physical)
	if err != nil {
		return fmt.Errorf("check index %s: %w", physical, err)
	}
	if exists {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"settings": map[string]any{
			"number_of_shards":   baselineShards,
			"number_of_replicas": baselineReplicas,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal index settings: %w", err)
	}

	if err := r.store.CreateIndex(ctx, physical, body); err != nil {
		return fmt.Errorf("create index %s: %w", physical, err)
	}
	return nil
}

// ApplyMapping validates every field name, translates the descriptors, and
// submits the property set as a mapping update. Updates are additive-only;
// the engine rejects incompatible type changes to existing fields and that
// rejection propagates as an error.
func (r *Repo) ApplyMapping(ctx context.Context, physical string, fields []field.Descriptor) error {
	properties := make(map[string]field.Property, len(fields))
	for _, f := range fields {
		if err := field.ValidateName(f.Name()); err != nil {
			return fmt.Errorf("mapping for %s: %w", physical, err)
		}
		properties[f.Name()] = f.MappingProperty()
	}

	body, err := json.Marshal(map[string]any{"properties": properties})
	if err != nil {
		return fmt.Errorf("marshal mapping for %s: %w", physical, err)
	}

	if err := r.store.PutMapping(ctx, physical, body); err != nil {
		return fmt.Errorf("put mapping %s: %w", physical, err)
	}
	return nil
}
