package config

import (
	"sort"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/field"
)

// Accessor exposes the declarative index configuration to the indexing
// service. It reads from the loaded Config on every call.
type Accessor struct {
	cfg Config
}

func NewAccessor(cfg Config) *Accessor {
	return &Accessor{cfg: cfg}
}

// IndexVariant returns the environment prefix applied to index names.
func (a *Accessor) IndexVariant() string {
	return a.cfg.Search.IndexVariant
}

// IndexNames returns the configured logical index names in stable order.
func (a *Accessor) IndexNames() []string {
	names := make([]string, 0, len(a.cfg.Indexes))
	for name := range a.cfg.Indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldsForIndex returns the field descriptors declared for a logical index.
// The field type folds into the descriptor options under the "type" key.
func (a *Accessor) FieldsForIndex(logical string) []field.Descriptor {
	ic, ok := a.cfg.Indexes[logical]
	if !ok {
		return nil
	}

	descriptors := make([]field.Descriptor, 0, len(ic.Fields))
	for _, f := range ic.Fields {
		options := make(map[string]string, len(f.Options)+1)
		for k, v := range f.Options {
			options[k] = v
		}
		if f.Type != "" {
			options["type"] = f.Type
		}
		descriptors = append(descriptors, field.NewDescriptor(f.Name, options))
	}
	return descriptors
}
