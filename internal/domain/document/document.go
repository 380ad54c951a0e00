// Package document holds the caller-facing logical document value object.
package document

import "fmt"

// Document is a logical document (immutable value object). The identifier
// is unique within its source index; the body holds already-normalized
// field values and is never mutated by the indexing core.
type Document struct {
	identifier string
	source     string
	body       map[string]any
}

// New validates and creates a Document.
// Identifier and source index name are required; the body may be empty.
func New(identifier, source string, body map[string]any) (Document, error) {
	if identifier == "" {
		return Document{}, fmt.Errorf("document identifier is required")
	}
	if source == "" {
		return Document{}, fmt.Errorf("document source index is required")
	}
	return Document{identifier: identifier, source: source, body: cloneBody(body)}, nil
}

// Reconstruct creates a Document without validation (engine hydration).
func Reconstruct(identifier, source string, body map[string]any) Document {
	return Document{identifier: identifier, source: source, body: body}
}

// Identifier returns the document identifier.
func (d Document) Identifier() string { return d.identifier }

// Source returns the logical index name the document belongs to.
func (d Document) Source() string { return d.source }

// Body returns the normalized field values.
func (d Document) Body() map[string]any { return d.body }

// Indexable reports whether the document carries enough identity to be
// routed to an index. Non-indexable documents are skipped by grouping.
func (d Document) Indexable() bool { return d.identifier != "" && d.source != "" }

func cloneBody(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
