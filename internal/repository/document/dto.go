package document

import (
	domdoc "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
)

// JSONCodec is the default document codec. Bodies arrive already normalized
// from the caller, so both directions are pass-through.
type JSONCodec struct{}

// Normalize returns the document body as the raw engine payload.
func (JSONCodec) Normalize(doc domdoc.Document) (map[string]any, error) {
	return doc.Body(), nil
}

// Reconstruct hydrates a logical document from a raw hit body.
func (JSONCodec) Reconstruct(id, logicalIndex string, raw map[string]any) (domdoc.Document, error) {
	return domdoc.Reconstruct(id, logicalIndex, raw), nil
}
