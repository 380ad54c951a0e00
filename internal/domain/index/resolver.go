// Package index derives physical index names from logical ones.
package index

import "strings"

// Resolver maps logical index names onto their physical, variant-prefixed
// counterparts. The variant identifies the deployment environment or tenant
// and is fixed at construction, keeping both directions pure.
type Resolver struct {
	variant string
}

// NewResolver creates a Resolver for the given index variant (may be empty).
func NewResolver(variant string) *Resolver {
	return &Resolver{variant: variant}
}

// Variant returns the configured index variant.
func (r *Resolver) Variant() string { return r.variant }

// Resolve returns "variant_logical", or the logical name unchanged when no
// variant is configured.
func (r *Resolver) Resolve(logical string) string {
	if r.variant == "" {
		return logical
	}
	return r.variant + "_" + logical
}

// Unresolve strips the variant prefix from a physical index name read back
// from a query hit. A physical name that begins with "variant_" without
// having been produced by Resolve unresolves ambiguously; that known edge
// case is accepted rather than silently worked around.
func (r *Resolver) Unresolve(physical string) string {
	if r.variant == "" {
		return physical
	}
	return strings.TrimPrefix(physical, r.variant+"_")
}
