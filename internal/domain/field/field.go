// Package field holds declarative field descriptors and their translation
// into engine-native mapping properties.
package field

// TypeText is the mapping type applied when a descriptor declares none.
const TypeText = "text"

// TypeDate carries the fixed multi-pattern format so heterogeneous date
// literals ingest without per-field format configuration.
const TypeDate = "date"

// DateFormats accepts datetime, date-only and epoch-millisecond literals.
const DateFormats = "yyyy-MM-dd HH:mm:ss||yyyy-MM-dd||epoch_millis"

// Descriptor declares how one document field is indexed (immutable value
// object). Options carry the optional "type" tag plus type-specific
// sub-options; descriptors are supplied by configuration per logical index.
type Descriptor struct {
	name    string
	options map[string]string
}

// NewDescriptor creates a Descriptor. Name validity is checked separately
// by ValidateName before a mapping update reaches the wire.
func NewDescriptor(name string, options map[string]string) Descriptor {
	return Descriptor{name: name, options: cloneOptions(options)}
}

// Name returns the field name.
func (d Descriptor) Name() string { return d.name }

// Option returns a declared option value, or "" when unset.
func (d Descriptor) Option(key string) string { return d.options[key] }

// Type returns the declared mapping type, defaulting to text.
func (d Descriptor) Type() string {
	if t := d.options["type"]; t != "" {
		return t
	}
	return TypeText
}

// Property is an engine mapping property descriptor.
type Property struct {
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

// MappingProperty translates the descriptor into a mapping property.
// Unrecognized types pass through verbatim; the engine is authoritative
// on validity.
func (d Descriptor) MappingProperty() Property {
	p := Property{Type: d.Type()}
	if p.Type == TypeDate {
		p.Format = DateFormats
	}
	return p
}

func cloneOptions(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
