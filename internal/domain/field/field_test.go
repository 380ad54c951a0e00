package field

import "testing"

func TestMappingProperty_DefaultsToText(t *testing.T) {
	d := NewDescriptor("title", nil)

	p := d.MappingProperty()
	if p.Type != "text" {
		t.Errorf("Type = %q, want %q", p.Type, "text")
	}
	if p.Format != "" {
		t.Errorf("Format = %q, want empty", p.Format)
	}
}

func TestMappingProperty_Date(t *testing.T) {
	d := NewDescriptor("published_at", map[string]string{"type": "date"})

	p := d.MappingProperty()
	if p.Type != "date" {
		t.Errorf("Type = %q, want %q", p.Type, "date")
	}
	want := "yyyy-MM-dd HH:mm:ss||yyyy-MM-dd||epoch_millis"
	if p.Format != want {
		t.Errorf("Format = %q, want %q", p.Format, want)
	}
}

func TestMappingProperty_UnrecognizedTypePassesThrough(t *testing.T) {
	d := NewDescriptor("location", map[string]string{"type": "geo_point"})

	p := d.MappingProperty()
	if p.Type != "geo_point" {
		t.Errorf("Type = %q, want %q", p.Type, "geo_point")
	}
	if p.Format != "" {
		t.Errorf("Format = %q, want empty", p.Format)
	}
}

func TestDescriptor_Option(t *testing.T) {
	d := NewDescriptor("title", map[string]string{"type": "keyword", "boost": "2"})

	if got := d.Option("boost"); got != "2" {
		t.Errorf("Option(boost) = %q, want %q", got, "2")
	}
	if got := d.Option("missing"); got != "" {
		t.Errorf("Option(missing) = %q, want empty", got)
	}
}

func TestNewDescriptor_ClonesOptions(t *testing.T) {
	opts := map[string]string{"type": "date"}
	d := NewDescriptor("published_at", opts)

	opts["type"] = "text"
	if d.Type() != "date" {
		t.Errorf("Type = %q after mutating input options, want %q", d.Type(), "date")
	}
}
