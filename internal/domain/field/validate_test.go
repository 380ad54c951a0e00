package field

import (
	"errors"
	"testing"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain"
)

func TestValidateName_Valid(t *testing.T) {
	names := []string{"my_field", "title", "publishedAt", "field-1", "a.b"}

	for _, name := range names {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) unexpected error: %v", name, err)
		}
	}
}

func TestValidateName_LeadingUnderscore(t *testing.T) {
	err := ValidateName("_id")
	if err == nil {
		t.Fatal("expected error for leading underscore")
	}
	if !errors.Is(err, domain.ErrInvalidFieldName) {
		t.Errorf("error = %v, want ErrInvalidFieldName", err)
	}
}

func TestValidateName_ForbiddenCharacters(t *testing.T) {
	names := []string{
		"my field",
		"a#b",
		`a\b`,
		"a/b",
		"a*b",
		"a?b",
		`a"b`,
		"a<b",
		"a>b",
		"a|b",
		"a,b",
		"a:b",
	}

	for _, name := range names {
		err := ValidateName(name)
		if err == nil {
			t.Errorf("ValidateName(%q) expected error", name)
			continue
		}
		if !errors.Is(err, domain.ErrInvalidFieldName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidFieldName", name, err)
		}
	}
}

func TestValidateName_Empty(t *testing.T) {
	if err := ValidateName(""); err == nil {
		t.Fatal("expected error for empty name")
	}
}
