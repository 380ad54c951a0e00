package field

import (
	"fmt"
	"strings"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain"
)

// forbiddenChars are rejected by the engine anywhere in a field name.
const forbiddenChars = `#\/*?"<>| ,:`

// ValidateName rejects field names the engine would refuse: a leading
// underscore or any forbidden character. Pure predicate, no side effects;
// call it before a name is sent in a mapping update so the caller gets a
// precise local error instead of an opaque remote rejection.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("field name is empty: %w", domain.ErrInvalidFieldName)
	}
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("field name %q must not begin with an underscore: %w", name, domain.ErrInvalidFieldName)
	}
	if i := strings.IndexAny(name, forbiddenChars); i >= 0 {
		return fmt.Errorf("field name %q contains forbidden character %q: %w",
			name, name[i], domain.ErrInvalidFieldName)
	}
	return nil
}
