package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFieldName signals a field name violating the engine's naming rules.
	ErrInvalidFieldName = errors.New("invalid field name")
	// ErrBulkFailure signals item-level errors inside a bulk response.
	ErrBulkFailure = errors.New("bulk operation failed")
	// ErrConfiguration signals an index create or mapping failure.
	ErrConfiguration = errors.New("index configuration failed")
)

// BulkError wraps ErrBulkFailure with the target index and every
// item-level reason the engine reported. The whole group fails even when
// some items in the same bulk call were individually accepted.
type BulkError struct {
	Index   string
	Reasons []string
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("%s on %s: %s", ErrBulkFailure.Error(), e.Index, strings.Join(e.Reasons, "; "))
}

func (e *BulkError) Unwrap() error { return ErrBulkFailure }

// NewBulkError creates a bulk failure error for one index's batch.
func NewBulkError(index string, reasons []string) error {
	return &BulkError{Index: index, Reasons: reasons}
}
