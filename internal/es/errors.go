package es

// Op constants name engine endpoints for error context.
const (
	OpPing          = "ping"
	OpIndexExists   = "indices.exists"
	OpCreateIndex   = "indices.create"
	OpPutMapping    = "indices.put_mapping"
	OpBulk          = "bulk"
	OpSearch        = "search"
	OpDeleteByQuery = "delete_by_query"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
