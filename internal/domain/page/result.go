// Package page holds the paginated read-back result.
package page

import (
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
)

// Result is one page of reconstructed documents plus pagination metadata.
type Result struct {
	Documents    []document.Document
	PageSize     int
	CurrentPage  int
	TotalPages   int
	TotalResults int
}

// NewResult builds a Result, computing TotalPages as ceil(total/pageSize).
func NewResult(docs []document.Document, pageSize, currentPage, totalResults int) Result {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalResults + pageSize - 1) / pageSize
	}
	return Result{
		Documents:    docs,
		PageSize:     pageSize,
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalResults: totalResults,
	}
}

// Empty returns a zero-total page, used when the target index does not exist.
func Empty(pageSize, currentPage int) Result {
	return Result{
		Documents:   []document.Document{},
		PageSize:    pageSize,
		CurrentPage: currentPage,
	}
}
