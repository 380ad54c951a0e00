package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain"
	domdoc "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/page"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Indexer is the indexing surface the HTTP API exposes.
type Indexer interface {
	AddDocuments(ctx context.Context, docs []domdoc.Document) ([]string, error)
	RemoveDocuments(ctx context.Context, docs []domdoc.Document) ([]string, error)
	RemoveAllDocuments(ctx context.Context, index string) (int, error)
	GetDocument(ctx context.Context, id string) (*domdoc.Document, error)
	GetDocuments(ctx context.Context, ids []string) ([]domdoc.Document, error)
	ListDocuments(ctx context.Context, index string, pageSize, currentPage int) (page.Result, error)
	GetDocumentTotal(ctx context.Context, index string) (int, error)
	Configure(ctx context.Context) (map[string]bool, error)
	MaxDocumentSize() int
}

// HealthChecker reports service readiness.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Server exposes the indexing API over HTTP.
type Server struct {
	indexer       Indexer
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(indexer Indexer, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		indexer: indexer,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFieldName, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrBulkFailure, http.StatusBadGateway, codeBulkFailure),
		sentinelHandler(domain.ErrConfiguration, http.StatusBadGateway, codeConfigurationFailed),
	}
	return s
}

// Routes registers all API handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Post("/configure", s.Configure)

	r.Post("/documents", s.AddDocuments)
	r.Delete("/documents", s.RemoveDocuments)
	r.Get("/documents", s.GetDocuments)
	r.Get("/documents/{id}", s.GetDocument)

	r.Get("/indexes/{index}/documents", s.ListDocuments)
	r.Delete("/indexes/{index}/documents", s.RemoveAllDocuments)
	r.Get("/indexes/{index}/total", s.GetDocumentTotal)
}

// documentPayload is the wire shape of a document.
type documentPayload struct {
	ID    string         `json:"id"`
	Index string         `json:"index"`
	Body  map[string]any `json:"body"`
}

type documentsRequest struct {
	Documents []documentPayload `json:"documents"`
}

type processedResponse struct {
	Processed []string `json:"processed"`
}

// AddDocuments handles POST /documents.
func (s *Server) AddDocuments(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.decodeDocuments(w, r)
	if !ok {
		return
	}

	ids, err := s.indexer.AddDocuments(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, processedResponse{Processed: ids})
}

// RemoveDocuments handles DELETE /documents.
func (s *Server) RemoveDocuments(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.decodeDocuments(w, r)
	if !ok {
		return
	}

	ids, err := s.indexer.RemoveDocuments(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, processedResponse{Processed: ids})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.indexer.GetDocument(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, codeDocumentNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, documentToPayload(*doc))
}

// GetDocuments handles GET /documents?ids=a,b,c.
func (s *Server) GetDocuments(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	docs, err := s.indexer.GetDocuments(r.Context(), ids)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentPayload, len(docs))
	for i, d := range docs {
		items[i] = documentToPayload(d)
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": items})
}

// ListDocuments handles GET /indexes/{index}/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	pageSize := queryInt(r, "page_size", 0)
	currentPage := queryInt(r, "page", 0)

	result, err := s.indexer.ListDocuments(r.Context(), index, pageSize, currentPage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentPayload, len(result.Documents))
	for i, d := range result.Documents {
		items[i] = documentToPayload(d)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents":     items,
		"page_size":     result.PageSize,
		"current_page":  result.CurrentPage,
		"total_pages":   result.TotalPages,
		"total_results": result.TotalResults,
	})
}

// RemoveAllDocuments handles DELETE /indexes/{index}/documents.
func (s *Server) RemoveAllDocuments(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	deleted, err := s.indexer.RemoveAllDocuments(r.Context(), index)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// GetDocumentTotal handles GET /indexes/{index}/total.
func (s *Server) GetDocumentTotal(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	total, err := s.indexer.GetDocumentTotal(r.Context(), index)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"total": total})
}

// Configure handles POST /configure.
func (s *Server) Configure(w http.ResponseWriter, r *http.Request) {
	flags, err := s.indexer.Configure(r.Context())
	if err != nil {
		s.logger.Error("index configuration failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"code":    codeConfigurationFailed,
			"message": err.Error(),
			"indexes": flags,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"indexes": flags})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Check(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decodeDocuments(w http.ResponseWriter, r *http.Request) ([]domdoc.Document, bool) {
	var req documentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	docs := make([]domdoc.Document, 0, len(req.Documents))
	for _, p := range req.Documents {
		doc, err := domdoc.New(p.ID, p.Index, p.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return nil, false
		}
		if raw, err := json.Marshal(p.Body); err == nil && len(raw) > s.indexer.MaxDocumentSize() {
			s.logger.Warn("document exceeds advisory size limit",
				zap.String("id", p.ID),
				zap.Int("size", len(raw)),
				zap.Int("limit", s.indexer.MaxDocumentSize()))
		}
		docs = append(docs, doc)
	}
	return docs, true
}

func documentToPayload(d domdoc.Document) documentPayload {
	return documentPayload{
		ID:    d.Identifier(),
		Index: d.Source(),
		Body:  d.Body(),
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeDocumentNotFound    = "document_not_found"
	codeBulkFailure         = "bulk_failure"
	codeConfigurationFailed = "configuration_failed"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
func safeDomainMessage(err error) string {
	var bulkErr *domain.BulkError
	if errors.As(err, &bulkErr) {
		return fmt.Sprintf("bulk write to index %s failed", bulkErr.Index)
	}

	sentinels := []error{
		domain.ErrInvalidFieldName,
		domain.ErrBulkFailure,
		domain.ErrConfiguration,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
