// Package chi exposes the HTTP API: item lookup, citation assembly,
// easykey completion and search.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/citedex/internal/domain"
	citationuc "github.com/kailas-cloud/citedex/internal/usecase/citation"
	healthuc "github.com/kailas-cloud/citedex/internal/usecase/health"
	renderuc "github.com/kailas-cloud/citedex/internal/usecase/render"
	resolveuc "github.com/kailas-cloud/citedex/internal/usecase/resolve"
	searchuc "github.com/kailas-cloud/citedex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services to HTTP handlers.
type Server struct {
	resolver      *resolveuc.Service
	renderer      *renderuc.Service
	citations     *citationuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	resolver *resolveuc.Service,
	renderer *renderuc.Service,
	citations *citationuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		resolver:  resolver,
		renderer:  renderer,
		citations: citations,
		search:    search,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingOrConflictingLocator, http.StatusBadRequest, "missing_or_conflicting_locator"),
		sentinelHandler(domain.ErrUnknownKey, http.StatusBadRequest, "unknown_key"),
		sentinelHandler(domain.ErrUnknownEasykey, http.StatusBadRequest, "unknown_easykey"),
		sentinelHandler(domain.ErrAmbiguousReference, http.StatusBadRequest, "ambiguous_reference"),
		sentinelHandler(domain.ErrMissingRequiredField, http.StatusBadRequest, "missing_required_field"),
		sentinelHandler(domain.ErrUnknownCollection, http.StatusBadRequest, "unknown_collection"),
		sentinelHandler(domain.ErrUnknownFormat, http.StatusBadRequest, "unknown_format"),
		sentinelHandler(domain.ErrUnknownStyle, http.StatusBadRequest, "unknown_style"),
	}
	return s
}

// Routes mounts every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/items", s.Items)
	r.Get("/complete", s.Complete)
	r.Post("/bibliography", s.Bibliography)
	r.Get("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Items handles GET /items: locator in, rendered values out.
func (s *Server) Items(w http.ResponseWriter, r *http.Request) {
	loc, err := locatorFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	format, err := renderuc.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.resolver.Resolve(r.Context(), loc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.writeRendered(w, r, res, format)
}

// Complete handles GET /complete: easykey prefix in, candidates out.
func (s *Server) Complete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("easykey")
	if prefix == "" {
		writeError(w, http.StatusBadRequest, "missing_or_conflicting_locator", "easykey prefix is required")
		return
	}

	candidates, err := s.search.Complete(r.Context(), prefix)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if candidates == nil {
		candidates = []string{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

// bibliographyRequest is the POST /bibliography body.
type bibliographyRequest struct {
	StyleID        string                 `json:"styleId"`
	CitationGroups []domain.CitationGroup `json:"citationGroups"`
}

type bibliographyResponse struct {
	CitationClusters []string `json:"citationClusters"`
}

// Bibliography handles POST /bibliography: style plus citation groups in,
// citation clusters out. Fails as a whole on any unresolved reference.
func (s *Server) Bibliography(w http.ResponseWriter, r *http.Request) {
	var req bibliographyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	clusters, err := s.citations.Assemble(r.Context(), req.StyleID, req.CitationGroups)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bibliographyResponse{CitationClusters: clusters})
}

// Search handles GET /search: ranked free-text results, rendered.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "q is required")
		return
	}

	format, err := renderuc.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.search.Search(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.writeRendered(w, r, res, format)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// writeRendered renders resolved items and writes them out: a JSON array
// for most formats, plain text for bibtex.
func (s *Server) writeRendered(w http.ResponseWriter, r *http.Request, res domain.Resolution, format renderuc.Format) {
	styleID := r.URL.Query().Get("style")
	rendered, err := s.renderer.Render(res.Items, format, styleID, res.LibraryVersion)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if rendered.Format == renderuc.FormatBibtex {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(rendered.Text))
		return
	}

	values := rendered.Values
	if values == nil {
		values = []any{}
	}
	writeJSON(w, http.StatusOK, values)
}

// locatorFromQuery maps the query parameters onto a locator, enforcing the
// exactly-one rule.
func locatorFromQuery(r *http.Request) (domain.Locator, error) {
	q := r.URL.Query()
	params := make(map[domain.LocatorKind][]string)

	if v := q.Get("key"); v != "" {
		params[domain.LocatorKeys] = splitList(v)
	}
	if v := q.Get("easykey"); v != "" {
		params[domain.LocatorEasykeys] = splitList(v)
	}
	if v := q.Get("collection"); v != "" {
		params[domain.LocatorCollection] = []string{v}
	}
	if q.Has("selected") {
		params[domain.LocatorSelected] = []string{"selected"}
	}
	if q.Has("all") {
		params[domain.LocatorAll] = []string{"all"}
	}

	return domain.NewLocator(params)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingOrConflictingLocator,
		domain.ErrUnknownKey,
		domain.ErrUnknownEasykey,
		domain.ErrAmbiguousReference,
		domain.ErrMissingRequiredField,
		domain.ErrUnknownCollection,
		domain.ErrUnknownFormat,
		domain.ErrUnknownStyle,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
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
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
