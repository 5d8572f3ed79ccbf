package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
	"github.com/kailas-cloud/circuitdex/internal/logger"
	"github.com/kailas-cloud/circuitdex/internal/transport/api"
	healthuc "github.com/kailas-cloud/circuitdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/circuitdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultMode   mode.Mode
	queryTimeout  time.Duration
	errorHandlers []errorHandler
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:      search,
		health:      health,
		logger:      logger,
		defaultMode: mode.Hybrid,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, api.ErrorResponseCodeCircuitNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrSemanticUnavailable,
			http.StatusNotImplemented, api.ErrorResponseCodeSemanticUnavailable),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadGateway, api.ErrorResponseCodeVectorDimMismatch),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, api.ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, api.ErrorResponseCodeTimeout),
	}
	return s
}

// WithDefaultMode sets the mode used when a request omits it.
func (s *Server) WithDefaultMode(m mode.Mode) *Server {
	if m.IsValid() {
		s.defaultMode = m
	}
	return s
}

// WithQueryTimeout bounds each search, including the query embedding call. Zero disables it.
func (s *Server) WithQueryTimeout(d time.Duration) *Server {
	if d >= 0 {
		s.queryTimeout = d
	}
	return s
}

// SearchCircuits handles GET /search.
func (s *Server) SearchCircuits(w http.ResponseWriter, r *http.Request, params api.SearchCircuitsParams) {
	if params.TopK != nil && (*params.TopK <= 0 || *params.TopK > request.MaxTopK) {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed,
			fmt.Sprintf("top_k must be between 1 and %d", request.MaxTopK))
		return
	}

	m := s.defaultMode
	if params.Mode != nil {
		m = mode.Parse(string(*params.Mode))
	}

	req, err := request.New(derefString(params.Q), m, derefInt(params.TopK))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	ctx, usage := domain.NewContextWithUsage(ctx)
	results, err := s.search.Search(ctx, &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]api.SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToAPI(i+1, &results[i])
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, api.SearchResponse{
		Query: req.Query(),
		Mode:  api.SearchMode(req.Mode()),
		TopK:  req.TopK(),
		Total: len(items),
		Items: items,
	})
}

// GetCircuit handles GET /circuits/{id}.
func (s *Server) GetCircuit(w http.ResponseWriter, r *http.Request, id api.CircuitId) {
	c, err := s.search.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, circuitToAPI(&c))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]api.HealthResponseChecks, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = api.HealthResponseChecks(v)
	}

	st := s.search.Stats()
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: api.HealthResponseStatus(report.Status),
		Checks: checks,
		Index: &api.IndexStats{
			Circuits:       st.Circuits,
			LexicallyValid: st.LexicallyValid,
			Dimension:      st.Dimension,
			Semantic:       st.Semantic,
		},
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidRequest,
		domain.ErrSemanticUnavailable,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationMessage keeps the detail of ErrInvalidRequest: it only ever describes client input.
func validationMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	return safeDomainMessage(err)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := validationMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}

func searchResultToAPI(rank int, r *result.Result) api.SearchResultItem {
	c := r.Circuit()
	sc := r.Scores()
	item := api.SearchResultItem{
		Rank:           rank,
		Id:             c.ID(),
		Name:           c.Title(),
		ComponentCount: c.ComponentCount(),
		Score:          r.Score(),
		Scores: api.ScoreBreakdown{
			Final:     sc.Final,
			Semantic:  sc.Semantic,
			Keyword:   sc.Keyword,
			Component: sc.Component,
		},
	}
	if d := c.Description(); d != "" {
		item.Description = &d
	}
	if t := c.Tags(); len(t) > 0 {
		item.Tags = &t
	}
	return item
}

func circuitToAPI(c *circuit.Circuit) api.Circuit {
	out := api.Circuit{
		Id:               c.ID(),
		Name:             c.Title(),
		EmbeddingText:    c.EmbeddingText(),
		ComponentCount:   c.ComponentCount(),
		LexicallyIndexed: c.IsLexicallyValid(),
	}
	if d := c.Description(); d != "" {
		out.Description = &d
	}
	if t := c.Tags(); len(t) > 0 {
		out.Tags = &t
	}
	if sn := c.ScopeNames(); len(sn) > 0 {
		out.ScopeNames = &sn
	}
	if b := c.Breakdown(); len(b) > 0 {
		m := make(map[string]int, len(b))
		for k, v := range b {
			m[string(k)] = v
		}
		out.ComponentBreakdown = &m
	}
	return out
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
