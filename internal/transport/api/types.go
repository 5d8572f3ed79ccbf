// Package api holds the HTTP wire types and the chi routing wrapper for the
// circuitdex API. Handlers live in internal/transport/chi.
package api

// ErrorResponseCode identifies an error class for clients.
type ErrorResponseCode string

// ErrorResponseCode values.
const (
	ErrorResponseCodeBadRequest             ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized           ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed       ErrorResponseCode = "validation_failed"
	ErrorResponseCodeCircuitNotFound        ErrorResponseCode = "circuit_not_found"
	ErrorResponseCodeVectorDimMismatch      ErrorResponseCode = "vector_dim_mismatch"
	ErrorResponseCodeSemanticUnavailable    ErrorResponseCode = "semantic_unavailable"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
	ErrorResponseCodeTimeout                ErrorResponseCode = "timeout"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchMode selects the ranking.
type SearchMode string

// SearchMode values. "baseline" is accepted as an alias of lexical.
const (
	SearchModeHybrid   SearchMode = "hybrid"
	SearchModeLexical  SearchMode = "lexical"
	SearchModeBaseline SearchMode = "baseline"
)

// CircuitId is the stable circuit identifier.
type CircuitId = int64 //nolint:revive // matches the wire name

// SearchCircuitsParams are the query parameters of GET /search.
type SearchCircuitsParams struct {
	// Q is the free-text query. Missing and empty are equivalent.
	Q *string `form:"q,omitempty" json:"q,omitempty"`
	// TopK is the number of results, 1..100. Defaults to 20.
	TopK *int `form:"top_k,omitempty" json:"top_k,omitempty"`
	// Mode defaults to hybrid.
	Mode *SearchMode `form:"mode,omitempty" json:"mode,omitempty"`
}

// ScoreBreakdown exposes the per-channel scores behind a ranking.
type ScoreBreakdown struct {
	Final     float64 `json:"final"`
	Semantic  float64 `json:"semantic"`
	Keyword   float64 `json:"keyword"`
	Component float64 `json:"component"`
}

// SearchResultItem is one ranked circuit.
type SearchResultItem struct {
	Rank           int            `json:"rank"`
	Id             CircuitId      `json:"id"` //nolint:revive // matches the wire name
	Name           string         `json:"name"`
	Description    *string        `json:"description,omitempty"`
	Tags           *[]string      `json:"tags,omitempty"`
	ComponentCount int            `json:"component_count"`
	Score          float64        `json:"score"`
	Scores         ScoreBreakdown `json:"scores"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query string             `json:"query"`
	Mode  SearchMode         `json:"mode"`
	TopK  int                `json:"top_k"`
	Total int                `json:"total"`
	Items []SearchResultItem `json:"items"`
}

// Circuit is the full circuit document returned by GET /circuits/{id}.
type Circuit struct {
	Id                 CircuitId       `json:"id"` //nolint:revive // matches the wire name
	Name               string          `json:"name"`
	Description        *string         `json:"description,omitempty"`
	Tags               *[]string       `json:"tags,omitempty"`
	ComponentBreakdown *map[string]int `json:"component_breakdown,omitempty"`
	EmbeddingText      string          `json:"embedding_text"`
	ScopeNames         *[]string       `json:"scope_names,omitempty"`
	ComponentCount     int             `json:"component_count"`
	LexicallyIndexed   bool            `json:"lexically_indexed"`
}

// HealthResponseStatus is the aggregated health status.
type HealthResponseStatus string

// HealthResponseChecks is a single component check result.
type HealthResponseChecks string

// IndexStats describes the loaded index.
type IndexStats struct {
	Circuits       int  `json:"circuits"`
	LexicallyValid int  `json:"lexically_valid"`
	Dimension      int  `json:"dimension"`
	Semantic       bool `json:"semantic"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
	Index  *IndexStats                     `json:"index,omitempty"`
}
