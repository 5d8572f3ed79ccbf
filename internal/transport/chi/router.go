package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/metrics"
	"github.com/kailas-cloud/circuitdex/internal/transport/api"
)

// NewRouter mounts s behind the standard middleware stack:
// recovery, request ID, canonical request log, bearer auth, metrics.
func NewRouter(s *Server, apiKeys []string, l *zap.Logger) http.Handler {
	if l == nil {
		l = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(JSONRecoverer(l))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(l))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	return api.HandlerWithOptions(s, api.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, err.Error())
		},
	})
}
