package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"profilr/internal/platform/metrics"
	"profilr/internal/platform/middleware"
)

// Registrar is implemented by handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the public endpoints. The origin check runs before routing,
// so disallowed origins never reach a handler. Routing ignores a trailing
// slash and path case, HEAD is served by the GET route, and every other
// unmatched method or path is answered by notFound.
func NewRouter(
	logger *slog.Logger,
	m *metrics.Metrics,
	origins *middleware.OriginPolicy,
	notFound http.HandlerFunc,
	handlers ...Registrar,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(origins, logger))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.CaseInsensitiveRoutes)
	r.Use(chimw.GetHead)
	r.Use(middleware.LatencyMiddleware(m))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
