package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CaseInsensitiveRoutes matches routes regardless of path case, so
// /API/Reviews routes like /api/reviews. Only the routing path changes; the
// request URL is left as sent.
func CaseInsensitiveRoutes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			path := rctx.RoutePath
			if path == "" {
				path = r.URL.Path
			}
			rctx.RoutePath = strings.ToLower(path)
		}
		next.ServeHTTP(w, r)
	})
}
