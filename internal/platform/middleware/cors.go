package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"profilr/pkg/platform/httputil"
	strs "profilr/pkg/platform/strings"
)

// CORSRejectionMessage is the body returned to disallowed origins.
const CORSRejectionMessage = "Not allowed by CORS"

// OriginPolicy is the static origin allow-list. Requests without an Origin
// header (curl, server-to-server, same-origin navigation) are always allowed.
type OriginPolicy struct {
	allowed []string
}

// NewOriginPolicy builds a policy from the configured origins. Trailing slashes
// are ignored because browsers never send them in the Origin header.
func NewOriginPolicy(origins []string) *OriginPolicy {
	allowed := slices.DeleteFunc(strs.Dedupe(origins, strs.TrimOrigin), func(o string) bool {
		return o == "*"
	})
	return &OriginPolicy{allowed: allowed}
}

// Allows reports whether a request carrying origin may proceed.
func (p *OriginPolicy) Allows(origin string) bool {
	if origin == "" {
		return true
	}
	return slices.Contains(p.allowed, origin)
}

// Origins returns a copy of the allow-list.
func (p *OriginPolicy) Origins() []string {
	return slices.Clone(p.allowed)
}

// CORS rejects disallowed origins before routing, then lets go-chi/cors emit
// the response headers and answer preflights for the allowed ones. Credentials
// are allowed, so the specific origin is always echoed, never "*".
func CORS(policy *OriginPolicy, logger *slog.Logger) func(http.Handler) http.Handler {
	headers := cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return policy.Allows(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return func(next http.Handler) http.Handler {
		withHeaders := headers(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !policy.Allows(origin) {
				ctx := r.Context()
				logger.WarnContext(ctx, "origin rejected",
					"origin", origin,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteText(w, http.StatusForbidden, CORSRejectionMessage)
				return
			}
			withHeaders.ServeHTTP(w, r)
		})
	}
}
