package testutil

import (
	"net/http"
	"time"

	"profilr/pkg/requestcontext"
)

// WithRequestTime pins the request time the way the RequestTime middleware would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
