package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"profilr/internal/platform/logger"
	"profilr/internal/platform/metrics"
	"profilr/internal/platform/middleware"
	"profilr/internal/review/connector"
	"profilr/internal/review/handler"
	"profilr/internal/review/service"
	"profilr/internal/review/store"
	httptransport "profilr/internal/transport/http"
	"profilr/pkg/testutil"
)

const allowedOrigin = "http://localhost:5173"

type RouterSuite struct {
	suite.Suite
	opens  atomic.Int32
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.opens.Store(0)
	conn := connector.New(func(context.Context) (store.Store, error) {
		s.opens.Add(1)
		return store.NewInMemory(), nil
	})
	log := logger.Discard()
	s.router = httptransport.NewRouter(
		log,
		metrics.New(),
		middleware.NewOriginPolicy([]string{allowedOrigin, "https://the-profilr.onrender.com"}),
		handler.NotFound,
		handler.New(service.New(conn), log),
	)
}

func (s *RouterSuite) TestHealthWithoutOrigin() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/"))

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal(handler.HealthMessage, rr.Body.String())
	s.NotEmpty(rr.Header().Get(middleware.RequestIDHeader))
}

func (s *RouterSuite) TestAllowedOriginGetsCORSHeaders() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithOrigin(s.T(), http.MethodGet, "/api/reviews", allowedOrigin))

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal(allowedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", rr.Header().Get("Access-Control-Allow-Credentials"))
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *RouterSuite) TestDisallowedOriginIsRejectedOnEveryRoute() {
	for _, path := range []string{"/", "/api/reviews", "/unknown"} {
		s.Run(path, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithOrigin(s.T(), http.MethodGet, path, "https://evil.example"))

			testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
			s.Equal(middleware.CORSRejectionMessage, rr.Body.String())
			s.Empty(rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
	s.Equal(int32(0), s.opens.Load(), "rejected requests must not touch the store")
}

func (s *RouterSuite) TestUnmatchedRoutesReturnRouteNotFound() {
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/missing"},
		{http.MethodPost, "/"},
		{http.MethodDelete, "/api/reviews"},
		{http.MethodPatch, "/api/reviews"},
		{http.MethodGet, "/metrics"},
	}
	for _, tc := range cases {
		s.Run(tc.method+" "+tc.path, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), tc.method, tc.path))
			testutil.AssertStatusAndMessage(s.T(), rr, http.StatusNotFound, handler.MessageRouteNotFound)
		})
	}
}

func (s *RouterSuite) TestStoreOpensOnceAcrossConcurrentRequests() {
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		create := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/reviews",
			handler.CreateReviewRequest{Name: "Ada", Role: "Engineer", Comment: "Great"})
		list := testutil.NewRequest(s.T(), http.MethodGet, "/api/reviews")
		wg.Add(2)
		go func() {
			defer wg.Done()
			testutil.DoRequest(s.router, create)
		}()
		go func() {
			defer wg.Done()
			testutil.DoRequest(s.router, list)
		}()
	}
	wg.Wait()

	s.Equal(int32(1), s.opens.Load())

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/reviews"))
	list := testutil.UnmarshalResponse[[]map[string]any](s.T(), rr)
	s.Len(*list, n)
}

func (s *RouterSuite) TestPreflightFromAllowedOrigin() {
	req := testutil.NewRequestWithOrigin(s.T(), http.MethodOptions, "/api/reviews", allowedOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := testutil.DoRequest(s.router, req)

	s.Less(rr.Code, 300)
	s.Equal(allowedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	s.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func (s *RouterSuite) TestLenientRouting() {
	cases := []struct {
		name   string
		method string
		path   string
	}{
		{"head health", http.MethodHead, "/"},
		{"head list", http.MethodHead, "/api/reviews"},
		{"trailing slash", http.MethodGet, "/api/reviews/"},
		{"mixed case", http.MethodGet, "/API/Reviews"},
		{"mixed case with trailing slash", http.MethodGet, "/Api/Reviews/"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), tc.method, tc.path))
			testutil.AssertStatusOK(s.T(), rr)
		})
	}
}

func (s *RouterSuite) TestCreateWithTrailingSlash() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/reviews/",
		handler.CreateReviewRequest{Name: "Ada", Role: "Engineer", Comment: "Great"}))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/reviews"))
	list := testutil.UnmarshalResponse[[]map[string]any](s.T(), rr)
	s.Len(*list, 1)
}

type panickingRoutes struct{}

func (panickingRoutes) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func (s *RouterSuite) TestPanicLogCarriesRequestID() {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	router := httptransport.NewRouter(
		log,
		metrics.New(),
		middleware.NewOriginPolicy([]string{allowedOrigin}),
		handler.NotFound,
		panickingRoutes{},
	)

	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/boom"))

	testutil.AssertStatusAndMessage(s.T(), rr, http.StatusInternalServerError, "Server error")
	requestID := rr.Header().Get(middleware.RequestIDHeader)
	s.Require().NotEmpty(requestID)

	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		s.Require().NoError(json.Unmarshal(line, &entry))
		if entry["msg"] == "panic recovered" {
			found = true
			s.Equal(requestID, entry["request_id"])
		}
	}
	s.True(found, "panic was not logged")
}
