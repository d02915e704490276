package connector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"profilr/internal/platform/metrics"
	"profilr/internal/review/store"
	"profilr/pkg/platform/sentinel"
)

// countingOpener hands out in-memory stores and fails the first failFirst
// attempts.
type countingOpener struct {
	calls     atomic.Int32
	failFirst int32
	delay     time.Duration
}

func (o *countingOpener) open(ctx context.Context) (store.Store, error) {
	n := o.calls.Add(1)
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	if n <= o.failFirst {
		return nil, errors.New("connection refused")
	}
	return store.NewInMemory(), nil
}

type ConnectorSuite struct {
	suite.Suite
	opener  *countingOpener
	metrics *metrics.Metrics
	conn    *Connector
}

func TestConnectorSuite(t *testing.T) {
	suite.Run(t, new(ConnectorSuite))
}

func (s *ConnectorSuite) SetupTest() {
	s.opener = &countingOpener{}
	s.metrics = metrics.New()
	s.conn = New(s.opener.open, WithMetrics(s.metrics))
}

func (s *ConnectorSuite) TestLazyUntilFirstUse() {
	s.False(s.conn.Ready())
	s.Equal(int32(0), s.opener.calls.Load())
}

func (s *ConnectorSuite) TestConnectsOnceAcrossCalls() {
	ctx := context.Background()
	first, err := s.conn.EnsureReady(ctx)
	s.Require().NoError(err)

	for i := 0; i < 10; i++ {
		again, err := s.conn.EnsureReady(ctx)
		s.Require().NoError(err)
		s.Same(first, again)
	}

	s.True(s.conn.Ready())
	s.Equal(int32(1), s.opener.calls.Load())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StoreConnects.WithLabelValues("success")))
}

func (s *ConnectorSuite) TestConcurrentFirstCallsShareOneAttempt() {
	s.opener.delay = 20 * time.Millisecond
	const goroutines = 25

	var wg sync.WaitGroup
	stores := make([]store.Store, goroutines)
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i], errs[i] = s.conn.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range stores {
		s.Require().NoError(errs[i])
		s.Same(stores[0], stores[i])
	}
	s.Equal(int32(1), s.opener.calls.Load())
}

func (s *ConnectorSuite) TestFailureIsNotCachedAndRetries() {
	s.opener.failFirst = 1
	ctx := context.Background()

	_, err := s.conn.EnsureReady(ctx)
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.Contains(err.Error(), "connection refused")
	s.False(s.conn.Ready())

	got, err := s.conn.EnsureReady(ctx)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Equal(int32(2), s.opener.calls.Load())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StoreConnects.WithLabelValues("error")))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StoreConnects.WithLabelValues("success")))
}

func (s *ConnectorSuite) TestCanceledCallerDoesNotAbortSharedAttempt() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen context.Context
	conn := New(func(ctx context.Context) (store.Store, error) {
		seen = ctx
		return store.NewInMemory(), nil
	})
	_, err := conn.EnsureReady(ctx)
	s.Require().NoError(err)
	s.NoError(seen.Err())
}

func (s *ConnectorSuite) TestCloseReleasesAndRefusesReuse() {
	ctx := context.Background()
	st, err := s.conn.EnsureReady(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.conn.Close(ctx))
	s.False(s.conn.Ready())

	_, err = st.List(ctx)
	s.ErrorIs(err, sentinel.ErrClosed, "underlying store was closed")

	_, err = s.conn.EnsureReady(ctx)
	s.ErrorIs(err, sentinel.ErrClosed)
	s.Equal(int32(1), s.opener.calls.Load())
}

func (s *ConnectorSuite) TestCloseBeforeConnectIsNoop() {
	s.NoError(s.conn.Close(context.Background()))
	s.Equal(int32(0), s.opener.calls.Load())
}
