package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/metcalfc/scrl/internal/storyteller"
)

func TestObserverCounters(t *testing.T) {
	m := New()

	m.EventAccepted(storyteller.ChannelScroll)
	m.EventAccepted(storyteller.ChannelScroll)
	m.EventDropped(storyteller.ChannelScroll)
	m.EventAccepted(storyteller.ChannelResize)
	m.SubscriberFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("scroll", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("scroll", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("resize", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriberFailures))
}

func TestObserveProgressAndLoads(t *testing.T) {
	m := New()

	m.ObserveProgress(storyteller.NewProgress(500, 1000, 500))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.progress))

	m.ObserveLoad(nil)
	m.ObserveLoad(errors.New("missing"))
	m.ObserveLoad(nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loadsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadsTotal.WithLabelValues("error")))
}

func TestHandlerServesPrivateRegistry(t *testing.T) {
	m := New()
	m.EventDropped(storyteller.ChannelResize)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scrl_events_total{channel="resize",outcome="dropped"} 1`)
	assert.NotContains(t, string(body), "go_goroutines", "default collectors stay off the private registry")
}

func TestServeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().Serve(ctx, "127.0.0.1:0", zap.NewNop()) }()

	cancel()
	assert.NoError(t, <-done)
}
