// Package metrics exposes Prometheus collectors for a reading session.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/metcalfc/scrl/internal/storyteller"
)

// Metrics holds the collectors on a private registry. It implements
// storyteller.Observer.
type Metrics struct {
	registry *prometheus.Registry

	eventsTotal        *prometheus.CounterVec
	subscriberFailures prometheus.Counter
	progress           prometheus.Gauge
	loadsTotal         *prometheus.CounterVec
}

var _ storyteller.Observer = (*Metrics)(nil)

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		eventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrl_events_total",
				Help: "Progress events seen, labeled by channel and outcome.",
			},
			[]string{"channel", "outcome"},
		),
		subscriberFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "scrl_subscriber_failures_total",
				Help: "Subscriber callbacks that panicked and were isolated.",
			},
		),
		progress: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "scrl_progress_ratio",
				Help: "Most recent reading progress in [0, 1].",
			},
		),
		loadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrl_document_loads_total",
				Help: "Documents appended by infinite scrolling, labeled by status.",
			},
			[]string{"status"},
		),
	}
}

// EventAccepted counts an event that produced a progress update.
func (m *Metrics) EventAccepted(ch storyteller.Channel) {
	m.eventsTotal.WithLabelValues(string(ch), "accepted").Inc()
}

// EventDropped counts an event rejected by throttling.
func (m *Metrics) EventDropped(ch storyteller.Channel) {
	m.eventsTotal.WithLabelValues(string(ch), "dropped").Inc()
}

// SubscriberFailed counts an isolated subscriber panic.
func (m *Metrics) SubscriberFailed() {
	m.subscriberFailures.Inc()
}

// ObserveProgress records the latest progress value.
func (m *Metrics) ObserveProgress(p storyteller.Progress) {
	m.progress.Set(p.Value())
}

// ObserveLoad counts an infinite-scroll load.
func (m *Metrics) ObserveLoad(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.loadsTotal.WithLabelValues(status).Inc()
}

// Handler returns an http.Handler for exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
