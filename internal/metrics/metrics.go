// Package metrics exposes application counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gpslogger/internal/logging"
)

const namespace = "gpslogger"

// Metrics holds all Prometheus metrics for the app.
type Metrics struct {
	Registry *prometheus.Registry

	ExportsTotal       *prometheus.CounterVec
	PostsTotal         *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	LogRefreshesTotal  prometheus.Counter
	FixesTotal         prometheus.Counter
	Tracking           prometheus.Gauge
}

// New registers the metrics on a fresh registry, so several instances can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "files_total",
			Help:      "Total number of export attempts by result.",
		}, []string{"result"}), // result: written, failed, empty
		PostsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "social",
			Name:      "posts_total",
			Help:      "Total number of location posts by result.",
		}, []string{"result"}), // result: skipped, succeeded, failed
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "scheduled_total",
			Help:      "Total number of scheduled notifications by title.",
		}, []string{"title"}),
		LogRefreshesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logview",
			Name:      "refreshes_total",
			Help:      "Total number of log view refreshes.",
		}),
		FixesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "fixes_total",
			Help:      "Total number of GPS fixes recorded.",
		}),
		Tracking: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "active",
			Help:      "1 while location tracking is on, 0 otherwise.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *logging.Logger) error {
	if logger == nil {
		panic("metrics.Serve: logger must not be nil")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("serving metrics", logging.Field("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
