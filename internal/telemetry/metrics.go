package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/logging"
)

const (
	kindImpression = "impression"
	kindClick      = "click"
	kindCompletion = "completion"
	kindAnalytics  = "analytics"

	resultSent   = "sent"
	resultFailed = "failed"
)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wavecast",
	Name:      "telemetry_events_total",
	Help:      "Telemetry events by kind and delivery result.",
}, []string{"kind", "result"})

// Handler exposes the process metrics, including ad gate decisions and
// telemetry delivery results.
func Handler() http.Handler {
	return promhttp.Handler()
}

// MetricsServer serves Handler at /metrics.
type MetricsServer struct {
	srv    *http.Server
	ln     net.Listener
	logger zerolog.Logger
}

// StartMetricsServer listens on addr and serves metrics in the background.
// A bind failure is returned before anything is served.
func StartMetricsServer(addr string, logger zerolog.Logger) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	m := &MetricsServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logging.Component(logger, "metrics"),
	}

	go func() {
		m.logger.Info().Str("addr", ln.Addr().String()).Msg("metrics listening")
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	return m, nil
}

// Addr returns the bound address, useful when addr used port 0.
func (m *MetricsServer) Addr() string {
	return m.ln.Addr().String()
}

// Close shuts the server down, waiting up to a few seconds for scrapes.
func (m *MetricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}
