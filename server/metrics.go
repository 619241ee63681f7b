package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-errors/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/logging"
	"www.velocidex.com/golang/seclink/session"
)

const (
	RESULT_OK                 = "ok"
	RESULT_TRANSPORT_ERROR    = "transport_error"
	RESULT_FORMAT_ERROR       = "format_error"
	RESULT_PROTOCOL_VIOLATION = "protocol_violation"
	RESULT_CANCELLED          = "cancelled"
	RESULT_ERROR              = "error"
)

var (
	sessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seclink_sessions_total",
			Help: "Sessions serviced, by how they ended.",
		},
		[]string{"result"},
	)

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seclink_active_sessions",
		Help: "Sessions currently being serviced.",
	})

	nonceReuseTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seclink_nonce_reuse_total",
		Help: "Sessions which reused a recently seen nonce.",
	})
)

// classifyResult maps a session error onto a metric label.
func classifyResult(err error) string {
	switch {
	case err == nil:
		return RESULT_OK
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return RESULT_CANCELLED
	case session.IsProtocolViolation(err):
		return RESULT_PROTOCOL_VIOLATION
	case session.IsFormatError(err):
		return RESULT_FORMAT_ERROR
	case session.IsTransportError(err):
		return RESULT_TRANSPORT_ERROR
	}
	return RESULT_ERROR
}

// StartMonitoring serves /metrics until ctx is done. It does nothing
// when no monitoring port is configured.
func StartMonitoring(ctx context.Context, config_obj *config.Config) error {
	if config_obj.Server.MonitoringBindPort == 0 {
		return nil
	}

	logger := logging.GetLogger(config_obj, &logging.ServerComponent)
	address := net.JoinHostPort(config_obj.Server.MonitoringBindAddress,
		fmt.Sprintf("%d", config_obj.Server.MonitoringBindPort))

	mux := http.NewServeMux()
	mux.Handle("/metrics", logging.GetLoggingHandler(
		config_obj, &logging.ServerComponent)(promhttp.Handler()))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		time_ctx, cancel := context.WithTimeout(
			context.Background(), 10*time.Second)
		defer cancel()

		err := server.Shutdown(time_ctx)
		if err != nil {
			logger.Error("Prometheus monitoring server: %v", err)
		}
	}()

	logger.Info("Prometheus monitoring server listening on %v", address)
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, 0)
	}
	return nil
}
