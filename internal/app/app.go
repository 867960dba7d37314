// Package app assembles and runs the two processes: the ingestion HTTP
// service and the inbox account worker. Both stop on SIGINT, SIGTERM or
// SIGQUIT.
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// watchBroker returns when ctx is done (nil) or closed fires, which happens
// when the broker drops the connection or closes the channel.
func watchBroker(ctx context.Context, closed <-chan error, l logging.Logger) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-closed:
		if err != nil {
			l.Error(ctx, "broker session closed", "error", err)
		}
		return err
	}
}

func metricsRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}
