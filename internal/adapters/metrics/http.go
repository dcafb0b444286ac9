package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 2 * time.Second

// Handler serves the recorder's metrics.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve exposes /metrics on addr until ctx is done.
func (p *PrometheusRecorder) Serve(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "address", addr)
	}
	return p.ServeListener(ctx, lis)
}

// ServeListener exposes /metrics on lis until ctx is done.
func (p *PrometheusRecorder) ServeListener(ctx context.Context, lis net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "metrics server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "failed to shut down metrics server")
		}
		<-errCh
		return nil
	}
}
