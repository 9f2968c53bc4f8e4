package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lexqa/internal/client/metrics"
)

const metricsShutdownTimeout = 2 * time.Second

// startMetricsServer listens on addr and serves /metrics until ctx is done.
// A listen failure is logged and the REPL runs without the endpoint.
func (a *App) startMetricsServer(ctx context.Context, addr string) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		a.log.Warn(ctx, "metrics endpoint unavailable", "addr", addr, "err", err)
		return
	}
	go a.serveMetrics(ctx, ln)
}

func (a *App) serveMetrics(ctx context.Context, ln net.Listener) {
	srv := &http.Server{
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	a.log.Info(ctx, "serving metrics", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error(ctx, "metrics endpoint stopped", "err", err)
	}
}
