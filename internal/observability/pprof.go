package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

const pprofShutdownTimeout = 3 * time.Second

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// startPprof binds addr before returning, so a taken port fails the command
// instead of a background goroutine. The returned address is the bound one.
func startPprof(addr string, logger *logging.Logger) (string, func(context.Context) error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen pprof %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           pprofMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	bound := listener.Addr().String()
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "addr", bound, "error", err)
		}
	}()
	logger.Info("pprof listening", "addr", bound)

	stop := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, pprofShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
	return bound, stop, nil
}
