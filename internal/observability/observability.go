package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

// Start brings up Uptrace tracing, Pyroscope profiling and the pprof endpoint,
// each only when configured. The returned stop function tears down whatever
// started, in reverse order, and joins their errors.
func Start(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var stops []func(context.Context) error
	stopAll := func(ctx context.Context) error {
		var errs []error
		for i := len(stops) - 1; i >= 0; i-- {
			if err := stops[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	if opts, reason := uptraceOptions(cfg); reason != "" {
		logger.Debug("uptrace disabled", "reason", reason)
	} else {
		uptrace.ConfigureOpentelemetry(opts...)
		stops = append(stops, func(ctx context.Context) error {
			if err := uptrace.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown uptrace: %w", err)
			}
			return nil
		})
		logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)
	}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscopeConfig(cfg))
		if err != nil {
			_ = stopAll(context.Background())
			return nil, fmt.Errorf("start pyroscope: %w", err)
		}
		stops = append(stops, func(context.Context) error {
			if err := profiler.Stop(); err != nil {
				return fmt.Errorf("stop pyroscope: %w", err)
			}
			return nil
		})
		logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	}

	if cfg.PprofEnabled {
		_, stopPprof, err := startPprof(cfg.PprofAddr, logger)
		if err != nil {
			_ = stopAll(context.Background())
			return nil, err
		}
		stops = append(stops, func(ctx context.Context) error {
			if err := stopPprof(ctx); err != nil {
				return fmt.Errorf("stop pprof: %w", err)
			}
			return nil
		})
	}

	return stopAll, nil
}
