package observability

import (
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-fantasy/internal/config"
)

// uptraceOptions returns the exporter options, or the reason tracing stays off.
func uptraceOptions(cfg config.Config) ([]uptrace.Option, string) {
	if !cfg.UptraceEnabled {
		return nil, "UPTRACE_ENABLED=false"
	}
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if dsn == "" {
		return nil, "UPTRACE_DSN empty"
	}
	return []uptrace.Option{
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("cricket.store_driver", cfg.StoreDriver),
			attribute.String("cricket.series_id", cfg.SyncSeriesID),
		),
	}, ""
}
