// Command cricketsync syncs completed cricket matches from the data provider,
// scores them under the Dream11 T20 rules and maintains the league
// leaderboard.
//
// Usage:
//
//	cricketsync seed --file league.yaml
//	cricketsync sync --series ipl-2026
//	cricketsync sync --from 2026-03-01 --dry-run
//	cricketsync watch --interval 15m
//	cricketsync score --file scorecard.json
//	cricketsync leaderboard
//	cricketsync roster set-role --team 1 --player "Virat Kohli" --role captain
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-fantasy/internal/app"
	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/observability"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type buildFunc func(ctx context.Context, cfg config.Config, logger *logging.Logger) (*app.Container, error)

// cli carries what the commands share; tests swap the writers, the config
// loader and the container builder.
type cli struct {
	out        io.Writer
	errOut     io.Writer
	output     string
	envFile    string
	loadConfig func() (config.Config, error)
	build      buildFunc
	// observe starts tracing and profiling; nil skips it.
	observe func(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error)
}

func main() {
	c := &cli{
		out:        os.Stdout,
		errOut:     os.Stderr,
		loadConfig: config.Load,
		build: func(ctx context.Context, cfg config.Config, logger *logging.Logger) (*app.Container, error) {
			return app.New(ctx, cfg, logger, app.Options{})
		},
		observe: observability.Start,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "cricketsync",
		Short:         "Cricket fantasy scoring and leaderboard sync",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.output != outputTable && c.output != outputJSON {
				return fmt.Errorf("invalid --output %q: valid values are %s, %s", c.output, outputTable, outputJSON)
			}
			if c.envFile == "" {
				return nil
			}
			if err := godotenv.Load(c.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load env file %s: %w", c.envFile, err)
			}
			return nil
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().StringVarP(&c.output, "output", "o", outputTable, "Output format (table, json)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Env file to load before reading configuration")

	root.AddCommand(syncCmd(c))
	root.AddCommand(watchCmd(c))
	root.AddCommand(scoreCmd(c))
	root.AddCommand(seedCmd(c))
	root.AddCommand(leaderboardCmd(c))
	root.AddCommand(ranksCmd(c))
	root.AddCommand(teamCmd(c))
	root.AddCommand(matchesCmd(c))
	root.AddCommand(rosterCmd(c))
	return root
}

func (c *cli) newLogger(cfg config.Config) *logging.Logger {
	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: c.errOut,
		Fields: []any{"service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv},
	})
	logging.SetDefault(logger)
	return logger
}

// withContainer loads configuration, starts observability and builds the
// container for the duration of fn.
func (c *cli) withContainer(cmd *cobra.Command, fn func(ctx context.Context, container *app.Container) error) (err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := c.newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if c.observe != nil {
		shutdown, obsErr := c.observe(cfg, logger)
		if obsErr != nil {
			return fmt.Errorf("start observability: %w", obsErr)
		}
		defer func() {
			if shutdownErr := shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
				logger.Warn("observability shutdown failed", "error", shutdownErr)
			}
		}()
	}

	container, err := c.build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil {
			logger.Warn("close app failed", "error", closeErr)
		}
	}()

	return fn(ctx, container)
}
