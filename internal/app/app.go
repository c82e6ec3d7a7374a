package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cricket-fantasy/external/cricketdata"
	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/syncstate"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/notify"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

// Container wires repositories, the provider client and the usecases for one
// process. Close releases the database handle when there is one.
type Container struct {
	Config      config.Config
	Logger      *logging.Logger
	Sync        *usecase.SyncService
	Scoring     *usecase.ScoringService
	Leaderboard *usecase.LeaderboardService
	Roster      *usecase.RosterService
	Seed        *usecase.SeedService
	Matches     *usecase.MatchService

	db *sqlx.DB
}

type repositories struct {
	players     player.Repository
	teams       team.Repository
	roster      roster.Repository
	matches     match.Repository
	scores      scoring.Repository
	leaderboard leaderboard.Repository
	syncState   syncstate.Repository
}

type Options struct {
	// Provider replaces the HTTP client, mainly for tests.
	Provider usecase.MatchProvider
	// Notifier replaces the telegram notifier; nil keeps the configured one.
	Notifier usecase.SyncNotifier
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	var repos repositories
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		repos = memoryRepositories(memory.NewStore())
		logger.Info("using in-memory store")
	case config.StoreDriverPostgres, "":
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		c.db = db
		repos = postgresRepositories(db)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	provider := opts.Provider
	if provider == nil {
		provider = newProvider(cfg, logger)
	}

	var notifier usecase.SyncNotifier
	switch {
	case opts.Notifier != nil:
		notifier = opts.Notifier
	case cfg.TelegramEnabled:
		notifier = notify.NewTelegramNotifier(notify.TelegramConfig{
			Token:       cfg.TelegramBotToken,
			ChatID:      cfg.TelegramChatID,
			APIEndpoint: cfg.TelegramAPIEndpoint,
		}, logger.With("component", "telegram"))
	}

	c.Scoring = usecase.NewScoringService(repos.players, cfg.SyncWorkers, logger)
	c.Leaderboard = usecase.NewLeaderboardService(repos.teams, repos.roster, repos.players, repos.scores, repos.leaderboard, logger)
	c.Roster = usecase.NewRosterService(repos.teams, repos.players, repos.roster, logger)
	c.Seed = usecase.NewSeedService(repos.teams, repos.players, repos.roster, logger)
	c.Matches = usecase.NewMatchService(repos.matches, repos.scores, logger)
	c.Sync = usecase.NewSyncService(
		provider,
		c.Scoring,
		c.Leaderboard,
		repos.scores,
		repos.syncState,
		notifier,
		usecase.SyncConfig{SeriesID: cfg.SyncSeriesID},
		logger.With("component", "sync"),
	)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		players:     memory.NewPlayerRepository(store),
		teams:       memory.NewTeamRepository(store),
		roster:      memory.NewRosterRepository(store),
		matches:     memory.NewMatchRepository(store),
		scores:      memory.NewScoringRepository(store),
		leaderboard: memory.NewLeaderboardRepository(store),
		syncState:   memory.NewSyncStateRepository(store),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		players:     postgres.NewPlayerRepository(db),
		teams:       postgres.NewTeamRepository(db),
		roster:      postgres.NewRosterRepository(db),
		matches:     postgres.NewMatchRepository(db),
		scores:      postgres.NewScoringRepository(db),
		leaderboard: postgres.NewLeaderboardRepository(db),
		syncState:   postgres.NewSyncStateRepository(db),
	}
}

func newProvider(cfg config.Config, logger *logging.Logger) *cricketdata.Client {
	return cricketdata.NewClient(cricketdata.ClientConfig{
		BaseURL:        cfg.CricketDataBaseURL,
		APIKey:         cfg.CricketDataAPIKey,
		Timeout:        cfg.CricketDataTimeout,
		MaxAttempts:    cfg.CricketDataMaxAttempts,
		BackoffInitial: cfg.CricketDataBackoffInitial,
		BackoffMax:     cfg.CricketDataBackoffMax,
		RatePerSecond:  cfg.CricketDataRatePerSecond,
		Logger:         logger.With("component", "cricketdata"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Name:             "cricketdata",
			Enabled:          cfg.CricketDataCircuitEnabled,
			FailureThreshold: cfg.CricketDataCircuitFailureCount,
			OpenTimeout:      cfg.CricketDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricketDataCircuitHalfOpenMaxReq,
		},
	})
}
