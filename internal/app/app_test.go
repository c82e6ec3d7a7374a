package app

import (
	"context"
	"testing"

	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

type emptyProvider struct{}

func (emptyProvider) FetchMatches(context.Context) ([]usecase.ExternalMatch, error) {
	return nil, nil
}

func (emptyProvider) FetchScorecard(context.Context, string) (scorecard.Scorecard, error) {
	return scorecard.Scorecard{}, nil
}

func TestNew_MemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.Config{StoreDriver: config.StoreDriverMemory, SyncWorkers: 2}
	c, err := New(ctx, cfg, logging.NewNop(), Options{Provider: emptyProvider{}})
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer func() { _ = c.Close() }()

	result, err := c.Sync.Run(ctx, usecase.SyncInput{})
	if err != nil {
		t.Fatalf("run sync: %v", err)
	}
	if result.Processed != 0 || result.Boundary != nil {
		t.Fatalf("unexpected empty sync result: %+v", result)
	}

	rows, err := c.Leaderboard.List(ctx)
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("unexpected leaderboard rows: got=%d want=0", len(rows))
	}
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), config.Config{StoreDriver: "sqlite"}, nil, Options{}); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
}

func TestNew_PostgresRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), config.Config{StoreDriver: config.StoreDriverPostgres}, nil, Options{}); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
}
