package usecase

import (
	"context"
	"errors"
	"testing"
)

func syncedEnv(t *testing.T) *testEnv {
	t.Helper()

	env := newTestEnv(t, true)
	if _, err := env.sync.Run(context.Background(), SyncInput{SeriesID: "ipl-2026"}); err != nil {
		t.Fatalf("run sync: %v", err)
	}
	return env
}

func TestLeaderboardService_List(t *testing.T) {
	t.Parallel()

	env := syncedEnv(t)

	rows, err := env.leaderboard.List(context.Background())
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(rows))
	}
	if rows[0].Rank != 1 || rows[0].TeamName != "Royal Strikers" || rows[0].TotalPoints != 158 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[1].Rank != 2 || rows[1].Owner != "bela" || rows[1].TotalPoints != 81 {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}
}

func TestLeaderboardService_RecomputePicksUpAdjustment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := syncedEnv(t)

	if err := env.teams.SetManualAdjustment(ctx, 2, 100); err != nil {
		t.Fatalf("set adjustment: %v", err)
	}
	entries, err := env.leaderboard.Recompute(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if entries[0].TeamID != 2 || entries[0].TotalPoints != 181 {
		t.Fatalf("unexpected leader after adjustment: %+v", entries[0])
	}

	again, err := env.leaderboard.Recompute(ctx)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	for i := range entries {
		if again[i].TeamID != entries[i].TeamID || again[i].TotalPoints != entries[i].TotalPoints {
			t.Fatalf("recompute is not stable: got=%+v want=%+v", again[i], entries[i])
		}
	}
}

func TestLeaderboardService_RankHistory(t *testing.T) {
	t.Parallel()

	env := syncedEnv(t)

	days, err := env.leaderboard.RankHistory(context.Background())
	if err != nil {
		t.Fatalf("rank history: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("unexpected day count: got=%d want=2", len(days))
	}
	if days[0].Date != "2026-02-14" || days[1].Date != "2026-02-16" {
		t.Fatalf("unexpected dates: %s, %s", days[0].Date, days[1].Date)
	}
	if days[0].Rows[0].TeamID != 1 || days[0].Rows[0].TotalPoints != 156 {
		t.Fatalf("unexpected day one leader: %+v", days[0].Rows[0])
	}
	last := days[1].Rows
	if last[0].TotalPoints != 158 || last[1].TotalPoints != 81 || last[1].TeamName != "Desert Kings" {
		t.Fatalf("unexpected final standings: %+v", last)
	}
}

func TestLeaderboardService_TeamSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := syncedEnv(t)

	summary, err := env.leaderboard.TeamSummary(ctx, 1)
	if err != nil {
		t.Fatalf("team summary: %v", err)
	}
	if summary.Total != 158 || summary.ManualAdjustment != 10 {
		t.Fatalf("unexpected summary totals: %+v", summary)
	}
	if len(summary.Players) != 2 {
		t.Fatalf("unexpected player count: %+v", summary.Players)
	}
	top := summary.Players[0]
	if top.PlayerID != "virat kohli" || top.RawPoints != 47 || top.Multiplier != 2 || top.Points != 94 || top.Matches != 2 {
		t.Fatalf("unexpected captain contribution: %+v", top)
	}

	bench, err := env.leaderboard.TeamSummary(ctx, 2)
	if err != nil {
		t.Fatalf("team summary: %v", err)
	}
	for _, row := range bench.Players {
		if row.IsBench && row.Points != 0 {
			t.Fatalf("bench player scored: %+v", row)
		}
	}
	if bench.Total != 81 {
		t.Fatalf("unexpected bench team total: got=%v want=81", bench.Total)
	}

	if _, err := env.leaderboard.TeamSummary(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardService_TeamMatchTotalsIncludesEmptyTeams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, false)
	if _, err := NewSeedService(env.teams, env.players, env.roster, nil).Apply(ctx, SeedFile{
		Teams: []SeedTeam{{Name: "Empty XI", Owner: "cara"}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, err := env.leaderboard.TeamMatchTotals(ctx, "m1", testMatchStart(), map[string]int{"virat kohli": 45})
	if err != nil {
		t.Fatalf("team match totals: %v", err)
	}
	if len(rows) != 1 || rows[0].Points != 0 || rows[0].MatchID != "m1" {
		t.Fatalf("unexpected totals: %+v", rows)
	}
}
