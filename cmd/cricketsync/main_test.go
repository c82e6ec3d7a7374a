package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/cricket-fantasy/internal/app"
	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

const cliSeedYAML = `
players:
  - name: Virat Kohli
    role: BAT
  - name: Jasprit Bumrah
    role: BOWL
teams:
  - name: Royal Strikers
    owner: arun
    manualAdjustment: 10
    players:
      - name: Virat Kohli
        captain: true
      - name: Jasprit Bumrah
  - name: Desert Kings
    owner: bela
    players:
      - name: Jasprit Bumrah
        viceCaptain: true
      - name: Virat Kohli
        bench: true
`

const cliScorecardJSON = `{"data":{"scorecard":[{"batting":[{"name":"Virat Kohli","runs":30,"balls":20,"4s":3,"6s":1,"dismissal":"c Smith b Starc"}],"bowling":[{"name":"Jasprit Bumrah","wickets":2,"maidens":0,"overs":4.0,"runs":24}]}]}}`

type cliProvider struct{}

func (cliProvider) FetchMatches(context.Context) ([]usecase.ExternalMatch, error) {
	return []usecase.ExternalMatch{
		{ID: "m1", SeriesID: "ipl-2026", Name: "MI v CSK", Status: "completed", StartTime: "2026-02-14T14:00:00Z"},
	}, nil
}

func (cliProvider) FetchScorecard(_ context.Context, matchID string) (scorecard.Scorecard, error) {
	return scorecard.Scorecard{MatchID: matchID, Innings: []scorecard.Innings{{
		Batting: []scorecard.Entry{{"name": "Virat Kohli", "runs": 30, "balls": 20, "4s": 3, "6s": 1, "dismissal": "c Smith b Starc"}},
		Bowling: []scorecard.Entry{{"name": "Jasprit Bumrah", "wickets": 2, "maidens": 0, "overs": 4.0, "runs": 24}},
	}}}, nil
}

type cliHarness struct {
	t         *testing.T
	container *app.Container
	out       bytes.Buffer
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	cfg := config.Config{StoreDriver: config.StoreDriverMemory, SyncWorkers: 2, SyncInterval: time.Minute}
	container, err := app.New(context.Background(), cfg, logging.NewNop(), app.Options{Provider: cliProvider{}})
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return &cliHarness{t: t, container: container}
}

func (h *cliHarness) run(args ...string) (string, error) {
	h.t.Helper()

	h.out.Reset()
	c := &cli{
		out:    &h.out,
		errOut: io.Discard,
		loadConfig: func() (config.Config, error) {
			return h.container.Config, nil
		},
		build: func(context.Context, config.Config, *logging.Logger) (*app.Container, error) {
			return h.container, nil
		},
	}
	root := newRootCmd(c)
	root.SetArgs(append([]string{"--env-file="}, args...))
	err := root.ExecuteContext(context.Background())
	return h.out.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCLI_SeedSyncLeaderboard(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)

	out, err := h.run("seed", "--file", writeTempFile(t, "league.yaml", cliSeedYAML))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "seeded 2 players, 2 teams, 4 roster entries") {
		t.Fatalf("unexpected seed output: %q", out)
	}

	out, err = h.run("sync")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(out, "processed 1 match(es), boundary 2026-02-14T14:00:00Z") {
		t.Fatalf("unexpected sync output: %q", out)
	}

	out, err = h.run("leaderboard", "-o", "json")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	var rows []usecase.LeaderboardRow
	if err := sonic.UnmarshalString(out, &rows); err != nil {
		t.Fatalf("decode leaderboard json: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(rows))
	}
	if rows[0].TeamName != "Royal Strikers" || rows[0].TotalPoints != 156 || rows[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[1].TeamName != "Desert Kings" || rows[1].TotalPoints != 84 {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}

	out, err = h.run("leaderboard")
	if err != nil {
		t.Fatalf("leaderboard table: %v", err)
	}
	if !strings.HasPrefix(out, "RANK") || !strings.Contains(out, "Royal Strikers") {
		t.Fatalf("unexpected leaderboard table: %q", out)
	}

	out, err = h.run("matches", "--match", "m1")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if !strings.Contains(out, "jasprit bumrah  56") {
		t.Fatalf("unexpected match detail: %q", out)
	}
}

func TestCLI_RosterCommands(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	if _, err := h.run("seed", "--file", writeTempFile(t, "league.yaml", cliSeedYAML)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := h.run("roster", "set-role", "--team", "1", "--player", "Virat Kohli", "--role", "bench")
	if err != nil {
		t.Fatalf("set-role: %v", err)
	}
	if !strings.Contains(out, "team 1 player virat kohli: bench") {
		t.Fatalf("unexpected set-role output: %q", out)
	}

	out, err = h.run("roster", "adjust", "--team", "2", "--points", "-7.5")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !strings.Contains(out, "team 2 manual adjustment set to -7.5") {
		t.Fatalf("unexpected adjust output: %q", out)
	}

	if _, err := h.run("roster", "set-role", "--team", "1", "--player", "Virat Kohli", "--role", "keeper"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if _, err := h.run("roster", "remove", "--team", "99", "--player", "Virat Kohli"); err == nil {
		t.Fatalf("expected error for unknown team")
	}
}

func TestCLI_ScoreOffline(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	out, err := h.run("score", "--file", writeTempFile(t, "card.json", cliScorecardJSON), "-o", "json")
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	var scored []usecase.ScoredPlayer
	if err := sonic.UnmarshalString(out, &scored); err != nil {
		t.Fatalf("decode score json: %v", err)
	}
	totals := make(map[string]int, len(scored))
	for _, item := range scored {
		if item.Breakdown.Total != item.Breakdown.Sum() {
			t.Fatalf("breakdown total mismatch for %s", item.PlayerID)
		}
		totals[item.PlayerID] = item.Breakdown.Total
	}
	if totals["virat kohli"] != 45 || totals["jasprit bumrah"] != 56 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}

func TestCLI_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	if _, err := h.run("leaderboard", "-o", "yaml"); err == nil {
		t.Fatalf("expected error for unknown output format")
	}
	if _, err := h.run("sync", "--from", "next tuesday"); err == nil {
		t.Fatalf("expected error for unparseable --from")
	}
	if _, err := h.run("score"); err == nil {
		t.Fatalf("expected error without --file")
	}
}

func TestWatch_RunsUntilCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	err := watch(ctx, logging.NewNop(), time.Millisecond, func(context.Context) error {
		runs++
		if runs == 3 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if runs != 3 {
		t.Fatalf("unexpected run count: got=%d want=3", runs)
	}

	if err := watch(context.Background(), logging.NewNop(), 0, nil); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
