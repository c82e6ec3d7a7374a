package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/memory"
)

const testSeedYAML = `
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

// Kohli 45 and Bumrah 56 in m1; Kohli 2 and Bumrah -2 in m2.
func testMatches() []ExternalMatch {
	return []ExternalMatch{
		{ID: "m2", SeriesID: "ipl-2026", Name: "RCB v MI", Status: "completed", StartTime: "2026-02-16 10:00:00"},
		{ID: "m1", SeriesID: "ipl-2026", Name: "MI v CSK", Status: "completed", StartTime: "2026-02-14T14:00:00Z"},
		{ID: "m3", SeriesID: "ipl-2026", Name: "CSK v RCB", Status: "live", StartTime: "2026-02-17T14:00:00Z"},
		{ID: "m4", SeriesID: "bbl-2026", Name: "Stars v Heat", Status: "completed", StartTime: "2026-02-15T08:00:00Z"},
	}
}

func testScorecards() map[string]scorecard.Scorecard {
	return map[string]scorecard.Scorecard{
		"m1": {Innings: []scorecard.Innings{
			{
				Batting: []scorecard.Entry{{"name": "Virat Kohli", "runs": 30, "balls": 20, "4s": 3, "6s": 1, "dismissal": "c Smith b Starc"}},
				Bowling: []scorecard.Entry{{"name": "Jasprit Bumrah", "wickets": 2, "maidens": 0, "overs": 4.0, "runs": 24}},
			},
		}},
		"m2": {Innings: []scorecard.Innings{
			{Batting: []scorecard.Entry{{"name": "virat  KOHLI", "runs": 0, "balls": 2, "howOut": "b Starc"}}},
			{Bowling: []scorecard.Entry{{"name": "Jasprit Bumrah", "wickets": 0, "overs": "2", "runsConceded": 24}}},
		}},
		"m4": {Innings: []scorecard.Innings{
			{Batting: []scorecard.Entry{{"name": "Glenn Maxwell", "runs": 80, "balls": 40}}},
		}},
	}
}

type fakeProvider struct {
	mu        sync.Mutex
	matches   []ExternalMatch
	cards     map[string]scorecard.Scorecard
	failures  map[string]error
	listErr   error
	cardCalls map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		matches:   testMatches(),
		cards:     testScorecards(),
		failures:  make(map[string]error),
		cardCalls: make(map[string]int),
	}
}

func (p *fakeProvider) FetchMatches(_ context.Context) ([]ExternalMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listErr != nil {
		return nil, p.listErr
	}
	return append([]ExternalMatch(nil), p.matches...), nil
}

func (p *fakeProvider) FetchScorecard(_ context.Context, matchID string) (scorecard.Scorecard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cardCalls[matchID]++
	if err := p.failures[matchID]; err != nil {
		return scorecard.Scorecard{}, err
	}
	return p.cards[matchID], nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []SyncResult
}

func (n *recordingNotifier) NotifySync(_ context.Context, result SyncResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, result)
	return nil
}

type testEnv struct {
	store       *memory.Store
	players     *memory.PlayerRepository
	teams       *memory.TeamRepository
	roster      *memory.RosterRepository
	scores      *memory.ScoringRepository
	board       *memory.LeaderboardRepository
	state       *memory.SyncStateRepository
	provider    *fakeProvider
	notifier    *recordingNotifier
	leaderboard *LeaderboardService
	matches     *MatchService
	sync        *SyncService
}

func newTestEnv(t *testing.T, seeded bool) *testEnv {
	t.Helper()

	store := memory.NewStore()
	env := &testEnv{
		store:    store,
		players:  memory.NewPlayerRepository(store),
		teams:    memory.NewTeamRepository(store),
		roster:   memory.NewRosterRepository(store),
		scores:   memory.NewScoringRepository(store),
		board:    memory.NewLeaderboardRepository(store),
		state:    memory.NewSyncStateRepository(store),
		provider: newFakeProvider(),
		notifier: &recordingNotifier{},
	}
	env.leaderboard = NewLeaderboardService(env.teams, env.roster, env.players, env.scores, env.board, nil)
	env.matches = NewMatchService(memory.NewMatchRepository(store), env.scores, nil)
	env.sync = NewSyncService(
		env.provider,
		NewScoringService(env.players, 2, nil),
		env.leaderboard,
		env.scores,
		env.state,
		env.notifier,
		SyncConfig{},
		nil,
	)

	if seeded {
		file, err := ParseSeedFile(strings.NewReader(testSeedYAML))
		if err != nil {
			t.Fatalf("parse seed file: %v", err)
		}
		if _, err := NewSeedService(env.teams, env.players, env.roster, nil).Apply(context.Background(), file); err != nil {
			t.Fatalf("apply seed file: %v", err)
		}
	}
	return env
}

func totalsByTeam(t *testing.T, env *testEnv) map[int64]float64 {
	t.Helper()

	entries, err := env.board.List(context.Background())
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	out := make(map[int64]float64, len(entries))
	for _, entry := range entries {
		out[entry.TeamID] = entry.TotalPoints
	}
	return out
}

func testMatchStart() time.Time {
	return time.Date(2026, 2, 14, 14, 0, 0, 0, time.UTC)
}
