package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	playermock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/player"
	"github.com/stretchr/testify/mock"
)

func TestScoringService_ScoreScorecard_UsesRegisteredRoles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, true)
	service := NewScoringService(env.players, 8, nil)

	got, err := service.ScoreScorecard(context.Background(), testScorecards()["m1"])
	if err != nil {
		t.Fatalf("score scorecard: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected player count: got=%d want=2", len(got))
	}
	if got[0].PlayerID != "jasprit bumrah" || got[1].PlayerID != "virat kohli" {
		t.Fatalf("unexpected order: %s, %s", got[0].PlayerID, got[1].PlayerID)
	}

	bumrah, kohli := got[0], got[1]
	if bumrah.Role != scorecard.RoleBowler {
		t.Fatalf("unexpected role: got=%s want=%s", bumrah.Role, scorecard.RoleBowler)
	}
	if bumrah.Breakdown.Total != 56 {
		t.Fatalf("unexpected bowler total: got=%d want=56", bumrah.Breakdown.Total)
	}
	if kohli.Breakdown.Total != 45 {
		t.Fatalf("unexpected batter total: got=%d want=45", kohli.Breakdown.Total)
	}
	if kohli.DisplayName != "Virat Kohli" {
		t.Fatalf("unexpected display name: %q", kohli.DisplayName)
	}
}

func TestScoringService_ScoreScorecard_RoleDecidesDuck(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	repo.On("ListByIDs", mock.Anything, []string{"jasprit bumrah", "virat kohli"}).
		Return([]player.Player{{ID: "virat kohli", Role: scorecard.RoleBowler}}, nil).
		Once()

	got, err := NewScoringService(repo, 1, nil).ScoreScorecard(context.Background(), testScorecards()["m2"])
	if err != nil {
		t.Fatalf("score scorecard: %v", err)
	}
	kohli := got[1]
	if kohli.Breakdown.DuckPenalty != 0 || kohli.Breakdown.Total != 4 {
		t.Fatalf("bowler should not take a duck penalty: %+v", kohli.Breakdown)
	}
	if got[0].Role != scorecard.RoleBatter {
		t.Fatalf("unregistered player should keep default role: %s", got[0].Role)
	}
}

func TestScoringService_ScoreScorecard_WithoutRepository(t *testing.T) {
	t.Parallel()

	service := NewScoringService(nil, 0, nil)

	got, err := service.ScoreScorecard(context.Background(), testScorecards()["m2"])
	if err != nil {
		t.Fatalf("score scorecard: %v", err)
	}
	if got[1].Breakdown.DuckPenalty != -2 {
		t.Fatalf("unexpected duck penalty: got=%d want=-2", got[1].Breakdown.DuckPenalty)
	}

	empty, err := service.ScoreScorecard(context.Background(), scorecard.Scorecard{})
	if err != nil {
		t.Fatalf("score empty scorecard: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("unexpected players for empty scorecard: %+v", empty)
	}
}

func TestScoringService_ScoreScorecard_RoleLookupFailure(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	repo.On("ListByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := NewScoringService(repo, 2, nil).ScoreScorecard(context.Background(), testScorecards()["m1"])
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestNormalizeScoringWorkers(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-1: defaultScoringWorkers, 0: defaultScoringWorkers, 3: 3, 100: maxScoringWorkers}
	for in, want := range cases {
		if got := normalizeScoringWorkers(in); got != want {
			t.Fatalf("unexpected workers for %d: got=%d want=%d", in, got, want)
		}
	}
}
