package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

const (
	defaultScoringWorkers = 4
	maxScoringWorkers     = 16
)

// ScoredPlayer is one player's normalized stats and point breakdown for a match.
type ScoredPlayer struct {
	PlayerID    string                     `json:"playerId"`
	DisplayName string                     `json:"displayName"`
	Role        scorecard.Role             `json:"role"`
	Stats       scorecard.PlayerMatchStats `json:"stats"`
	Breakdown   scoring.PointsBreakdown    `json:"breakdown"`
}

type ScoringService struct {
	playerRepo player.Repository
	workers    int
	logger     *logging.Logger
}

// NewScoringService accepts a nil player repository; every player then scores
// with the default role.
func NewScoringService(playerRepo player.Repository, workers int, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		playerRepo: playerRepo,
		workers:    normalizeScoringWorkers(workers),
		logger:     logger,
	}
}

// ScoreScorecard normalizes a raw scorecard and scores every player in it,
// ordered by player id.
func (s *ScoringService) ScoreScorecard(ctx context.Context, card scorecard.Scorecard) ([]ScoredPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreScorecard")
	defer span.End()

	statsByPlayer := scorecard.Normalize(card)
	if len(statsByPlayer) == 0 {
		return nil, nil
	}

	roles, err := s.lookupRoles(ctx, statsByPlayer)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(min(s.workers, len(statsByPlayer)))
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ScoredPlayer, len(statsByPlayer))
	var workers sync.WaitGroup
	for playerID, stats := range statsByPlayer {
		if role, ok := roles[playerID]; ok {
			stats.Role = role
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- ScoredPlayer{
				PlayerID:    playerID,
				DisplayName: stats.Name,
				Role:        stats.Role,
				Stats:       stats,
				Breakdown:   scoring.Score(stats),
			}
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit scoring task: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]ScoredPlayer, 0, len(statsByPlayer))
	for row := range results {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	s.logger.DebugContext(ctx, "scorecard scored", "match_id", card.MatchID, "players", len(out))
	return out, nil
}

func (s *ScoringService) lookupRoles(ctx context.Context, statsByPlayer map[string]scorecard.PlayerMatchStats) (map[string]scorecard.Role, error) {
	if s.playerRepo == nil {
		return nil, nil
	}

	ids := make([]string, 0, len(statsByPlayer))
	for id := range statsByPlayer {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, markPersistence(fmt.Errorf("list players for role lookup: %w", err))
	}

	out := make(map[string]scorecard.Role, len(players))
	for _, item := range players {
		if item.Role != "" {
			out[item.ID] = item.Role
		}
	}
	return out, nil
}

func normalizeScoringWorkers(value int) int {
	if value <= 0 {
		return defaultScoringWorkers
	}
	if value > maxScoringWorkers {
		return maxScoringWorkers
	}
	return value
}
