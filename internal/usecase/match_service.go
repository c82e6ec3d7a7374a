package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

// MatchDetail is one processed match with its stored player breakdowns,
// highest scorer first.
type MatchDetail struct {
	Match   match.Match                 `json:"match"`
	Players []scoring.PlayerMatchPoints `json:"players"`
}

// MatchService reads back matches the sync pipeline has already written.
type MatchService struct {
	matchRepo   match.Repository
	scoringRepo scoring.Repository
	logger      *logging.Logger
}

func NewMatchService(matchRepo match.Repository, scoringRepo scoring.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:   matchRepo,
		scoringRepo: scoringRepo,
		logger:      logger,
	}
}

// List returns processed matches, most recent first.
func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", markPersistence(err))
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.After(items[j].StartTime)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *MatchService) Detail(ctx context.Context, matchID string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Detail")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchDetail{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("get match=%s: %w", matchID, markPersistence(err))
	}
	if !exists {
		return MatchDetail{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	points, err := s.scoringRepo.ListPlayerPointsByMatch(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list player points match=%s: %w", matchID, markPersistence(err))
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Points != points[j].Points {
			return points[i].Points > points[j].Points
		}
		return points[i].PlayerID < points[j].PlayerID
	})

	s.logger.DebugContext(ctx, "match detail loaded", "match_id", matchID, "players", len(points))
	return MatchDetail{Match: item, Players: points}, nil
}
