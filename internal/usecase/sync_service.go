package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/syncstate"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

type SyncInput struct {
	SeriesID string     `validate:"omitempty,max=128"`
	From     *time.Time `validate:"omitempty"`
	// DryRun fetches and scores without writing anything.
	DryRun bool
}

type MatchOutcome struct {
	MatchID   string    `json:"matchId"`
	Name      string    `json:"name,omitempty"`
	StartTime time.Time `json:"startTime"`
	Players   int       `json:"players"`
	Teams     int       `json:"teams"`
}

// SyncResult is reported for successful and failed runs alike. Boundary is
// nil only when no watermark was ever stored.
type SyncResult struct {
	Processed int            `json:"processed"`
	Boundary  *time.Time     `json:"boundary"`
	Matches   []MatchOutcome `json:"matches"`
	DryRun    bool           `json:"dryRun"`
	Error     string         `json:"error,omitempty"`
}

// SyncNotifier receives every finished run. Its errors are logged only.
type SyncNotifier interface {
	NotifySync(ctx context.Context, result SyncResult) error
}

type SyncConfig struct {
	SeriesID string
}

type SyncService struct {
	provider    MatchProvider
	scorer      *ScoringService
	leaderboard *LeaderboardService
	scoringRepo scoring.Repository
	stateRepo   syncstate.Repository
	notifier    SyncNotifier
	cfg         SyncConfig
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

func NewSyncService(
	provider MatchProvider,
	scorer *ScoringService,
	leaderboardService *LeaderboardService,
	scoringRepo scoring.Repository,
	stateRepo syncstate.Repository,
	notifier SyncNotifier,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:    provider,
		scorer:      scorer,
		leaderboard: leaderboardService,
		scoringRepo: scoringRepo,
		stateRepo:   stateRepo,
		notifier:    notifier,
		cfg:         cfg,
		validate:    validator.New(),
		logger:      logger,
		now:         time.Now,
	}
}

// Run processes every completed match newer than the watermark, one match at
// a time, then recomputes the leaderboard and advances the watermark.
//
// A fetch failure stops the batch; matches already written stay written, the
// leaderboard is recomputed over them and the watermark is left alone. A
// persistence failure stops the batch without recompute. In both cases the
// returned result carries the processed count and the stored boundary.
func (s *SyncService) Run(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run",
		attribute.String("cricket.series_id", firstNonEmpty(input.SeriesID, s.cfg.SeriesID)),
		attribute.Bool("cricket.dry_run", input.DryRun),
	)
	defer span.End()

	result, err := s.run(ctx, input)
	span.SetAttributes(attribute.Int("cricket.processed", result.Processed))
	if err != nil {
		recordSpanError(span, err)
		result.Error = err.Error()
		s.logger.ErrorContext(ctx, "sync run failed", "processed", result.Processed, "error", err)
	} else {
		s.logger.InfoContext(ctx, "sync run finished", "processed", result.Processed, "boundary", result.Boundary, "dry_run", result.DryRun)
	}

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifySync(ctx, result); notifyErr != nil {
			s.logger.WarnContext(ctx, "sync notification failed", "error", notifyErr)
		}
	}
	return result, err
}

func (s *SyncService) run(ctx context.Context, input SyncInput) (SyncResult, error) {
	result := SyncResult{DryRun: input.DryRun, Matches: []MatchOutcome{}}

	if err := s.validate.StructCtx(ctx, input); err != nil {
		return result, fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	if s.provider == nil {
		return result, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	stored, err := s.stateRepo.Get(ctx)
	if err != nil {
		return result, markPersistence(fmt.Errorf("load sync watermark: %w", err))
	}
	result.Boundary = stored.Boundary()

	candidates, err := s.fetchCandidates(ctx, firstNonEmpty(input.SeriesID, s.cfg.SeriesID))
	if err != nil {
		return result, err
	}
	pending := syncstate.MatchesToProcess(candidates, syncstate.Override(stored, input.From))
	s.logger.InfoContext(ctx, "sync matches selected",
		"candidates", len(candidates),
		"pending", len(pending),
		"watermark", result.Boundary,
		"override", input.From,
	)

	processed := make([]match.Match, 0, len(pending))
	var fetchErr error
	for _, item := range pending {
		outcome, err := s.processMatch(ctx, item, input.DryRun)
		if err != nil {
			if crerr.Is(err, ErrTransientFetch) {
				fetchErr = err
				break
			}
			return result, err
		}
		processed = append(processed, item)
		result.Processed++
		result.Matches = append(result.Matches, outcome)
	}

	if input.DryRun {
		if fetchErr != nil {
			return result, fetchErr
		}
		if next := syncstate.Advance(stored, processed); next.Set {
			result.Boundary = next.Boundary()
		}
		return result, nil
	}

	if len(processed) > 0 || fetchErr == nil {
		if _, err := s.leaderboard.Recompute(ctx); err != nil {
			return result, err
		}
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	next := syncstate.Advance(stored, processed)
	if next != stored {
		if err := s.stateRepo.Save(ctx, next); err != nil {
			return result, markPersistence(fmt.Errorf("save sync watermark: %w", err))
		}
	}
	result.Boundary = next.Boundary()
	return result, nil
}

func (s *SyncService) fetchCandidates(ctx context.Context, seriesID string) ([]match.Match, error) {
	rows, err := s.provider.FetchMatches(ctx)
	if err != nil {
		return nil, markTransient(fmt.Errorf("fetch matches: %w", err))
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item := row.toDomain()
		if item.ID == "" {
			continue
		}
		out = append(out, item)
	}
	return match.FilterBySeries(out, seriesID), nil
}

func (s *SyncService) processMatch(ctx context.Context, item match.Match, dryRun bool) (MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.processMatch", attribute.String("cricket.match_id", item.ID))
	defer span.End()

	outcome := MatchOutcome{MatchID: item.ID, Name: item.Name, StartTime: item.StartTime}

	card, err := s.provider.FetchScorecard(ctx, item.ID)
	if err != nil {
		return outcome, markTransient(fmt.Errorf("fetch scorecard match_id=%s: %w", item.ID, err))
	}
	card.MatchID = item.ID

	scored, err := s.scorer.ScoreScorecard(ctx, card)
	if err != nil {
		return outcome, err
	}
	outcome.Players = len(scored)

	calculatedAt := s.now().UTC()
	pointsByPlayer := make(map[string]int, len(scored))
	players := make([]player.Player, 0, len(scored))
	playerPoints := make([]scoring.PlayerMatchPoints, 0, len(scored))
	for _, row := range scored {
		pointsByPlayer[row.PlayerID] = row.Breakdown.Total
		players = append(players, player.Player{ID: row.PlayerID, DisplayName: row.DisplayName, Role: row.Role})
		playerPoints = append(playerPoints, scoring.PlayerMatchPoints{
			MatchID:      item.ID,
			PlayerID:     row.PlayerID,
			Points:       row.Breakdown.Total,
			Breakdown:    row.Breakdown,
			CalculatedAt: calculatedAt,
		})
	}

	teamPoints, err := s.leaderboard.TeamMatchTotals(ctx, item.ID, item.StartTime, pointsByPlayer)
	if err != nil {
		return outcome, err
	}
	outcome.Teams = len(teamPoints)

	if dryRun {
		return outcome, nil
	}

	if err := s.scoringRepo.SaveMatchResult(ctx, scoring.MatchResult{
		Match:        item,
		Players:      players,
		PlayerPoints: playerPoints,
		TeamPoints:   teamPoints,
	}); err != nil {
		return outcome, markPersistence(fmt.Errorf("save match result match_id=%s: %w", item.ID, err))
	}

	s.logger.InfoContext(ctx, "match processed", "match_id", item.ID, "players", outcome.Players, "teams", outcome.Teams)
	return outcome, nil
}
