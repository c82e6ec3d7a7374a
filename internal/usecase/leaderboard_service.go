package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"
)

type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	TeamID      int64     `json:"teamId"`
	TeamName    string    `json:"teamName"`
	Owner       string    `json:"owner"`
	TotalPoints float64   `json:"totalPoints"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type RankHistoryDay struct {
	Date string           `json:"date"`
	Rows []LeaderboardRow `json:"rows"`
}

type PlayerContribution struct {
	PlayerID      string         `json:"playerId"`
	DisplayName   string         `json:"displayName"`
	Role          scorecard.Role `json:"role"`
	IsCaptain     bool           `json:"isCaptain"`
	IsViceCaptain bool           `json:"isViceCaptain"`
	IsBench       bool           `json:"isBench"`
	Matches       int            `json:"matches"`
	RawPoints     int            `json:"rawPoints"`
	Multiplier    float64        `json:"multiplier"`
	Points        float64        `json:"points"`
}

type TeamSummary struct {
	Team             team.Team            `json:"team"`
	Players          []PlayerContribution `json:"players"`
	ManualAdjustment float64              `json:"manualAdjustment"`
	Total            float64              `json:"total"`
}

type LeaderboardService struct {
	teamRepo    team.Repository
	rosterRepo  roster.Repository
	playerRepo  player.Repository
	scoringRepo scoring.Repository
	boardRepo   leaderboard.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewLeaderboardService(
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	playerRepo player.Repository,
	scoringRepo scoring.Repository,
	boardRepo leaderboard.Repository,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		teamRepo:    teamRepo,
		rosterRepo:  rosterRepo,
		playerRepo:  playerRepo,
		scoringRepo: scoringRepo,
		boardRepo:   boardRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// TeamMatchTotals rolls one match's player points up into a total for every
// fantasy team, including teams that score nothing.
func (s *LeaderboardService) TeamMatchTotals(ctx context.Context, matchID string, startTime time.Time, pointsByPlayer map[string]int) ([]leaderboard.TeamMatchPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.TeamMatchTotals")
	defer span.End()

	var (
		teams   []team.Team
		entries []roster.Entry
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		teams, err = s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		entries, err = s.rosterRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list roster entries: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, markPersistence(err)
	}

	byTeam := groupRosterByTeam(entries)
	calculatedAt := s.now().UTC()
	return iter.Map(teams, func(item *team.Team) leaderboard.TeamMatchPoints {
		return leaderboard.TeamMatchPoints{
			TeamID:         item.ID,
			MatchID:        matchID,
			Points:         leaderboard.RollupTeam(byTeam[item.ID], pointsByPlayer),
			MatchStartTime: startTime,
			CalculatedAt:   calculatedAt,
		}
	}), nil
}

// Recompute rebuilds every team's leaderboard total from all stored match
// points plus its manual adjustment.
func (s *LeaderboardService) Recompute(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Recompute")
	defer span.End()

	teams, matchPoints, err := s.loadTeamsAndPoints(ctx)
	if err != nil {
		return nil, err
	}

	totals := leaderboard.RollupLeaderboard(matchPoints, adjustmentsByTeam(teams))
	entries := leaderboard.Entries(totals, s.now().UTC())
	if err := s.boardRepo.Replace(ctx, entries); err != nil {
		return nil, markPersistence(fmt.Errorf("replace leaderboard: %w", err))
	}

	s.logger.InfoContext(ctx, "leaderboard recomputed", "teams", len(entries), "match_rows", len(matchPoints))
	return entries, nil
}

// List reads the stored leaderboard ordered by total, then team name.
func (s *LeaderboardService) List(ctx context.Context) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.List")
	defer span.End()

	entries, err := s.boardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teamByID := indexTeams(teams)

	rows := make([]LeaderboardRow, 0, len(entries))
	for _, entry := range entries {
		item := teamByID[entry.TeamID]
		rows = append(rows, LeaderboardRow{
			TeamID:      entry.TeamID,
			TeamName:    item.Name,
			Owner:       item.Owner,
			TotalPoints: entry.TotalPoints,
			LastUpdated: entry.LastUpdated,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].TeamName != rows[j].TeamName {
			return rows[i].TeamName < rows[j].TeamName
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// RankHistory returns the cumulative standings after each match day.
func (s *LeaderboardService) RankHistory(ctx context.Context) ([]RankHistoryDay, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RankHistory")
	defer span.End()

	teams, matchPoints, err := s.loadTeamsAndPoints(ctx)
	if err != nil {
		return nil, err
	}
	teamByID := indexTeams(teams)

	days := leaderboard.RankHistory(matchPoints, adjustmentsByTeam(teams))
	out := make([]RankHistoryDay, 0, len(days))
	for _, day := range days {
		rows := make([]LeaderboardRow, 0, len(day.Standings))
		for _, standing := range day.Standings {
			item := teamByID[standing.TeamID]
			rows = append(rows, LeaderboardRow{
				Rank:        standing.Rank,
				TeamID:      standing.TeamID,
				TeamName:    item.Name,
				Owner:       item.Owner,
				TotalPoints: standing.Total,
			})
		}
		out = append(out, RankHistoryDay{Date: day.Date, Rows: rows})
	}
	return out, nil
}

// TeamSummary breaks a team's total down by player using the current roster
// flags, highest contribution first.
func (s *LeaderboardService) TeamSummary(ctx context.Context, teamID int64) (TeamSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.TeamSummary")
	defer span.End()

	item, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamSummary{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return TeamSummary{}, fmt.Errorf("%w: team id=%d", ErrNotFound, teamID)
	}

	entries, err := s.rosterRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamSummary{}, fmt.Errorf("list roster: %w", err)
	}
	points, err := s.scoringRepo.ListPlayerPoints(ctx)
	if err != nil {
		return TeamSummary{}, fmt.Errorf("list player points: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.PlayerID)
	}
	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return TeamSummary{}, fmt.Errorf("list roster players: %w", err)
	}
	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	rawByPlayer := make(map[string]int, len(entries))
	matchesByPlayer := make(map[string]int, len(entries))
	for _, row := range points {
		rawByPlayer[row.PlayerID] += row.Points
		matchesByPlayer[row.PlayerID]++
	}

	summary := TeamSummary{
		Team:             item,
		Players:          make([]PlayerContribution, 0, len(entries)),
		ManualAdjustment: item.ManualAdjustment,
		Total:            item.ManualAdjustment,
	}
	for _, entry := range entries {
		p := playerByID[entry.PlayerID]
		raw := rawByPlayer[entry.PlayerID]
		contribution := PlayerContribution{
			PlayerID:      entry.PlayerID,
			DisplayName:   firstNonEmpty(p.DisplayName, entry.PlayerID),
			Role:          p.Role,
			IsCaptain:     entry.IsCaptain,
			IsViceCaptain: entry.IsViceCaptain,
			IsBench:       entry.IsBench,
			Matches:       matchesByPlayer[entry.PlayerID],
			RawPoints:     raw,
			Multiplier:    entry.Multiplier(),
			Points:        float64(raw) * entry.Multiplier(),
		}
		summary.Players = append(summary.Players, contribution)
		summary.Total += contribution.Points
	}
	sort.SliceStable(summary.Players, func(i, j int) bool {
		if summary.Players[i].Points != summary.Players[j].Points {
			return summary.Players[i].Points > summary.Players[j].Points
		}
		return summary.Players[i].PlayerID < summary.Players[j].PlayerID
	})
	return summary, nil
}

func (s *LeaderboardService) loadTeamsAndPoints(ctx context.Context) ([]team.Team, []leaderboard.TeamMatchPoints, error) {
	var (
		teams       []team.Team
		matchPoints []leaderboard.TeamMatchPoints
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		teams, err = s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		matchPoints, err = s.boardRepo.ListTeamMatchPoints(ctx)
		if err != nil {
			return fmt.Errorf("list team match points: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, markPersistence(err)
	}
	return teams, matchPoints, nil
}

func groupRosterByTeam(entries []roster.Entry) map[int64][]roster.Entry {
	out := make(map[int64][]roster.Entry)
	for _, entry := range entries {
		out[entry.TeamID] = append(out[entry.TeamID], entry)
	}
	return out
}

func adjustmentsByTeam(teams []team.Team) map[int64]float64 {
	out := make(map[int64]float64, len(teams))
	for _, item := range teams {
		out[item.ID] = item.ManualAdjustment
	}
	return out
}

func indexTeams(teams []team.Team) map[int64]team.Team {
	out := make(map[int64]team.Team, len(teams))
	for _, item := range teams {
		out[item.ID] = item
	}
	return out
}
