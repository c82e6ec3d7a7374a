package postgres

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

const (
	matchUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    series_id = EXCLUDED.series_id,
    name = EXCLUDED.name,
    status = EXCLUDED.status,
    start_time = EXCLUDED.start_time,
    updated_at = NOW()`

	playerPointsUpsertSuffix = `ON CONFLICT (match_id, player_id)
DO UPDATE SET
    points = EXCLUDED.points,
    breakdown = EXCLUDED.breakdown,
    calculated_at = EXCLUDED.calculated_at`

	teamPointsUpsertSuffix = `ON CONFLICT (team_id, match_id)
DO UPDATE SET
    points = EXCLUDED.points,
    calculated_at = EXCLUDED.calculated_at`
)

type ScoringRepository struct {
	db *sqlx.DB
}

var playerPointsSelectColumns = qb.Columns(playerPointsTableModel{})

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// SaveMatchResult writes the match row, newly seen players, per-player
// breakdowns and per-team totals in one transaction.
func (r *ScoringRepository) SaveMatchResult(ctx context.Context, result scoring.MatchResult) error {
	if strings.TrimSpace(result.Match.ID) == "" {
		return fmt.Errorf("match id is required")
	}

	statements, err := buildMatchResultStatements(result)
	if err != nil {
		return err
	}

	return withTx(ctx, r.db, "save match result", func(tx *sqlx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
				return fmt.Errorf("%s match_id=%s: %w", stmt.name, result.Match.ID, err)
			}
		}
		return nil
	})
}

func (r *ScoringRepository) ListPlayerPointsByMatch(ctx context.Context, matchID string) ([]scoring.PlayerMatchPoints, error) {
	query, args, err := qb.Select(playerPointsSelectColumns...).
		From("player_match_points").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player points by match query: %w", err)
	}
	return r.selectPlayerPoints(ctx, query, args)
}

func (r *ScoringRepository) ListPlayerPoints(ctx context.Context) ([]scoring.PlayerMatchPoints, error) {
	query, args, err := qb.Select(playerPointsSelectColumns...).
		From("player_match_points").
		OrderBy("match_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player points query: %w", err)
	}
	return r.selectPlayerPoints(ctx, query, args)
}

func (r *ScoringRepository) selectPlayerPoints(ctx context.Context, query string, args []any) ([]scoring.PlayerMatchPoints, error) {
	var rows []playerPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player points: %w", err)
	}

	out := make([]scoring.PlayerMatchPoints, 0, len(rows))
	for _, row := range rows {
		breakdown, err := decodeBreakdown(row.Breakdown)
		if err != nil {
			return nil, fmt.Errorf("decode breakdown match_id=%s player_id=%s: %w", row.MatchID, row.PlayerID, err)
		}
		out = append(out, scoring.PlayerMatchPoints{
			MatchID:      row.MatchID,
			PlayerID:     row.PlayerID,
			Points:       row.Points,
			Breakdown:    breakdown,
			CalculatedAt: row.CalculatedAt.UTC(),
		})
	}
	return out, nil
}

type statement struct {
	name  string
	query string
	args  []any
}

func buildMatchResultStatements(result scoring.MatchResult) ([]statement, error) {
	out := make([]statement, 0, 4)

	query, args, err := qb.InsertModel("matches", matchToRow(result.Match), matchUpsertSuffix)
	if err != nil {
		return nil, fmt.Errorf("build upsert match query: %w", err)
	}
	out = append(out, statement{name: "upsert match", query: query, args: args})

	if len(result.Players) > 0 {
		query, args, err := buildPlayerInsert(result.Players, playerRegisterSuffix)
		if err != nil {
			return nil, fmt.Errorf("build register players query: %w", err)
		}
		out = append(out, statement{name: "register players", query: query, args: args})
	}

	if len(result.PlayerPoints) > 0 {
		rows := make([]playerPointsTableModel, 0, len(result.PlayerPoints))
		for _, item := range result.PlayerPoints {
			breakdown, err := encodeBreakdown(item.Breakdown)
			if err != nil {
				return nil, fmt.Errorf("encode breakdown player_id=%s: %w", item.PlayerID, err)
			}
			rows = append(rows, playerPointsTableModel{
				MatchID:      result.Match.ID,
				PlayerID:     item.PlayerID,
				Points:       item.Points,
				Breakdown:    breakdown,
				CalculatedAt: item.CalculatedAt.UTC(),
			})
		}
		query, args, err := qb.InsertModels("player_match_points", modelsToAny(rows), playerPointsUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build upsert player points query: %w", err)
		}
		out = append(out, statement{name: "upsert player points", query: query, args: args})
	}

	if len(result.TeamPoints) > 0 {
		query, args, err := buildTeamPointsUpsert(result.Match.ID, result.TeamPoints)
		if err != nil {
			return nil, fmt.Errorf("build upsert team points query: %w", err)
		}
		out = append(out, statement{name: "upsert team points", query: query, args: args})
	}
	return out, nil
}

func buildTeamPointsUpsert(matchID string, items []leaderboard.TeamMatchPoints) (string, []any, error) {
	rows := make([]teamPointsTableModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, teamPointsTableModel{
			TeamID:       item.TeamID,
			MatchID:      matchID,
			Points:       item.Points,
			CalculatedAt: item.CalculatedAt.UTC(),
		})
	}
	return qb.InsertModels("team_match_points", modelsToAny(rows), teamPointsUpsertSuffix)
}

func encodeBreakdown(value scoring.PointsBreakdown) (string, error) {
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeBreakdown(raw string) (scoring.PointsBreakdown, error) {
	var out scoring.PointsBreakdown
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return scoring.PointsBreakdown{}, err
	}
	return out, nil
}
