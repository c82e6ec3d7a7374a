package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

const leaderboardUpsertSuffix = `ON CONFLICT (team_id)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    last_updated = EXCLUDED.last_updated`

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) ListTeamMatchPoints(ctx context.Context) ([]leaderboard.TeamMatchPoints, error) {
	query, args, err := qb.Select(
		"tmp.team_id",
		"tmp.match_id",
		"tmp.points",
		"tmp.calculated_at",
		"m.start_time AS match_start_time",
	).
		From("team_match_points tmp").
		Join("LEFT JOIN matches m ON m.id = tmp.match_id").
		OrderBy("tmp.team_id", "tmp.match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team match points query: %w", err)
	}

	var rows []teamPointsJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team match points: %w", err)
	}

	out := make([]leaderboard.TeamMatchPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.TeamMatchPoints{
			TeamID:         row.TeamID,
			MatchID:        row.MatchID,
			Points:         row.Points,
			MatchStartTime: nullTimeToTime(row.MatchStartTime),
			CalculatedAt:   row.CalculatedAt.UTC(),
		})
	}
	return out, nil
}

// Replace upserts every entry and drops cached rows for teams not in entries,
// in one transaction.
func (r *LeaderboardRepository) Replace(ctx context.Context, entries []leaderboard.Entry) error {
	statements, err := buildLeaderboardReplace(entries)
	if err != nil {
		return err
	}
	return withTx(ctx, r.db, "replace leaderboard", func(tx *sqlx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
				return fmt.Errorf("%s: %w", stmt.name, err)
			}
		}
		return nil
	})
}

func (r *LeaderboardRepository) List(ctx context.Context) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select(qb.Columns(leaderboardTableModel{})...).
		From("leaderboard_cache").
		OrderBy("total_points DESC", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard query: %w", err)
	}

	var rows []leaderboardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			TeamID:      row.TeamID,
			TotalPoints: row.TotalPoints,
			LastUpdated: row.LastUpdated.UTC(),
		})
	}
	return out, nil
}

func buildLeaderboardReplace(entries []leaderboard.Entry) ([]statement, error) {
	if len(entries) == 0 {
		query, args, err := qb.DeleteFrom("leaderboard_cache").All().ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build clear leaderboard query: %w", err)
		}
		return []statement{{name: "clear leaderboard", query: query, args: args}}, nil
	}

	ids := make([]int64, 0, len(entries))
	rows := make([]leaderboardTableModel, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.TeamID)
		rows = append(rows, leaderboardTableModel{
			TeamID:      entry.TeamID,
			TotalPoints: entry.TotalPoints,
			LastUpdated: entry.LastUpdated.UTC(),
		})
	}

	upsertQuery, upsertArgs, err := qb.InsertModels("leaderboard_cache", modelsToAny(rows), leaderboardUpsertSuffix)
	if err != nil {
		return nil, fmt.Errorf("build upsert leaderboard query: %w", err)
	}
	pruneQuery, pruneArgs, err := qb.DeleteFrom("leaderboard_cache").
		Where(qb.Expr("team_id <> ALL(?)", pq.Array(ids))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build prune leaderboard query: %w", err)
	}
	return []statement{
		{name: "upsert leaderboard", query: upsertQuery, args: upsertArgs},
		{name: "prune leaderboard", query: pruneQuery, args: pruneArgs},
	}, nil
}
