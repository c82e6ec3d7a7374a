package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

const rosterUpsertSuffix = `ON CONFLICT (team_id, player_id)
DO UPDATE SET
    is_captain = EXCLUDED.is_captain,
    is_vicecaptain = EXCLUDED.is_vicecaptain,
    is_bench = EXCLUDED.is_bench,
    updated_at = NOW()`

type RosterRepository struct {
	db *sqlx.DB
}

var rosterSelectColumns = qb.Columns(rosterTableModel{})

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByTeam(ctx context.Context, teamID int64) ([]roster.Entry, error) {
	query, args, err := qb.Select(rosterSelectColumns...).
		From("fantasy_team_players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster by team query: %w", err)
	}
	return r.selectEntries(ctx, query, args)
}

func (r *RosterRepository) ListAll(ctx context.Context) ([]roster.Entry, error) {
	query, args, err := qb.Select(rosterSelectColumns...).
		From("fantasy_team_players").
		OrderBy("team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}
	return r.selectEntries(ctx, query, args)
}

func (r *RosterRepository) Get(ctx context.Context, teamID int64, playerID string) (roster.Entry, bool, error) {
	query, args, err := qb.Select(rosterSelectColumns...).
		From("fantasy_team_players").
		Where(qb.Eq("team_id", teamID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return roster.Entry{}, false, fmt.Errorf("build get roster entry query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("get roster entry team_id=%d player_id=%s: %w", teamID, playerID, err)
	}
	return rosterEntryFromRow(row), true, nil
}

// Save writes all entries in one multi-row upsert.
func (r *RosterRepository) Save(ctx context.Context, entries ...roster.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	query, args, err := buildRosterUpsert(entries)
	if err != nil {
		return fmt.Errorf("build upsert roster query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("upsert roster: team or player does not exist: %w", err)
		}
		return fmt.Errorf("upsert roster: %w", err)
	}
	return nil
}

func (r *RosterRepository) Delete(ctx context.Context, teamID int64, playerID string) error {
	query, args, err := qb.DeleteFrom("fantasy_team_players").
		Where(qb.Eq("team_id", teamID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete roster entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete roster entry team_id=%d player_id=%s: %w", teamID, playerID, err)
	}
	return nil
}

func (r *RosterRepository) selectEntries(ctx context.Context, query string, args []any) ([]roster.Entry, error) {
	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster entries: %w", err)
	}
	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterEntryFromRow(row))
	}
	return out, nil
}

func buildRosterUpsert(entries []roster.Entry) (string, []any, error) {
	type key struct {
		teamID   int64
		playerID string
	}
	index := make(map[key]int, len(entries))
	rows := make([]rosterTableModel, 0, len(entries))
	for _, entry := range entries {
		row := rosterTableModel{
			TeamID:        entry.TeamID,
			PlayerID:      entry.PlayerID,
			IsCaptain:     entry.IsCaptain,
			IsViceCaptain: entry.IsViceCaptain,
			IsBench:       entry.IsBench,
		}
		k := key{teamID: entry.TeamID, playerID: entry.PlayerID}
		if pos, ok := index[k]; ok {
			rows[pos] = row
			continue
		}
		index[k] = len(rows)
		rows = append(rows, row)
	}
	return qb.InsertModels("fantasy_team_players", modelsToAny(rows), rosterUpsertSuffix)
}

func rosterEntryFromRow(row rosterTableModel) roster.Entry {
	return roster.Entry{
		TeamID:        row.TeamID,
		PlayerID:      row.PlayerID,
		IsCaptain:     row.IsCaptain,
		IsViceCaptain: row.IsViceCaptain,
		IsBench:       row.IsBench,
	}
}
