package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = qb.Columns(teamTableModel{})

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team id=%d: %w", id, err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) UpsertByOwner(ctx context.Context, item team.Team) (team.Team, error) {
	owner := strings.TrimSpace(item.Owner)
	if owner == "" {
		return team.Team{}, fmt.Errorf("team owner is required")
	}

	insertModel := teamInsertModel{
		Name:             strings.TrimSpace(item.Name),
		Owner:            owner,
		ManualAdjustment: item.ManualAdjustment,
	}
	query, args, err := qb.InsertModel("fantasy_teams", insertModel, `ON CONFLICT (owner)
DO UPDATE SET
    team_name = EXCLUDED.team_name,
    manual_adjustment_points = EXCLUDED.manual_adjustment_points,
    updated_at = NOW()
RETURNING `+strings.Join(teamSelectColumns, ", "))
	if err != nil {
		return team.Team{}, fmt.Errorf("build upsert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("upsert team owner=%s: %w", owner, err)
	}
	return teamFromRow(row), nil
}

func (r *TeamRepository) SetManualAdjustment(ctx context.Context, id int64, points float64) error {
	query, args, err := qb.Update("fantasy_teams").
		Set("manual_adjustment_points", points).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set manual adjustment query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set manual adjustment team_id=%d: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("team id=%d not found", id)
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:               row.ID,
		Name:             row.Name,
		Owner:            row.Owner,
		ManualAdjustment: row.ManualAdjustment,
		CreatedAt:        row.CreatedAt.UTC(),
		UpdatedAt:        row.UpdatedAt.UTC(),
	}
}
