package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

const playerUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    display_name = EXCLUDED.display_name,
    role = EXCLUDED.role,
    updated_at = NOW()`

// Players registered while syncing never overwrite seeded names or roles.
const playerRegisterSuffix = `ON CONFLICT (id) DO NOTHING`

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = qb.Columns(playerTableModel{})

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return playersFromRows(rows), nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, ids []string) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).
		From("players").
		Where(qb.InStrings("id", ids)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	return playersFromRows(rows), nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, players ...player.Player) error {
	if len(players) == 0 {
		return nil
	}
	query, args, err := buildPlayerInsert(players, playerUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	return nil
}

// buildPlayerInsert keeps the last row per id; one statement may not touch a
// conflicting row twice.
func buildPlayerInsert(players []player.Player, suffix string) (string, []any, error) {
	index := make(map[string]int, len(players))
	rows := make([]playerInsertModel, 0, len(players))
	for _, item := range players {
		row := playerInsertModel{ID: item.ID, DisplayName: item.DisplayName, Role: string(item.Role)}
		if pos, ok := index[item.ID]; ok {
			rows[pos] = row
			continue
		}
		index[item.ID] = len(rows)
		rows = append(rows, row)
	}
	return qb.InsertModels("players", modelsToAny(rows), suffix)
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		role, ok := scorecard.ParseRole(row.Role)
		if !ok {
			role = scorecard.RoleBatter
		}
		out = append(out, player.Player{
			ID:          row.ID,
			DisplayName: row.DisplayName,
			Role:        role,
		})
	}
	return out
}
