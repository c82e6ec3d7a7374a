package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/syncstate"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

// The watermark lives in a single row.
const syncStateRowID = 1

type SyncStateRepository struct {
	db *sqlx.DB
}

func NewSyncStateRepository(db *sqlx.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

func (r *SyncStateRepository) Get(ctx context.Context) (syncstate.Watermark, error) {
	query, args, err := qb.Select(qb.Columns(syncStateTableModel{})...).
		From("sync_state").
		Where(qb.Eq("id", syncStateRowID)).
		ToSQL()
	if err != nil {
		return syncstate.Watermark{}, fmt.Errorf("build get sync state query: %w", err)
	}

	var row syncStateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncstate.Watermark{}, nil
		}
		return syncstate.Watermark{}, fmt.Errorf("get sync state: %w", err)
	}
	return watermarkFromRow(row), nil
}

func (r *SyncStateRepository) Save(ctx context.Context, watermark syncstate.Watermark) error {
	query, args, err := qb.InsertModel("sync_state", watermarkToRow(watermark), `ON CONFLICT (id)
DO UPDATE SET
    last_completed_match_time = EXCLUDED.last_completed_match_time,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build save sync state query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}
	return nil
}

func watermarkFromRow(row syncStateTableModel) syncstate.Watermark {
	if !row.LastCompletedMatchTime.Valid {
		return syncstate.Watermark{}
	}
	return syncstate.At(row.LastCompletedMatchTime.Time)
}

func watermarkToRow(watermark syncstate.Watermark) syncStateTableModel {
	row := syncStateTableModel{ID: syncStateRowID}
	if watermark.Set {
		row.LastCompletedMatchTime = timeToNullTime(watermark.At)
	}
	return row
}
