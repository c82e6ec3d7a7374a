package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

var matchSelectColumns = qb.Columns(matchTableModel{})

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").OrderBy("start_time NULLS LAST", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match id=%s: %w", id, err)
	}
	return matchFromRow(row), true, nil
}

func matchFromRow(row matchTableModel) match.Match {
	item := match.Match{
		ID:        row.ID,
		SeriesID:  row.SeriesID,
		Name:      row.Name,
		Status:    row.Status,
		StartTime: nullTimeToTime(row.StartTime),
	}
	if !item.StartTime.IsZero() {
		item.StartTimeRaw = item.StartTime.Format(time.RFC3339)
	}
	return item
}

func matchToRow(item match.Match) matchTableModel {
	return matchTableModel{
		ID:        item.ID,
		SeriesID:  item.SeriesID,
		Name:      item.Name,
		Status:    item.Status,
		StartTime: timeToNullTime(item.StartTime),
	}
}
