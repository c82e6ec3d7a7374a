package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID        string       `db:"id"`
	SeriesID  string       `db:"series_id"`
	Name      string       `db:"name"`
	Status    string       `db:"status"`
	StartTime sql.NullTime `db:"start_time"`
}

type playerPointsTableModel struct {
	MatchID      string    `db:"match_id"`
	PlayerID     string    `db:"player_id"`
	Points       int       `db:"points"`
	Breakdown    string    `db:"breakdown"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type teamPointsTableModel struct {
	TeamID       int64     `db:"team_id"`
	MatchID      string    `db:"match_id"`
	Points       float64   `db:"points"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type teamPointsJoinedModel struct {
	TeamID         int64        `db:"team_id"`
	MatchID        string       `db:"match_id"`
	Points         float64      `db:"points"`
	CalculatedAt   time.Time    `db:"calculated_at"`
	MatchStartTime sql.NullTime `db:"match_start_time"`
}

type leaderboardTableModel struct {
	TeamID      int64     `db:"team_id"`
	TotalPoints float64   `db:"total_points"`
	LastUpdated time.Time `db:"last_updated"`
}

type syncStateTableModel struct {
	ID                     int          `db:"id"`
	LastCompletedMatchTime sql.NullTime `db:"last_completed_match_time"`
}
