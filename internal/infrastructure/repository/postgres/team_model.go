package postgres

import "time"

type teamTableModel struct {
	ID               int64     `db:"id"`
	Name             string    `db:"team_name"`
	Owner            string    `db:"owner"`
	ManualAdjustment float64   `db:"manual_adjustment_points"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	Name             string  `db:"team_name"`
	Owner            string  `db:"owner"`
	ManualAdjustment float64 `db:"manual_adjustment_points"`
}

type rosterTableModel struct {
	TeamID        int64  `db:"team_id"`
	PlayerID      string `db:"player_id"`
	IsCaptain     bool   `db:"is_captain"`
	IsViceCaptain bool   `db:"is_vicecaptain"`
	IsBench       bool   `db:"is_bench"`
}
