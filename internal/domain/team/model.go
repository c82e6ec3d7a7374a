package team

import "time"

// Team is one fantasy team. ManualAdjustment is added once to the
// leaderboard total, never per match.
type Team struct {
	ID               int64
	Name             string
	Owner            string
	ManualAdjustment float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
