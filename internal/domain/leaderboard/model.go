package leaderboard

import "time"

// TeamMatchPoints is one team's weighted total for one match, keyed by
// (TeamID, MatchID). MatchStartTime is read-only join data.
type TeamMatchPoints struct {
	TeamID         int64
	MatchID        string
	Points         float64
	MatchStartTime time.Time
	CalculatedAt   time.Time
}

// Entry is a team's running total: all match points plus the manual adjustment.
type Entry struct {
	TeamID      int64
	TotalPoints float64
	LastUpdated time.Time
}

type Standing struct {
	TeamID int64
	Total  float64
	Rank   int
}

// DailyStanding is the cumulative table after every match on Date (UTC, YYYY-MM-DD).
type DailyStanding struct {
	Date      string
	Standings []Standing
}
