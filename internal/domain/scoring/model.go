package scoring

import (
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
)

// PointsBreakdown itemizes a player's points for one match.
// Total always equals Sum().
type PointsBreakdown struct {
	Playing         int `json:"playing"`
	Runs            int `json:"runs"`
	FourBonus       int `json:"fourBonus"`
	SixBonus        int `json:"sixBonus"`
	MilestoneBonus  int `json:"milestoneBonus"`
	DuckPenalty     int `json:"duckPenalty"`
	StrikeRateBonus int `json:"strikeRateBonus"`
	Wickets         int `json:"wickets"`
	LBWBowledBonus  int `json:"lbwBowledBonus"`
	WicketHaulBonus int `json:"wicketHaulBonus"`
	MaidenBonus     int `json:"maidenBonus"`
	EconomyBonus    int `json:"economyBonus"`
	CatchPoints     int `json:"catchPoints"`
	CatchBonus      int `json:"catchBonus"`
	StumpingPoints  int `json:"stumpingPoints"`
	RunoutPoints    int `json:"runoutPoints"`
	Total           int `json:"total"`
}

// Sum adds every category except Total.
func (b PointsBreakdown) Sum() int {
	return b.Playing + b.Runs + b.FourBonus + b.SixBonus +
		b.MilestoneBonus + b.DuckPenalty + b.StrikeRateBonus +
		b.Wickets + b.LBWBowledBonus + b.WicketHaulBonus +
		b.MaidenBonus + b.EconomyBonus +
		b.CatchPoints + b.CatchBonus + b.StumpingPoints + b.RunoutPoints
}

type PlayerMatchPoints struct {
	MatchID      string
	PlayerID     string
	Points       int
	Breakdown    PointsBreakdown
	CalculatedAt time.Time
}

// MatchResult is everything written for one processed match. Stores apply it
// atomically; every row is keyed so a replay overwrites instead of duplicating.
type MatchResult struct {
	Match        match.Match
	Players      []player.Player
	PlayerPoints []PlayerMatchPoints
	TeamPoints   []leaderboard.TeamMatchPoints
}
