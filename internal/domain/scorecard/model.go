package scorecard

import "strings"

type Role string

const (
	RoleBatter       Role = "BAT"
	RoleWicketKeeper Role = "WK"
	RoleAllRounder   Role = "AR"
	RoleBowler       Role = "BOWL"
)

// ParseRole accepts canonical codes and the long auction labels.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BAT", "BATTER", "BATSMAN":
		return RoleBatter, true
	case "WK", "WICKETKEEPER", "WICKET-KEEPER":
		return RoleWicketKeeper, true
	case "AR", "ALLROUNDER", "ALL-ROUNDER":
		return RoleAllRounder, true
	case "BOWL", "BOWLER":
		return RoleBowler, true
	default:
		return "", false
	}
}

// PlayerMatchStats is the canonical per-player record for one match.
// Overs is mixed-radix: 3.4 means three overs and four balls.
type PlayerMatchStats struct {
	Name string `json:"name"`

	Runs        int  `json:"runs"`
	BallsFaced  int  `json:"ballsFaced"`
	Fours       int  `json:"fours"`
	Sixes       int  `json:"sixes"`
	IsDismissed bool `json:"isDismissed"`

	Wickets      int     `json:"wickets"`
	Maidens      int     `json:"maidens"`
	Overs        float64 `json:"overs"`
	RunsConceded int     `json:"runsConceded"`
	LBWBowled    int     `json:"lbwBowled"`

	Catches         int `json:"catches"`
	Stumpings       int `json:"stumpings"`
	RunoutsDirect   int `json:"runoutsDirect"`
	RunoutsIndirect int `json:"runoutsIndirect"`

	IsPlaying bool `json:"isPlaying"`
	Role      Role `json:"role"`
}

// Entry is one raw batting, bowling or fielding row as sent by the provider.
type Entry map[string]any

type Innings struct {
	Batting  []Entry `json:"batting"`
	Bowling  []Entry `json:"bowling"`
	Fielding []Entry `json:"fielding"`
}

type Scorecard struct {
	MatchID string    `json:"matchId"`
	Innings []Innings `json:"scorecard"`
}
