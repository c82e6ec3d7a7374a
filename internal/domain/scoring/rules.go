package scoring

import (
	"math"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

const (
	pointsPlaying       = 4
	pointsPerRun        = 1
	pointsPerFour       = 1
	pointsPerSix        = 2
	pointsDuck          = -2
	pointsPerWicket     = 25
	pointsPerLBWBowled  = 8
	pointsPerMaiden     = 12
	pointsPerCatch      = 8
	pointsCatchBonus    = 4
	pointsPerStumping   = 12
	pointsPerRunoutDir  = 12
	pointsPerRunoutInd  = 6
	minBallsStrikeRate  = 10
	minBallsEconomy     = 12
	catchBonusThreshold = 3
)

// Score maps one player's match stats to the Dream11 T20 point breakdown.
// It is pure and defined for every non-negative input.
func Score(stats scorecard.PlayerMatchStats) PointsBreakdown {
	var b PointsBreakdown

	if stats.IsPlaying {
		b.Playing = pointsPlaying
	}

	b.Runs = stats.Runs * pointsPerRun
	b.FourBonus = stats.Fours * pointsPerFour
	b.SixBonus = stats.Sixes * pointsPerSix
	b.MilestoneBonus = milestoneBonus(stats.Runs)
	if stats.IsDismissed && stats.Runs == 0 && stats.Role != scorecard.RoleBowler {
		b.DuckPenalty = pointsDuck
	}
	if stats.BallsFaced >= minBallsStrikeRate {
		b.StrikeRateBonus = strikeRateBonus(float64(stats.Runs) / float64(stats.BallsFaced) * 100)
	}

	b.Wickets = stats.Wickets * pointsPerWicket
	b.LBWBowledBonus = stats.LBWBowled * pointsPerLBWBowled
	b.WicketHaulBonus = wicketHaulBonus(stats.Wickets)
	b.MaidenBonus = stats.Maidens * pointsPerMaiden
	if balls := BallsBowled(stats.Overs); balls >= minBallsEconomy {
		b.EconomyBonus = economyBonus(float64(stats.RunsConceded) / (float64(balls) / 6))
	}

	b.CatchPoints = stats.Catches * pointsPerCatch
	if stats.Catches >= catchBonusThreshold {
		b.CatchBonus = pointsCatchBonus
	}
	b.StumpingPoints = stats.Stumpings * pointsPerStumping
	b.RunoutPoints = stats.RunoutsDirect*pointsPerRunoutDir + stats.RunoutsIndirect*pointsPerRunoutInd

	b.Total = b.Sum()
	return b
}

// BallsBowled converts mixed-radix overs (3.4 = 3 overs 4 balls) to balls.
func BallsBowled(overs float64) int {
	if overs <= 0 {
		return 0
	}
	whole := math.Floor(overs)
	return int(whole)*6 + int(math.Round((overs-whole)*10))
}

func milestoneBonus(runs int) int {
	switch {
	case runs >= 100:
		return 16
	case runs >= 50:
		return 8
	case runs >= 30:
		return 4
	default:
		return 0
	}
}

// Checked from the most extreme tier inward; the first match wins.
func strikeRateBonus(sr float64) int {
	switch {
	case sr > 170:
		return 6
	case sr > 150:
		return 4
	case sr >= 130:
		return 2
	case sr < 50:
		return -6
	case sr < 60:
		return -4
	case sr < 70:
		return -2
	default:
		return 0
	}
}

func wicketHaulBonus(wickets int) int {
	switch {
	case wickets >= 5:
		return 16
	case wickets >= 4:
		return 8
	case wickets >= 3:
		return 4
	default:
		return 0
	}
}

func economyBonus(economy float64) int {
	switch {
	case economy < 5:
		return 6
	case economy < 6:
		return 4
	case economy <= 7:
		return 2
	case economy >= 11:
		return -6
	case economy >= 10:
		return -4
	case economy >= 9:
		return -2
	default:
		return 0
	}
}
