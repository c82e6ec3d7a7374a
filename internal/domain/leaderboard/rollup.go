package leaderboard

import (
	"sort"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
)

// RollupTeam weights each roster player's raw points by its multiplier.
// Players without recorded points contribute nothing.
func RollupTeam(entries []roster.Entry, pointsByPlayer map[string]int) float64 {
	total := 0.0
	for _, entry := range entries {
		points, ok := pointsByPlayer[entry.PlayerID]
		if !ok {
			continue
		}
		total += float64(points) * entry.Multiplier()
	}
	return total
}

// RollupLeaderboard recomputes every team total from scratch. Teams that only
// appear in adjustments still get a total.
func RollupLeaderboard(matchTotals []TeamMatchPoints, adjustments map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(adjustments))
	for teamID, adjustment := range adjustments {
		out[teamID] = adjustment
	}
	for _, row := range matchTotals {
		out[row.TeamID] += row.Points
	}
	return out
}

// Entries orders totals by points descending, then team id.
func Entries(totals map[int64]float64, now time.Time) []Entry {
	out := make([]Entry, 0, len(totals))
	for teamID, total := range totals {
		out = append(out, Entry{TeamID: teamID, TotalPoints: total, LastUpdated: now})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// RankHistory replays match points day by day, starting every team at its
// manual adjustment, and ranks the cumulative totals after each day.
func RankHistory(matchTotals []TeamMatchPoints, adjustments map[int64]float64) []DailyStanding {
	current := make(map[int64]float64, len(adjustments))
	for teamID, adjustment := range adjustments {
		current[teamID] = adjustment
	}

	byDate := make(map[string][]TeamMatchPoints)
	for _, row := range matchTotals {
		if row.MatchStartTime.IsZero() {
			continue
		}
		date := row.MatchStartTime.UTC().Format(time.DateOnly)
		byDate[date] = append(byDate[date], row)
		if _, ok := current[row.TeamID]; !ok {
			current[row.TeamID] = 0
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]DailyStanding, 0, len(dates))
	for _, date := range dates {
		for _, row := range byDate[date] {
			current[row.TeamID] += row.Points
		}

		entries := Entries(current, time.Time{})
		standings := make([]Standing, 0, len(entries))
		for i, entry := range entries {
			standings = append(standings, Standing{TeamID: entry.TeamID, Total: entry.TotalPoints, Rank: i + 1})
		}
		out = append(out, DailyStanding{Date: date, Standings: standings})
	}
	return out
}
