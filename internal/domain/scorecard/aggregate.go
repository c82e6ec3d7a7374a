package scorecard

import (
	"math"
	"strconv"
	"strings"
)

// UnknownPlayerKey collects every entry that arrives without a usable name.
const UnknownPlayerKey = "unknown"

// Field aliases in resolution order. The first alias holding a non-zero
// value wins; absent or unparseable values resolve to zero. Boundary counts
// are the exception: the first alias present on the entry wins, even at zero.
var (
	fieldName         = []string{"name"}
	fieldRuns         = []string{"runs"}
	fieldBallsFaced   = []string{"balls", "ballsFaced"}
	fieldFours        = []string{"fours", "4s"}
	fieldSixes        = []string{"sixes", "6s"}
	fieldDismissal    = []string{"dismissal", "howOut"}
	fieldWickets      = []string{"wickets"}
	fieldMaidens      = []string{"maidens"}
	fieldOvers        = []string{"overs"}
	fieldRunsConceded = []string{"runs", "runsConceded"}
	fieldLBWBowled    = []string{"lbwBowled", "lbw_bowled"}
	fieldCatches      = []string{"catches"}
	fieldStumpings    = []string{"stumpings"}
	fieldRunouts      = []string{"runouts", "runout"}
)

// PlayerKey lower-cases the name, collapses whitespace runs to one space and
// trims. Empty names map to UnknownPlayerKey.
func PlayerKey(name string) string {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if key == "" {
		return UnknownPlayerKey
	}
	return key
}

type accumulator struct {
	stats       PlayerMatchStats
	oversTenths int
}

// Normalize folds every innings of a scorecard into one record per player key.
// The result does not depend on the order of innings or entries.
func Normalize(card Scorecard) map[string]PlayerMatchStats {
	players := make(map[string]*accumulator, 32)
	lookup := func(entry Entry) *accumulator {
		name := ResolveString(entry, fieldName...)
		key := PlayerKey(name)
		acc, ok := players[key]
		if !ok {
			acc = &accumulator{stats: PlayerMatchStats{IsPlaying: true, Role: RoleBatter}}
			players[key] = acc
		}
		acc.stats.Name = preferDisplayName(acc.stats.Name, name)
		return acc
	}

	for _, innings := range card.Innings {
		for _, entry := range innings.Batting {
			foldBatting(&lookup(entry).stats, entry)
		}
		for _, entry := range innings.Bowling {
			foldBowling(lookup(entry), entry)
		}
		for _, entry := range innings.Fielding {
			foldFielding(&lookup(entry).stats, entry)
		}
	}

	out := make(map[string]PlayerMatchStats, len(players))
	for key, acc := range players {
		stats := acc.stats
		stats.Overs = float64(acc.oversTenths) / 10
		if stats.Name == "" {
			stats.Name = "Unknown"
		}
		out[key] = stats
	}
	return out
}

func foldBatting(stats *PlayerMatchStats, entry Entry) {
	stats.Runs += ResolveCount(entry, fieldRuns...)
	stats.BallsFaced += ResolveCount(entry, fieldBallsFaced...)
	stats.Fours += ResolvePresentCount(entry, fieldFours...)
	stats.Sixes += ResolvePresentCount(entry, fieldSixes...)
	if isDismissal(ResolveString(entry, fieldDismissal...)) {
		stats.IsDismissed = true
	}
}

func foldBowling(acc *accumulator, entry Entry) {
	acc.stats.Wickets += ResolveCount(entry, fieldWickets...)
	acc.stats.Maidens += ResolveCount(entry, fieldMaidens...)
	acc.stats.RunsConceded += ResolveCount(entry, fieldRunsConceded...)
	acc.stats.LBWBowled += ResolveCount(entry, fieldLBWBowled...)
	// Overs are summed as written, in tenths, so 1.4 + 1.4 = 2.8.
	acc.oversTenths += toCount(math.Round(ResolveFloat(entry, fieldOvers...) * 10))
}

func foldFielding(stats *PlayerMatchStats, entry Entry) {
	stats.Catches += ResolveCount(entry, fieldCatches...)
	stats.Stumpings += ResolveCount(entry, fieldStumpings...)
	// The provider does not separate direct and indirect run-outs.
	stats.RunoutsDirect += ResolveCount(entry, fieldRunouts...)
}

func isDismissal(raw string) bool {
	value := strings.ToLower(strings.TrimSpace(raw))
	return value != "" && value != "not out" && value != "batting"
}

// preferDisplayName keeps the lexically smallest spelling so the chosen name
// is independent of fold order.
func preferDisplayName(current, candidate string) string {
	candidate = strings.Join(strings.Fields(candidate), " ")
	if candidate == "" {
		return current
	}
	if current == "" || candidate < current {
		return candidate
	}
	return current
}

// ResolveCount returns the first non-zero alias as a non-negative integer.
func ResolveCount(entry Entry, aliases ...string) int {
	return toCount(ResolveFloat(entry, aliases...))
}

// ResolvePresentCount reads the first alias that is set on the entry, so an
// explicit zero shadows later aliases. Garbage and negatives count as zero.
func ResolvePresentCount(entry Entry, aliases ...string) int {
	for _, alias := range aliases {
		raw, ok := entry[alias]
		if !ok || raw == nil {
			continue
		}
		value, ok := asFloat64(raw)
		if !ok {
			return 0
		}
		return toCount(value)
	}
	return 0
}

// maxCount bounds any single counter read from the provider.
const maxCount = math.MaxInt32

func toCount(value float64) int {
	switch {
	case math.IsNaN(value) || value <= 0:
		return 0
	case value >= maxCount:
		return maxCount
	default:
		return int(value)
	}
}

// ResolveFloat returns the first non-zero, non-negative numeric alias.
func ResolveFloat(entry Entry, aliases ...string) float64 {
	for _, alias := range aliases {
		value, ok := asFloat64(entry[alias])
		if !ok || value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		return value
	}
	return 0
}

// ResolveString returns the first non-blank string alias.
func ResolveString(entry Entry, aliases ...string) string {
	for _, alias := range aliases {
		raw, ok := entry[alias]
		if !ok || raw == nil {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			continue
		}
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func asFloat64(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case string:
		value, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return value, true
	case interface{ Float64() (float64, error) }:
		value, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}
