package match

import (
	"strings"
	"time"
)

const StatusCompleted = "completed"

type Match struct {
	ID       string
	SeriesID string
	Name     string
	Status   string
	// StartTimeRaw is the provider value; StartTime is set once it parses.
	StartTimeRaw string
	StartTime    time.Time
}

// IsCompleted compares the status exactly; providers report "completed".
func (m Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}

var startTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseStartTime accepts RFC3339 and the zone-less layouts providers use;
// zone-less values are read as UTC.
func ParseStartTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range startTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// FilterBySeries keeps matches of the given series; an empty series keeps all.
func FilterBySeries(matches []Match, seriesID string) []Match {
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return matches
	}
	out := make([]Match, 0, len(matches))
	for _, item := range matches {
		if item.SeriesID == seriesID {
			out = append(out, item)
		}
	}
	return out
}
