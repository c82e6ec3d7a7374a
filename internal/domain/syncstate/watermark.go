package syncstate

import (
	"sort"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
)

// epoch stands in for a watermark that was never set.
var epoch = time.Unix(0, 0).UTC()

// Watermark is the start time of the latest fully processed match.
type Watermark struct {
	At  time.Time
	Set bool
}

func At(t time.Time) Watermark {
	return Watermark{At: t.UTC(), Set: true}
}

func (w Watermark) effective() time.Time {
	if !w.Set {
		return epoch
	}
	return w.At
}

// Boundary is the externally reported watermark; nil when never set.
func (w Watermark) Boundary() *time.Time {
	if !w.Set {
		return nil
	}
	at := w.At
	return &at
}

// Override returns the watermark for a single run. The override is never
// persisted; Advance must still be applied to the stored watermark.
func Override(stored Watermark, from *time.Time) Watermark {
	if from == nil {
		return stored
	}
	return At(*from)
}

// MatchesToProcess keeps completed matches that start strictly after the
// watermark, ordered by start time. Matches with an unparseable start time
// are dropped.
func MatchesToProcess(candidates []match.Match, watermark Watermark) []match.Match {
	after := watermark.effective()
	out := make([]match.Match, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.IsCompleted() {
			continue
		}
		start, ok := match.ParseStartTime(candidate.StartTimeRaw)
		if !ok {
			continue
		}
		if !start.After(after) {
			continue
		}
		candidate.StartTime = start
		out = append(out, candidate)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Advance moves the watermark to the latest processed start time and never
// moves it backwards.
func Advance(watermark Watermark, processed []match.Match) Watermark {
	out := watermark
	for _, item := range processed {
		if item.StartTime.IsZero() {
			continue
		}
		if !out.Set || item.StartTime.After(out.At) {
			out = At(item.StartTime)
		}
	}
	return out
}
