package syncstate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
)

func TestMatchesToProcess_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	candidates := []match.Match{
		{ID: "late", Status: "completed", StartTimeRaw: "2026-02-18T14:00:00Z"},
		{ID: "titled", Status: "Completed", StartTimeRaw: "2026-02-17T14:00:00Z"},
		{ID: "live", Status: "live", StartTimeRaw: "2026-02-18T16:00:00Z"},
		{ID: "early", Status: "completed", StartTimeRaw: "2026-02-16 09:30:00"},
		{ID: "undated", Status: "completed", StartTimeRaw: "soon"},
		{ID: "old", Status: "completed", StartTimeRaw: "2026-02-10T10:00:00Z"},
		{ID: "boundary", Status: "completed", StartTimeRaw: "2026-02-12T10:00:00Z"},
	}

	got := MatchesToProcess(candidates, At(time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)))
	if len(got) != 2 {
		t.Fatalf("unexpected match count: got=%d want=2 (%+v)", len(got), got)
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("unexpected order: got=%s,%s want=early,late", got[0].ID, got[1].ID)
	}
	if got[0].StartTime.IsZero() {
		t.Fatalf("expected parsed start time on filtered match")
	}
}

func TestMatchesToProcess_UnsetWatermarkKeepsEverything(t *testing.T) {
	t.Parallel()

	candidates := []match.Match{
		{ID: "b", Status: "completed", StartTimeRaw: "2026-02-02"},
		{ID: "a", Status: "completed", StartTimeRaw: "2026-02-01"},
	}
	got := MatchesToProcess(candidates, Watermark{})
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected matches for unset watermark: %+v", got)
	}
}

func TestAdvance_NeverRegresses(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		processed := make([]match.Match, rng.Intn(4))
		for j := range processed {
			offset := time.Duration(rng.Intn(96)-48) * time.Hour
			processed[j] = match.Match{ID: "m", StartTime: base.Add(offset)}
		}

		got := Advance(At(base), processed)
		if got.At.Before(base) {
			t.Fatalf("watermark regressed: got=%s input=%s", got.At, base)
		}
		for _, item := range processed {
			if item.StartTime.After(got.At) {
				t.Fatalf("watermark below processed match: got=%s match=%s", got.At, item.StartTime)
			}
		}
	}
}

func TestAdvance_EmptyBatch(t *testing.T) {
	t.Parallel()

	stored := At(time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC))
	got := Advance(stored, nil)
	if got != stored {
		t.Fatalf("unexpected watermark: got=%+v want=%+v", got, stored)
	}
	if boundary := got.Boundary(); boundary == nil || !boundary.Equal(stored.At) {
		t.Fatalf("unexpected boundary: got=%v want=%s", boundary, stored.At)
	}

	unset := Advance(Watermark{}, nil)
	if unset.Set || unset.Boundary() != nil {
		t.Fatalf("expected absent boundary for never-set watermark, got=%+v", unset)
	}
}

func TestOverride_DoesNotReplaceStoredBase(t *testing.T) {
	t.Parallel()

	stored := At(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	effective := Override(stored, &from)
	if !effective.At.Equal(from) {
		t.Fatalf("unexpected effective watermark: got=%s want=%s", effective.At, from)
	}
	if Override(stored, nil) != stored {
		t.Fatalf("expected stored watermark without override")
	}

	reprocessed := []match.Match{{ID: "m1", StartTime: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)}}
	if next := Advance(stored, reprocessed); !next.At.Equal(stored.At) {
		t.Fatalf("reprocessing history moved the watermark: got=%s want=%s", next.At, stored.At)
	}
}
