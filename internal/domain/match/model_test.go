package match

import (
	"testing"
	"time"
)

func TestParseStartTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{raw: "2026-02-15T14:00:00Z", want: time.Date(2026, 2, 15, 14, 0, 0, 0, time.UTC), ok: true},
		{raw: "2026-02-15T19:30:00+05:30", want: time.Date(2026, 2, 15, 14, 0, 0, 0, time.UTC), ok: true},
		{raw: "2026-02-15T14:00:00", want: time.Date(2026, 2, 15, 14, 0, 0, 0, time.UTC), ok: true},
		{raw: " 2026-02-15 14:00:00 ", want: time.Date(2026, 2, 15, 14, 0, 0, 0, time.UTC), ok: true},
		{raw: "2026-02-15", want: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "", ok: false},
		{raw: "tomorrow", ok: false},
	}

	for _, tc := range cases {
		got, ok := ParseStartTime(tc.raw)
		if ok != tc.ok {
			t.Fatalf("unexpected ok for %q: got=%v want=%v", tc.raw, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("unexpected time for %q: got=%s want=%s", tc.raw, got, tc.want)
		}
	}
}

func TestFilterBySeriesAndStatus(t *testing.T) {
	t.Parallel()

	matches := []Match{
		{ID: "m1", SeriesID: "t20wc", Status: "completed"},
		{ID: "m2", SeriesID: "ipl", Status: "Completed"},
		{ID: "m3", SeriesID: "t20wc", Status: "live"},
	}

	got := FilterBySeries(matches, "t20wc")
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m3" {
		t.Fatalf("unexpected series filter result: %+v", got)
	}
	if len(FilterBySeries(matches, " ")) != 3 {
		t.Fatalf("expected empty series to keep every match")
	}

	if !matches[0].IsCompleted() {
		t.Fatalf("expected completed match to be complete")
	}
	if matches[1].IsCompleted() {
		t.Fatalf("expected status comparison to be exact")
	}
	if (Match{Status: " completed"}).IsCompleted() {
		t.Fatalf("expected padded status to be incomplete")
	}
	if matches[2].IsCompleted() {
		t.Fatalf("expected live match to be incomplete")
	}
}
