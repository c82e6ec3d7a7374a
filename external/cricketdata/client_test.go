package cricketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL + "/api/",
		APIKey:         "secret-key",
		MaxAttempts:    3,
		BackoffInitial: time.Millisecond,
		BackoffMax:     2 * time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 10, OpenTimeout: time.Minute},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchMatches_BareArray(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/matches" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("apikey"); got != "secret-key" {
			t.Errorf("unexpected api key: %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"id":"m1","seriesId":"ipl-2026","name":"MI v CSK","status":"completed","date_time":"2026-02-14T14:00:00Z"},
			{"id":2041,"series_id":"ipl-2026","name":"RCB v MI","status":"Completed","dateTimeGMT":"2026-02-16T10:00:00"},
			{"id":"","name":"no id"}
		]`))
	}, nil)

	got, err := client.FetchMatches(context.Background())
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected match count: got=%d want=2", len(got))
	}
	want := usecase.ExternalMatch{ID: "m1", SeriesID: "ipl-2026", Name: "MI v CSK", Status: "completed", StartTime: "2026-02-14T14:00:00Z"}
	if got[0] != want {
		t.Fatalf("unexpected first match: got=%+v want=%+v", got[0], want)
	}
	if got[1].ID != "2041" || got[1].SeriesID != "ipl-2026" || got[1].StartTime != "2026-02-16T10:00:00" {
		t.Fatalf("unexpected second match: %+v", got[1])
	}
}

func TestClient_FetchMatches_Envelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"m9","seriesId":"bbl-2026","status":"live","date":"2026-01-02"}]}`))
	}, nil)

	got, err := client.FetchMatches(context.Background())
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m9" || got[0].StartTime != "2026-01-02" {
		t.Fatalf("unexpected matches: %+v", got)
	}
}

func TestClient_FetchScorecard(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/matches/m1/scorecard" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"scorecard":[
			{"batting":[{"name":"Virat Kohli","runs":30,"balls":"20"}],"bowling":[{"name":"Jasprit Bumrah","wickets":2,"overs":4}]},
			{"fielding":[{"name":"Ravindra Jadeja","catches":1}]}
		]}}`))
	}, nil)

	card, err := client.FetchScorecard(context.Background(), "m1")
	if err != nil {
		t.Fatalf("fetch scorecard: %v", err)
	}
	if card.MatchID != "m1" || len(card.Innings) != 2 {
		t.Fatalf("unexpected scorecard: %+v", card)
	}
	if len(card.Innings[0].Batting) != 1 || len(card.Innings[1].Fielding) != 1 {
		t.Fatalf("unexpected innings: %+v", card.Innings)
	}

	if _, err := client.FetchScorecard(context.Background(), "  "); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	got, err := client.FetchMatches(context.Background())
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("unexpected attempts: got=%d want=3", calls.Load())
	}
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, nil)

	_, err := client.FetchMatches(context.Background())
	if !crerr.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("unexpected attempts: got=%d want=3", calls.Load())
	}
}

func TestClient_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"reason":"invalid apikey=secret-key"}`, http.StatusUnauthorized)
	}, nil)

	_, err := client.FetchScorecard(context.Background(), "m1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if crerr.Is(err, errTransient) {
		t.Fatalf("4xx should not be transient: %v", err)
	}
	if !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("unexpected attempts: got=%d want=1", calls.Load())
	}
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.MaxAttempts = 1
		cfg.CircuitBreaker.FailureThreshold = 1
	})

	if _, err := client.FetchMatches(context.Background()); !crerr.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	_, err := client.FetchMatches(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("open circuit still reached provider: calls=%d", calls.Load())
	}
}

func TestDecodeScorecard(t *testing.T) {
	t.Parallel()

	bare, err := DecodeScorecard([]byte(`{"scorecard":[{"batting":[{"name":"A","runs":"12"}]}]}`))
	if err != nil {
		t.Fatalf("decode bare scorecard: %v", err)
	}
	if len(bare.Innings) != 1 || len(bare.Innings[0].Batting) != 1 {
		t.Fatalf("unexpected bare scorecard: %+v", bare)
	}

	empty, err := DecodeScorecard([]byte(`{"data":{}}`))
	if err != nil {
		t.Fatalf("decode empty scorecard: %v", err)
	}
	if len(empty.Innings) != 0 {
		t.Fatalf("unexpected innings: %+v", empty.Innings)
	}

	if _, err := DecodeScorecard([]byte(`{"data":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "https://x/api/matches?apikey=abc123&page=1": secret-key leaked`, "secret-key")
	if strings.Contains(got, "abc123") || strings.Contains(got, "secret-key") {
		t.Fatalf("sensitive text not redacted: %s", got)
	}
	if got := redactAPIURL("https://x/api/matches?apikey=abc123"); strings.Contains(got, "abc123") {
		t.Fatalf("url not redacted: %s", got)
	}
}
