package resilience

import (
	"errors"
	"testing"
	"time"
)

type transition struct {
	from CircuitState
	to   CircuitState
}

func newTestBreaker(threshold int, now *time.Time) (*CircuitBreaker, *[]transition) {
	var changes []transition
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "cricketdata",
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	}, func(name string, from, to CircuitState) {
		changes = append(changes, transition{from: from, to: to})
	})
	b.now = func() time.Time { return *now }
	return b, &changes
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b, changes := newTestBreaker(2, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []transition{
		{from: CircuitStateClosed, to: CircuitStateOpen},
		{from: CircuitStateOpen, to: CircuitStateHalfOpen},
		{from: CircuitStateHalfOpen, to: CircuitStateClosed},
	}
	if len(*changes) != len(want) {
		t.Fatalf("unexpected transitions: got=%+v want=%+v", *changes, want)
	}
	for i := range want {
		if (*changes)[i] != want[i] {
			t.Fatalf("unexpected transition %d: got=%+v want=%+v", i, (*changes)[i], want[i])
		}
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b, _ := newTestBreaker(1, &now)

	b.RecordFailure()
	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected reopen after probe failure, got %s", state)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b, _ := newTestBreaker(1, &now)

	notFound := errors.New("not found")
	err := b.Execute(func() error { return notFound }, func(err error) bool { return !errors.Is(err, notFound) })
	if !errors.Is(err, notFound) {
		t.Fatalf("unexpected execute error: %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("ignored failure tripped the breaker: %s", state)
	}

	boom := errors.New("boom")
	_ = b.Execute(func() error { return boom }, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after counted failure, got %s", state)
	}

	called := false
	err = b.Execute(func() error { called = true; return nil }, nil)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected rejected call, got err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_Disabled(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1}, nil)
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker rejected call: %v", err)
	}
	if b.Name() != "default" {
		t.Fatalf("unexpected default name: %s", b.Name())
	}
}

func TestCircuitBreakerConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	got := CircuitBreakerConfig{Name: "  ", FailureThreshold: -1}.WithDefaults("cricketdata")
	want := CircuitBreakerConfig{
		Name:             "cricketdata",
		FailureThreshold: defaultFailureThreshold,
		OpenTimeout:      defaultOpenTimeout,
		HalfOpenMaxReq:   defaultHalfOpenProbes,
	}
	if got != want {
		t.Fatalf("unexpected defaults: got=%+v want=%+v", got, want)
	}

	kept := CircuitBreakerConfig{Name: "scorecards", Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 3}
	if got := kept.WithDefaults("cricketdata"); got != kept {
		t.Fatalf("unexpected override of explicit config: got=%+v want=%+v", got, kept)
	}

	if got := (CircuitBreakerConfig{}).WithDefaults(""); got.Name != defaultBreakerName {
		t.Fatalf("unexpected fallback name: got=%q want=%q", got.Name, defaultBreakerName)
	}
}
