package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"

	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

type fakeMigrator struct {
	upErr      error
	steps      []int
	version    uint
	dirty      bool
	versionErr error
	forced     []int
	targets    []uint
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }

func (f *fakeMigrator) Force(version int) error {
	f.forced = append(f.forced, version)
	return nil
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.targets = append(f.targets, version)
	return migrate.ErrNoChange
}

func TestExecute_Commands(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	m := &fakeMigrator{upErr: migrate.ErrNoChange, version: 1771900000}

	if err := execute(m, logger, &bytes.Buffer{}, "up", nil); err != nil {
		t.Fatalf("up with no change should succeed: %v", err)
	}
	if err := execute(m, logger, &bytes.Buffer{}, "down", nil); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := execute(m, logger, &bytes.Buffer{}, "DOWN", []string{"2"}); err != nil {
		t.Fatalf("down 2: %v", err)
	}
	if len(m.steps) != 2 || m.steps[0] != -1 || m.steps[1] != -2 {
		t.Fatalf("unexpected steps: got=%v want=[-1 -2]", m.steps)
	}

	var out bytes.Buffer
	if err := execute(m, logger, &out, "version", nil); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "version: 1771900000") || !strings.Contains(out.String(), "dirty: false") {
		t.Fatalf("unexpected version output: %q", out.String())
	}

	if err := execute(m, logger, &bytes.Buffer{}, "force", []string{"5"}); err != nil {
		t.Fatalf("force: %v", err)
	}
	if err := execute(m, logger, &bytes.Buffer{}, "goto", []string{"7"}); err != nil {
		t.Fatalf("goto with no change should succeed: %v", err)
	}
	if len(m.forced) != 1 || m.forced[0] != 5 || len(m.targets) != 1 || m.targets[0] != 7 {
		t.Fatalf("unexpected force/goto calls: forced=%v targets=%v", m.forced, m.targets)
	}
}

func TestExecute_Errors(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	boom := errors.New("boom")

	if err := execute(&fakeMigrator{upErr: boom}, logger, &bytes.Buffer{}, "up", nil); !errors.Is(err, boom) {
		t.Fatalf("unexpected up error: %v", err)
	}
	if err := execute(&fakeMigrator{}, logger, &bytes.Buffer{}, "down", []string{"0"}); err == nil {
		t.Fatalf("expected error for zero steps")
	}
	if err := execute(&fakeMigrator{}, logger, &bytes.Buffer{}, "force", nil); err == nil {
		t.Fatalf("expected error for missing force version")
	}
	if err := execute(&fakeMigrator{}, logger, &bytes.Buffer{}, "goto", []string{"-1"}); err == nil {
		t.Fatalf("expected error for negative target")
	}
	if err := execute(&fakeMigrator{}, logger, &bytes.Buffer{}, "sideways", nil); !errors.Is(err, errUsage) {
		t.Fatalf("unexpected unknown command error: %v", err)
	}

	var out bytes.Buffer
	if err := execute(&fakeMigrator{versionErr: migrate.ErrNilVersion}, logger, &out, "version", nil); err != nil {
		t.Fatalf("nil version should not fail: %v", err)
	}
	if !strings.Contains(out.String(), "version: none") {
		t.Fatalf("unexpected nil version output: %q", out.String())
	}
}

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	raw := "postgres://u:p@localhost:5432/cricket?sslmode=disable"
	if got := normalizeDBURL(raw, false); got != raw {
		t.Fatalf("unexpected url: got=%s want=%s", got, raw)
	}

	got := normalizeDBURL(raw, true)
	if !strings.Contains(got, "disable_prepared_binary_result=yes") || !strings.Contains(got, "sslmode=disable") {
		t.Fatalf("unexpected normalized url: %s", got)
	}

	kept := "postgres://localhost/cricket?disable_prepared_binary_result=no"
	if got := normalizeDBURL(kept, true); got != kept {
		t.Fatalf("existing flag should be kept: got=%s", got)
	}
}
