package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

func TestSeedService_ApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, true)

	file, err := ParseSeedFile(strings.NewReader(testSeedYAML))
	if err != nil {
		t.Fatalf("parse seed file: %v", err)
	}
	result, err := NewSeedService(env.teams, env.players, env.roster, nil).Apply(ctx, file)
	if err != nil {
		t.Fatalf("apply seed file: %v", err)
	}
	if result.Players != 2 || result.Teams != 2 || result.RosterEntries != 4 {
		t.Fatalf("unexpected seed result: %+v", result)
	}

	teams, _ := env.teams.List(ctx)
	if len(teams) != 2 || teams[0].ID != 1 || teams[1].ID != 2 {
		t.Fatalf("re-apply created new teams: %+v", teams)
	}
	entries, _ := env.roster.ListAll(ctx)
	if len(entries) != 4 {
		t.Fatalf("unexpected roster size: got=%d want=4", len(entries))
	}

	players, _ := env.players.ListByIDs(ctx, []string{"jasprit bumrah"})
	if len(players) != 1 || players[0].Role != scorecard.RoleBowler || players[0].DisplayName != "Jasprit Bumrah" {
		t.Fatalf("unexpected seeded player: %+v", players)
	}

	bench, _, _ := env.roster.Get(ctx, 2, "virat kohli")
	if !bench.IsBench || bench.IsCaptain {
		t.Fatalf("unexpected bench entry: %+v", bench)
	}
}

func TestSeedService_ApplyRejectsInvalidFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		file SeedFile
	}{
		{
			name: "unknown role",
			file: SeedFile{Players: []SeedPlayer{{Name: "Rashid Khan", Role: "spinner"}}},
		},
		{
			name: "duplicate player",
			file: SeedFile{Players: []SeedPlayer{{Name: "Rashid Khan"}, {Name: "rashid  khan"}}},
		},
		{
			name: "unknown team member",
			file: SeedFile{
				Players: []SeedPlayer{{Name: "Rashid Khan"}},
				Teams:   []SeedTeam{{Name: "Spin Kings", Owner: "dev", Players: []SeedTeamMember{{Name: "Shane Warne"}}}},
			},
		},
		{
			name: "two captains",
			file: SeedFile{
				Players: []SeedPlayer{{Name: "Rashid Khan"}, {Name: "Sunil Narine"}},
				Teams: []SeedTeam{{Name: "Spin Kings", Owner: "dev", Players: []SeedTeamMember{
					{Name: "Rashid Khan", Captain: true},
					{Name: "Sunil Narine", Captain: true},
				}}},
			},
		},
		{
			name: "captain and vice-captain",
			file: SeedFile{
				Players: []SeedPlayer{{Name: "Rashid Khan"}},
				Teams: []SeedTeam{{Name: "Spin Kings", Owner: "dev", Players: []SeedTeamMember{
					{Name: "Rashid Khan", Captain: true, ViceCaptain: true},
				}}},
			},
		},
		{
			name: "missing owner",
			file: SeedFile{Teams: []SeedTeam{{Name: "Spin Kings"}}},
		},
	}

	for _, tc := range cases {
		env := newTestEnv(t, false)
		_, err := NewSeedService(env.teams, env.players, env.roster, nil).Apply(context.Background(), tc.file)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
		if players, _ := env.players.List(context.Background()); len(players) != 0 {
			t.Fatalf("%s: invalid file wrote players: %+v", tc.name, players)
		}
	}
}

func TestParseSeedFile(t *testing.T) {
	t.Parallel()

	empty, err := ParseSeedFile(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse empty file: %v", err)
	}
	if len(empty.Players) != 0 || len(empty.Teams) != 0 {
		t.Fatalf("unexpected empty file content: %+v", empty)
	}

	if _, err := ParseSeedFile(strings.NewReader("players:\n  - name: A\n    colour: red\n")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown field, got %v", err)
	}
}
