package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("t.team_id", "t.points", "m.start_time").
		From("team_match_points t").
		Join("JOIN matches m ON m.id = t.match_id").
		Where(Eq("t.team_id", int64(3)), Gt("m.start_time", "2026-01-01"), IsNull("m.deleted_at")).
		OrderBy("m.start_time", "t.team_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT t.team_id, t.points, m.start_time FROM team_match_points t JOIN matches m ON m.id = t.match_id WHERE t.team_id = $1 AND m.start_time > $2 AND m.deleted_at IS NULL ORDER BY m.start_time, t.team_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(3) || args[1] != "2026-01-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InAndExpr(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").
		From("players").
		Where(InStrings("id", []string{"a", "b"}), Expr("lower(role) = ?", "bat")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE id IN ($1, $2) AND lower(role) = $3" {
		t.Fatalf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{"a", "b", "bat"}) {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, args, _ = Select("id").From("players").Where(In("id", nil)).ToSQL()
	if query != "SELECT id FROM players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected empty IN query: %s %+v", query, args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("players").
		Columns("id", "role").
		Values("virat kohli", "BAT").
		Values("jasprit bumrah", "BOWL").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (id, role) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "jasprit bumrah" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("players").Columns("id", "role").Values("x").ToSQL(); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("fantasy_teams").
		Set("manual_adjustment_points", 12.5).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(1))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE fantasy_teams SET manual_adjustment_points = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 12.5 || args[1] != int64(1) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("fantasy_teams").Set("x", 1).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}

func TestDeleteBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := DeleteFrom("fantasy_team_players").
		Where(Eq("team_id", int64(2)), Eq("player_id", "ms dhoni")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM fantasy_team_players WHERE team_id = $1 AND player_id = $2" || len(args) != 2 {
		t.Fatalf("unexpected delete: %s %+v", query, args)
	}

	if _, _, err := DeleteFrom("leaderboard_cache").ToSQL(); err == nil {
		t.Fatalf("expected error for unguarded delete")
	}
	query, _, err = DeleteFrom("leaderboard_cache").All().ToSQL()
	if err != nil || query != "DELETE FROM leaderboard_cache" {
		t.Fatalf("unexpected full delete: %s %v", query, err)
	}
}

type pointsRow struct {
	MatchID   string    `db:"match_id"`
	PlayerID  string    `db:"player_id"`
	Points    int       `db:"points"`
	UpdatedAt time.Time `db:"-"`
	internal  string
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	query, args, err := InsertModels("player_match_points", []any{
		pointsRow{MatchID: "m1", PlayerID: "a", Points: 10},
		&pointsRow{MatchID: "m1", PlayerID: "b", Points: 4},
	}, "ON CONFLICT (match_id, player_id) DO UPDATE SET points = EXCLUDED.points")
	if err != nil {
		t.Fatalf("build insert models: %v", err)
	}

	wantQuery := "INSERT INTO player_match_points (match_id, player_id, points) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (match_id, player_id) DO UPDATE SET points = EXCLUDED.points"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[5] != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if got := Columns(pointsRow{}); !reflect.DeepEqual(got, []string{"match_id", "player_id", "points"}) {
		t.Fatalf("unexpected columns: %+v", got)
	}
	if _, _, err := InsertModel("x", nil, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
