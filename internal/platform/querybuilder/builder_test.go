package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("id", "team-1")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE id = $1 ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "team-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EqFold(t *testing.T) {
	query, args, err := Select("id").
		From("players").
		Where(EqFold("name", "Quin")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM players WHERE LOWER(name) = LOWER($1)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Quin" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_In(t *testing.T) {
	query, args, err := Select("match_id").
		From("match_sides").
		Where(In("match_id", []any{"m1", "m2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_id FROM match_sides WHERE match_id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InEmptyMatchesNothing(t *testing.T) {
	query, args, err := Select("match_id").
		From("match_sides").
		Where(In("match_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_id FROM match_sides WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("hero_outcomes").
		Columns("id", "hero").
		Values("o1", "Lunox").
		Values("o2", "Kagura").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO hero_outcomes (id, hero) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowArityMismatch(t *testing.T) {
	if _, _, err := InsertInto("hero_outcomes").
		Columns("id", "hero").
		Values("o1").
		ToSQL(); err == nil {
		t.Fatal("expected error for mismatched row arity")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("hero_outcomes").
		Set("lane", "mid").
		Where(Eq("match_id", "m1"), Eq("player_id", "p1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE hero_outcomes SET lane = $1 WHERE match_id = $2 AND player_id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("hero_outcomes").
		Where(Eq("match_id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM hero_outcomes WHERE match_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestExprConditionPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(Eq("team_id", "t1"), Expr("match_date >= ?", "2026-01-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE team_id = $1 AND match_date >= $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
