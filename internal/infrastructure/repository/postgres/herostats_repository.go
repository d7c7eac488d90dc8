package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	qb "github.com/draftpad/scrimstats/internal/platform/querybuilder"
)

type HeroStatsRepository struct {
	db *sqlx.DB
}

func NewHeroStatsRepository(db *sqlx.DB) *HeroStatsRepository {
	return &HeroStatsRepository{db: db}
}

// Team-level lists join through matches so the match-type filter applies and
// rows come back in match chronology. Aggregation relies on that order for
// first-encounter tie breaking.
const outcomesByTeamQuery = `
SELECT o.id, o.player_id, o.match_id, o.team_id, o.hero, o.lane, o.win
FROM hero_outcomes o
JOIN matches m ON m.id = o.match_id
WHERE o.team_id = $1
  AND m.match_type = $2
ORDER BY m.match_date, m.id, o.id`

func (r *HeroStatsRepository) ListOutcomesByTeam(ctx context.Context, teamID string, matchType match.Type) ([]herostats.OutcomeRecord, error) {
	var rows []outcomeTableModel
	if err := r.db.SelectContext(ctx, &rows, outcomesByTeamQuery, teamID, string(matchType)); err != nil {
		return nil, fmt.Errorf("select outcomes by team: %w", err)
	}
	return outcomesFromRows(rows), nil
}

const matchupsByTeamQuery = `
SELECT u.id, u.player_id, u.match_id, u.team_id, u.hero, u.enemy_hero, u.lane, u.win
FROM hero_matchups u
JOIN matches m ON m.id = u.match_id
WHERE u.team_id = $1
  AND m.match_type = $2
ORDER BY m.match_date, m.id, u.id`

func (r *HeroStatsRepository) ListMatchupsByTeam(ctx context.Context, teamID string, matchType match.Type) ([]herostats.MatchupRecord, error) {
	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, matchupsByTeamQuery, teamID, string(matchType)); err != nil {
		return nil, fmt.Errorf("select matchups by team: %w", err)
	}
	return matchupsFromRows(rows), nil
}

func (r *HeroStatsRepository) ListOutcomesByMatch(ctx context.Context, matchID string) ([]herostats.OutcomeRecord, error) {
	query, args, err := qb.Select("id", "player_id", "match_id", "team_id", "hero", "lane", "win").
		From("hero_outcomes").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select outcomes by match query: %w", err)
	}

	var rows []outcomeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select outcomes by match: %w", err)
	}
	return outcomesFromRows(rows), nil
}

func (r *HeroStatsRepository) ListMatchupsByMatch(ctx context.Context, matchID string) ([]herostats.MatchupRecord, error) {
	query, args, err := qb.Select("id", "player_id", "match_id", "team_id", "hero", "enemy_hero", "lane", "win").
		From("hero_matchups").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matchups by match query: %w", err)
	}

	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchups by match: %w", err)
	}
	return matchupsFromRows(rows), nil
}

func (r *HeroStatsRepository) ReplaceMatchRecords(ctx context.Context, matchID string, outcomes []herostats.OutcomeRecord, matchups []herostats.MatchupRecord) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx for record replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleted := 0
	for _, table := range []string{"hero_outcomes", "hero_matchups"} {
		query, args, err := qb.DeleteFrom(table).
			Where(qb.Eq("match_id", matchID)).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build delete %s query: %w", table, err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("delete %s for match: %w", table, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("count deleted %s rows: %w", table, err)
		}
		deleted += int(affected)
	}

	if len(outcomes) > 0 {
		builder := qb.InsertInto("hero_outcomes").
			Columns("id", "player_id", "match_id", "team_id", "hero", "lane", "win")
		for _, row := range outcomes {
			builder = builder.Values(row.ID, row.PlayerID, row.MatchID, row.TeamID, row.Hero, string(row.Lane), row.Win)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert outcomes query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert outcomes: %w", err)
		}
	}

	if len(matchups) > 0 {
		builder := qb.InsertInto("hero_matchups").
			Columns("id", "player_id", "match_id", "team_id", "hero", "enemy_hero", "lane", "win")
		for _, row := range matchups {
			builder = builder.Values(row.ID, row.PlayerID, row.MatchID, row.TeamID, row.Hero, row.EnemyHero, string(row.Lane), row.Win)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert matchups query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert matchups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record replace tx: %w", err)
	}

	return deleted, nil
}

func (r *HeroStatsRepository) RelabelLane(ctx context.Context, matchID, playerID string, oldLane, newLane match.Lane) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx for lane relabel: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	touched := 0
	for _, table := range []string{"hero_outcomes", "hero_matchups"} {
		query, args, err := qb.Update(table).
			Set("lane", string(newLane)).
			Where(
				qb.Eq("match_id", matchID),
				qb.Eq("player_id", playerID),
				qb.Eq("lane", string(oldLane)),
			).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build relabel %s query: %w", table, err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("relabel %s lanes: %w", table, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("count relabelled %s rows: %w", table, err)
		}
		touched += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit lane relabel tx: %w", err)
	}

	return touched, nil
}

func (r *HeroStatsRepository) DeleteAllRecords(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx for record clear: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleted := 0
	for _, table := range []string{"hero_outcomes", "hero_matchups"} {
		result, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("count cleared %s rows: %w", table, err)
		}
		deleted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record clear tx: %w", err)
	}

	return deleted, nil
}

func outcomesFromRows(rows []outcomeTableModel) []herostats.OutcomeRecord {
	out := make([]herostats.OutcomeRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, herostats.OutcomeRecord{
			ID:       row.ID,
			PlayerID: row.PlayerID,
			MatchID:  row.MatchID,
			TeamID:   row.TeamID,
			Hero:     row.Hero,
			Lane:     match.Lane(row.Lane),
			Win:      row.Win,
		})
	}
	return out
}

func matchupsFromRows(rows []matchupTableModel) []herostats.MatchupRecord {
	out := make([]herostats.MatchupRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, herostats.MatchupRecord{
			ID:        row.ID,
			PlayerID:  row.PlayerID,
			MatchID:   row.MatchID,
			TeamID:    row.TeamID,
			Hero:      row.Hero,
			EnemyHero: row.EnemyHero,
			Lane:      match.Lane(row.Lane),
			Win:       row.Win,
		})
	}
	return out
}
