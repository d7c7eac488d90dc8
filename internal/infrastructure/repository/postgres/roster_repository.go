package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	qb "github.com/draftpad/scrimstats/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

var playerColumns = []string{
	"id",
	"team_id",
	"name",
	"role",
	"is_substitute",
	"primary_player_id",
	"substitute_order",
	"created_at",
	"updated_at",
}

func (r *RosterRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Player, error) {
	query, args, err := qb.Select(playerColumns...).
		From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by team: %w", err)
	}

	out := make([]roster.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

func (r *RosterRepository) GetByID(ctx context.Context, playerID string) (roster.Player, bool, error) {
	query, args, err := qb.Select(playerColumns...).
		From("players").
		Where(qb.Eq("id", playerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return roster.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Player{}, false, nil
		}
		return roster.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func playerFromRow(row playerTableModel) roster.Player {
	return roster.Player{
		ID:              row.ID,
		TeamID:          row.TeamID,
		Name:            row.Name,
		Role:            match.Lane(row.Role),
		IsSubstitute:    row.IsSubstitute,
		PrimaryPlayerID: row.PrimaryPlayerID.String,
		SubstituteOrder: row.SubstituteOrder,
	}
}
