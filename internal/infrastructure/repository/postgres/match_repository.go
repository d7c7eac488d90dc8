package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/platform/logging"
	qb "github.com/draftpad/scrimstats/internal/platform/querybuilder"
)

// MatchRepository persists matches across two tables: one row per match and
// one row per drafting side, with the four pick lists stored as JSONB in
// their heterogeneous historical shapes.
type MatchRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewMatchRepository(db *sqlx.DB, logger *logging.Logger) *MatchRepository {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MatchRepository{db: db, logger: logger}
}

var matchColumns = []string{
	"id",
	"team_id",
	"match_date",
	"winner",
	"match_type",
	"notes",
	"created_at",
	"updated_at",
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string, matchType match.Type) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("match_type", string(matchType)),
		).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by team query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListAll(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	items, err := r.attachSides(ctx, []matchTableModel{row})
	if err != nil {
		return match.Match{}, false, err
	}

	return items[0], true, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	return r.attachSides(ctx, rows)
}

func (r *MatchRepository) attachSides(ctx context.Context, rows []matchTableModel) ([]match.Match, error) {
	if len(rows) == 0 {
		return []match.Match{}, nil
	}

	matchIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		matchIDs = append(matchIDs, row.ID)
	}
	query, args, err := qb.Select("match_id", "side_index", "color", "name", "picks_phase1", "picks_phase2", "bans_phase1", "bans_phase2").
		From("match_sides").
		Where(qb.In("match_id", matchIDs)).
		OrderBy("match_id", "side_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match sides query: %w", err)
	}

	var sideRows []matchSideTableModel
	if err := r.db.SelectContext(ctx, &sideRows, query, args...); err != nil {
		return nil, fmt.Errorf("select match sides: %w", err)
	}

	sidesByMatch := make(map[string][]matchSideTableModel, len(rows))
	for _, side := range sideRows {
		sidesByMatch[side.MatchID] = append(sidesByMatch[side.MatchID], side)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item := match.Match{
			ID:     row.ID,
			TeamID: row.TeamID,
			Date:   row.MatchDate,
			Winner: row.Winner,
			Type:   match.Type(row.MatchType),
			Notes:  row.Notes,
		}
		for _, side := range sidesByMatch[row.ID] {
			if side.SideIndex < 0 || side.SideIndex > 1 {
				return nil, fmt.Errorf("match %s has invalid side index %d", row.ID, side.SideIndex)
			}
			item.Sides[side.SideIndex] = match.TeamSide{
				Color:  match.SideColor(side.Color),
				Name:   side.Name,
				Picks1: r.decodePickColumn(ctx, row.ID, "picks_phase1", side.Picks1),
				Picks2: r.decodePickColumn(ctx, row.ID, "picks_phase2", side.Picks2),
				Bans1:  r.decodePickColumn(ctx, row.ID, "bans_phase1", side.Bans1),
				Bans2:  r.decodePickColumn(ctx, row.ID, "bans_phase2", side.Bans2),
			}
		}
		out = append(out, item)
	}

	return out, nil
}

// decodePickColumn tolerates individually corrupt entries: they are logged
// and dropped so one bad row cannot make a whole match unreadable.
func (r *MatchRepository) decodePickColumn(ctx context.Context, matchID, column string, data []byte) []match.Pick {
	picks, errs := match.DecodePicks(data)
	for _, err := range errs {
		r.logger.WarnContext(ctx, "unparseable stored pick dropped",
			"match_id", matchID,
			"column", column,
			"error", err,
		)
	}
	return picks
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("matches").
		Columns("id", "team_id", "match_date", "winner", "match_type", "notes").
		Values(item.ID, item.TeamID, item.Date, item.Winner, string(item.Type), item.Notes).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	if err := insertSides(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match create tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("matches").
		Set("team_id", item.TeamID).
		Set("match_date", item.Date).
		Set("winner", item.Winner).
		Set("match_type", string(item.Type)).
		Set("notes", item.Notes).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("count updated matches: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match %s does not exist", item.ID)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("match_sides").
		Where(qb.Eq("match_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match sides query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete match sides: %w", err)
	}

	if err := insertSides(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match update tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sidesQuery, sidesArgs, err := qb.DeleteFrom("match_sides").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match sides query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sidesQuery, sidesArgs...); err != nil {
		return fmt.Errorf("delete match sides: %w", err)
	}

	matchQuery, matchArgs, err := qb.DeleteFrom("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match delete tx: %w", err)
	}

	return nil
}

func insertSides(ctx context.Context, tx *sqlx.Tx, item match.Match) error {
	builder := qb.InsertInto("match_sides").
		Columns("match_id", "side_index", "color", "name", "picks_phase1", "picks_phase2", "bans_phase1", "bans_phase2")
	for i, side := range item.Sides {
		picks1, err := match.EncodePicks(side.Picks1)
		if err != nil {
			return fmt.Errorf("encode side %d phase-1 picks: %w", i, err)
		}
		picks2, err := match.EncodePicks(side.Picks2)
		if err != nil {
			return fmt.Errorf("encode side %d phase-2 picks: %w", i, err)
		}
		bans1, err := match.EncodePicks(side.Bans1)
		if err != nil {
			return fmt.Errorf("encode side %d phase-1 bans: %w", i, err)
		}
		bans2, err := match.EncodePicks(side.Bans2)
		if err != nil {
			return fmt.Errorf("encode side %d phase-2 bans: %w", i, err)
		}
		builder = builder.Values(item.ID, i, string(side.Color), side.Name, picks1, picks2, bans1, bans2)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match sides query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match sides: %w", err)
	}

	return nil
}
