package herostats

import (
	"context"

	"github.com/draftpad/scrimstats/internal/domain/match"
)

type Repository interface {
	ListOutcomesByTeam(ctx context.Context, teamID string, matchType match.Type) ([]OutcomeRecord, error)
	ListMatchupsByTeam(ctx context.Context, teamID string, matchType match.Type) ([]MatchupRecord, error)
	ListOutcomesByMatch(ctx context.Context, matchID string) ([]OutcomeRecord, error)
	ListMatchupsByMatch(ctx context.Context, matchID string) ([]MatchupRecord, error)

	// ReplaceMatchRecords deletes both derived record sets for the match and
	// inserts the fresh projection in one transaction. It returns the number
	// of rows deleted.
	ReplaceMatchRecords(ctx context.Context, matchID string, outcomes []OutcomeRecord, matchups []MatchupRecord) (int, error)

	// RelabelLane rewrites lane on every row of both tables matching
	// (player, match, oldLane) in one transaction and returns the number of
	// rows touched. Win/loss counts are untouched: a lane relabeling changes
	// categorization, not what happened.
	RelabelLane(ctx context.Context, matchID, playerID string, oldLane, newLane match.Lane) (int, error)

	// DeleteAllRecords clears both derived tables. Used by the full resync.
	DeleteAllRecords(ctx context.Context) (int, error)
}
