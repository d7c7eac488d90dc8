package memory

import (
	"context"
	"sync"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
)

// HeroStatsRepository keeps derived rows grouped per match. Team-level lists
// walk matches in chronological order so aggregation sees rows in the same
// order the postgres implementation returns them.
type HeroStatsRepository struct {
	mu       sync.RWMutex
	matches  *MatchRepository
	outcomes map[string][]herostats.OutcomeRecord
	matchups map[string][]herostats.MatchupRecord
}

func NewHeroStatsRepository(matches *MatchRepository) *HeroStatsRepository {
	return &HeroStatsRepository{
		matches:  matches,
		outcomes: make(map[string][]herostats.OutcomeRecord),
		matchups: make(map[string][]herostats.MatchupRecord),
	}
}

func (r *HeroStatsRepository) ListOutcomesByTeam(ctx context.Context, teamID string, matchType match.Type) ([]herostats.OutcomeRecord, error) {
	items, err := r.matches.ListByTeam(ctx, teamID, matchType)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]herostats.OutcomeRecord, 0)
	for _, item := range items {
		out = append(out, r.outcomes[item.ID]...)
	}

	return out, nil
}

func (r *HeroStatsRepository) ListMatchupsByTeam(ctx context.Context, teamID string, matchType match.Type) ([]herostats.MatchupRecord, error) {
	items, err := r.matches.ListByTeam(ctx, teamID, matchType)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]herostats.MatchupRecord, 0)
	for _, item := range items {
		out = append(out, r.matchups[item.ID]...)
	}

	return out, nil
}

func (r *HeroStatsRepository) ListOutcomesByMatch(_ context.Context, matchID string) ([]herostats.OutcomeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.outcomes[matchID]
	out := make([]herostats.OutcomeRecord, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *HeroStatsRepository) ListMatchupsByMatch(_ context.Context, matchID string) ([]herostats.MatchupRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.matchups[matchID]
	out := make([]herostats.MatchupRecord, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *HeroStatsRepository) ReplaceMatchRecords(_ context.Context, matchID string, outcomes []herostats.OutcomeRecord, matchups []herostats.MatchupRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.outcomes[matchID]) + len(r.matchups[matchID])

	delete(r.outcomes, matchID)
	delete(r.matchups, matchID)
	if len(outcomes) > 0 {
		rows := make([]herostats.OutcomeRecord, len(outcomes))
		copy(rows, outcomes)
		r.outcomes[matchID] = rows
	}
	if len(matchups) > 0 {
		rows := make([]herostats.MatchupRecord, len(matchups))
		copy(rows, matchups)
		r.matchups[matchID] = rows
	}

	return deleted, nil
}

func (r *HeroStatsRepository) RelabelLane(_ context.Context, matchID, playerID string, oldLane, newLane match.Lane) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	touched := 0
	outcomeRows := r.outcomes[matchID]
	for i := range outcomeRows {
		if outcomeRows[i].PlayerID == playerID && outcomeRows[i].Lane == oldLane {
			outcomeRows[i].Lane = newLane
			touched++
		}
	}
	matchupRows := r.matchups[matchID]
	for i := range matchupRows {
		if matchupRows[i].PlayerID == playerID && matchupRows[i].Lane == oldLane {
			matchupRows[i].Lane = newLane
			touched++
		}
	}

	return touched, nil
}

func (r *HeroStatsRepository) DeleteAllRecords(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for _, rows := range r.outcomes {
		deleted += len(rows)
	}
	for _, rows := range r.matchups {
		deleted += len(rows)
	}
	r.outcomes = make(map[string][]herostats.OutcomeRecord)
	r.matchups = make(map[string][]herostats.MatchupRecord)

	return deleted, nil
}
