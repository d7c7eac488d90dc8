package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/draftpad/scrimstats/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = item
	}
	return &MatchRepository{matches: byID}
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamID string, matchType match.Type) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.matches {
		if item.TeamID != teamID || item.Type != matchType {
			continue
		}
		out = append(out, cloneMatch(item))
	}
	sortMatches(out)

	return out, nil
}

func (r *MatchRepository) ListAll(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		out = append(out, cloneMatch(item))
	}
	sortMatches(out)

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matches[item.ID]; exists {
		return fmt.Errorf("match %s already exists", item.ID)
	}
	r.matches[item.ID] = cloneMatch(item)

	return nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matches[item.ID]; !exists {
		return fmt.Errorf("match %s does not exist", item.ID)
	}
	r.matches[item.ID] = cloneMatch(item)

	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.matches, matchID)

	return nil
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID < items[j].ID
	})
}

// cloneMatch copies the pick slices so callers mutating a returned match do
// not reach into stored state.
func cloneMatch(item match.Match) match.Match {
	out := item
	for i := range out.Sides {
		out.Sides[i].Picks1 = clonePicks(item.Sides[i].Picks1)
		out.Sides[i].Picks2 = clonePicks(item.Sides[i].Picks2)
		out.Sides[i].Bans1 = clonePicks(item.Sides[i].Bans1)
		out.Sides[i].Bans2 = clonePicks(item.Sides[i].Bans2)
	}
	return out
}

func clonePicks(picks []match.Pick) []match.Pick {
	if picks == nil {
		return nil
	}
	out := make([]match.Pick, len(picks))
	copy(out, picks)
	return out
}
