package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/draftpad/scrimstats/internal/domain/roster"
)

type RosterRepository struct {
	mu            sync.RWMutex
	playersByTeam map[string][]roster.Player
}

func NewRosterRepository(players []roster.Player) *RosterRepository {
	byTeam := make(map[string][]roster.Player)
	for _, item := range players {
		byTeam[item.TeamID] = append(byTeam[item.TeamID], item)
	}
	for teamID := range byTeam {
		rows := byTeam[teamID]
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		byTeam[teamID] = rows
	}
	return &RosterRepository{playersByTeam: byTeam}
}

func (r *RosterRepository) ListByTeam(_ context.Context, teamID string) ([]roster.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.playersByTeam[teamID]
	out := make([]roster.Player, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *RosterRepository) GetByID(_ context.Context, playerID string) (roster.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rows := range r.playersByTeam {
		for _, item := range rows {
			if item.ID == playerID {
				return item, true, nil
			}
		}
	}

	return roster.Player{}, false, nil
}
