package usecase

import (
	"strings"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
)

// laneRole maps a drafted lane onto the roster role expected to fill it. The
// mapping is fixed; lanes outside the known set map to the unknown sentinel,
// which matches no player.
func laneRole(lane match.Lane) match.Lane {
	if _, ok := match.AllLanes[lane]; ok {
		return lane
	}
	return match.LaneUnknown
}

// ResolvePlayer maps a normalized pick onto a concrete roster member.
//
// Name matching wins over role matching: a name hit is returned regardless of
// the player's stored role, because teams draft players into off-role lanes
// (flex picks). When no name is given, or the name matches nobody, the first
// player (lowest ID) whose role equals the pick's lane is used. Both
// fallthroughs failing means the pick cannot be attributed.
func ResolvePlayer(players []roster.Player, playerName string, lane match.Lane) (roster.Player, bool) {
	playerName = strings.TrimSpace(playerName)
	if playerName != "" {
		if found, ok := lowestIDMatch(players, func(p roster.Player) bool {
			return strings.EqualFold(p.Name, playerName)
		}); ok {
			return found, true
		}
	}

	role := laneRole(lane)
	if role == match.LaneUnknown {
		return roster.Player{}, false
	}
	return lowestIDMatch(players, func(p roster.Player) bool {
		return p.Role == role
	})
}

// FindPlayerByName resolves strictly by case-insensitive name, with no role
// fallback. Lane changes use this: a lane edit naming an unknown player is a
// data problem that must surface, not be guessed around.
func FindPlayerByName(players []roster.Player, playerName string) (roster.Player, bool) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return roster.Player{}, false
	}
	return lowestIDMatch(players, func(p roster.Player) bool {
		return strings.EqualFold(p.Name, playerName)
	})
}

func lowestIDMatch(players []roster.Player, matches func(roster.Player) bool) (roster.Player, bool) {
	var best roster.Player
	found := false
	for _, p := range players {
		if !matches(p) {
			continue
		}
		if !found || p.ID < best.ID {
			best = p
			found = true
		}
	}
	return best, found
}
