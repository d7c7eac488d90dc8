package roster

import (
	"fmt"

	"github.com/draftpad/scrimstats/internal/domain/match"
)

// Player is a roster member of a team. Role is the player's canonical lane;
// a player can still be drafted into a different lane (flex picks), which is
// why name resolution wins over role matching.
type Player struct {
	ID              string
	TeamID          string
	Name            string
	Role            match.Lane
	IsSubstitute    bool
	PrimaryPlayerID string
	SubstituteOrder int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := match.AllLanes[p.Role]; !ok {
		return fmt.Errorf("invalid player role: %s", p.Role)
	}
	if !p.IsSubstitute && p.SubstituteOrder != 0 {
		return fmt.Errorf("substitute order set on a starter")
	}
	return nil
}
