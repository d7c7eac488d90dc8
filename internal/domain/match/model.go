package match

import (
	"fmt"
	"strings"
	"time"
)

// Lane is one of the five role slots a pick is assigned to.
type Lane string

const (
	LaneExp     Lane = "exp"
	LaneMid     Lane = "mid"
	LaneJungler Lane = "jungler"
	LaneGold    Lane = "gold"
	LaneRoam    Lane = "roam"

	// LaneUnknown is the sentinel for unmapped lane strings. It matches no
	// roster role and therefore resolves no player.
	LaneUnknown Lane = "unknown"
)

var AllLanes = map[Lane]struct{}{
	LaneExp:     {},
	LaneMid:     {},
	LaneJungler: {},
	LaneGold:    {},
	LaneRoam:    {},
}

// ParseLane maps a raw lane string onto the fixed lane set, case-insensitively.
func ParseLane(raw string) Lane {
	candidate := Lane(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := AllLanes[candidate]; ok {
		return candidate
	}
	return LaneUnknown
}

type Type string

const (
	TypeScrim      Type = "scrim"
	TypeTournament Type = "tournament"
)

func ParseType(raw string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeScrim:
		return TypeScrim, true
	case TypeTournament:
		return TypeTournament, true
	default:
		return "", false
	}
}

type SideColor string

const (
	SideBlue SideColor = "blue"
	SideRed  SideColor = "red"
)

// TeamSide is one drafting side of a match. Its pick lists are the source of
// truth for what was drafted; the derived statistics tables are projections
// of them and are never synced back.
type TeamSide struct {
	Color  SideColor
	Name   string
	Picks1 []Pick
	Picks2 []Pick
	Bans1  []Pick
	Bans2  []Pick
}

// Picks returns the side's phase-1 and phase-2 picks as one flat list.
func (s TeamSide) Picks() []Pick {
	out := make([]Pick, 0, len(s.Picks1)+len(s.Picks2))
	out = append(out, s.Picks1...)
	out = append(out, s.Picks2...)
	return out
}

// Match is one completed game owned by a team. Winner holds the display name
// of the winning side and is matched against TeamSide.Name.
type Match struct {
	ID     string
	TeamID string
	Date   time.Time
	Winner string
	Type   Type
	Notes  string
	Sides  [2]TeamSide
}

// SideNamed returns the side whose display name equals name, if any.
func (m Match) SideNamed(name string) (TeamSide, bool) {
	for _, side := range m.Sides {
		if side.Name == name {
			return side, true
		}
	}
	return TeamSide{}, false
}

// EnemyOf returns the side opposite to the one named name.
func (m Match) EnemyOf(name string) (TeamSide, bool) {
	for i, side := range m.Sides {
		if side.Name == name {
			return m.Sides[1-i], true
		}
	}
	return TeamSide{}, false
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.TeamID == "" {
		return fmt.Errorf("match team id is required")
	}
	if m.Type != TypeScrim && m.Type != TypeTournament {
		return fmt.Errorf("invalid match type: %s", m.Type)
	}
	seen := make(map[SideColor]struct{}, 2)
	for _, side := range m.Sides {
		if side.Color != SideBlue && side.Color != SideRed {
			return fmt.Errorf("invalid side color: %s", side.Color)
		}
		if strings.TrimSpace(side.Name) == "" {
			return fmt.Errorf("side name is required")
		}
		if _, dup := seen[side.Color]; dup {
			return fmt.Errorf("duplicate side color: %s", side.Color)
		}
		seen[side.Color] = struct{}{}
	}
	return nil
}
