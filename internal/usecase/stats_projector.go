package usecase

import (
	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
)

type SkipReason string

const (
	// SkipBarePick marks legacy bare-string picks. They carry no lane, and
	// inferring one positionally would misattribute outcomes, so they are
	// excluded from statistics outright.
	SkipBarePick SkipReason = "bare_pick"
	// SkipInvalidLane marks structured picks whose lane is outside the
	// known lane set.
	SkipInvalidLane SkipReason = "invalid_lane"
	// SkipPlayerNotFound marks picks where neither the player name nor the
	// lane-role fallback resolved a roster member.
	SkipPlayerNotFound SkipReason = "player_not_found"
)

type SkippedPick struct {
	Hero       string
	Lane       match.Lane
	PlayerName string
	Reason     SkipReason
}

// Projection is the full derived output for one match. NoTeamSide is set when
// neither side's display name equals the owning team's name, which happens
// for historical or incomplete data and is not an error.
type Projection struct {
	MatchID    string
	NoTeamSide bool
	Outcomes   []herostats.OutcomeRecord
	Matchups   []herostats.MatchupRecord
	Skipped    []SkippedPick
}

// ProjectMatch computes the derived statistics records for one match. It is a
// pure function of the match's current side data, the owning team's name and
// roster: re-running it on unchanged inputs yields identical records, which
// is what makes resync idempotent and the derived tables safely rebuildable.
func ProjectMatch(m match.Match, teamName string, players []roster.Player) Projection {
	proj := Projection{MatchID: m.ID}

	ourSide, ok := m.SideNamed(teamName)
	if !ok {
		proj.NoTeamSide = true
		return proj
	}
	enemySide, _ := m.EnemyOf(teamName)
	win := m.Winner == ourSide.Name

	enemyPicks := usablePicks(enemySide.Picks())

	for _, pick := range ourSide.Picks() {
		switch {
		case pick.Kind == match.KindBare:
			proj.Skipped = append(proj.Skipped, skipped(pick, SkipBarePick))
			continue
		case pick.Lane == match.LaneUnknown:
			proj.Skipped = append(proj.Skipped, skipped(pick, SkipInvalidLane))
			continue
		}

		player, ok := ResolvePlayer(players, pick.PlayerName, pick.Lane)
		if !ok {
			proj.Skipped = append(proj.Skipped, skipped(pick, SkipPlayerNotFound))
			continue
		}

		proj.Outcomes = append(proj.Outcomes, herostats.OutcomeRecord{
			PlayerID: player.ID,
			MatchID:  m.ID,
			TeamID:   m.TeamID,
			Hero:     pick.Hero,
			Lane:     pick.Lane,
			Win:      win,
		})

		// A matchup exists only when the enemy drafted into the same lane.
		// No shared lane means nothing to record, not an error.
		enemy, ok := firstLaneMatch(enemyPicks, pick.Lane)
		if !ok {
			continue
		}
		proj.Matchups = append(proj.Matchups, herostats.MatchupRecord{
			PlayerID:  player.ID,
			MatchID:   m.ID,
			TeamID:    m.TeamID,
			Hero:      pick.Hero,
			EnemyHero: enemy.Hero,
			Lane:      pick.Lane,
			Win:       win,
		})
	}

	return proj
}

// usablePicks keeps enemy picks that carry a valid lane. Player linkage is
// irrelevant on the enemy side; only hero and lane feed matchups.
func usablePicks(picks []match.Pick) []match.Pick {
	out := make([]match.Pick, 0, len(picks))
	for _, pick := range picks {
		if pick.Kind == match.KindBare || pick.Lane == match.LaneUnknown {
			continue
		}
		out = append(out, pick)
	}
	return out
}

func firstLaneMatch(picks []match.Pick, lane match.Lane) (match.Pick, bool) {
	for _, pick := range picks {
		if pick.Lane == lane {
			return pick, true
		}
	}
	return match.Pick{}, false
}

func skipped(pick match.Pick, reason SkipReason) SkippedPick {
	return SkippedPick{
		Hero:       pick.Hero,
		Lane:       pick.Lane,
		PlayerName: pick.PlayerName,
		Reason:     reason,
	}
}
