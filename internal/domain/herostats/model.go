package herostats

import (
	"fmt"

	"github.com/draftpad/scrimstats/internal/domain/match"
)

// OutcomeRecord is one derived row per (player, match, hero, lane) capturing
// whether that player's side won. It is created only by projection and
// mutated in place only by lane relabeling.
type OutcomeRecord struct {
	ID       string
	PlayerID string
	MatchID  string
	TeamID   string
	Hero     string
	Lane     match.Lane
	Win      bool
}

func (r OutcomeRecord) Validate() error {
	if r.PlayerID == "" || r.MatchID == "" || r.TeamID == "" {
		return fmt.Errorf("outcome record requires player, match and team ids")
	}
	if r.Hero == "" {
		return fmt.Errorf("outcome record requires a hero")
	}
	if _, ok := match.AllLanes[r.Lane]; !ok {
		return fmt.Errorf("invalid outcome record lane: %s", r.Lane)
	}
	return nil
}

// MatchupRecord is one derived row per (player, match, hero, enemy hero,
// lane) capturing a same-lane head-to-head outcome. It exists only when both
// sides drafted a pick into the same lane.
type MatchupRecord struct {
	ID        string
	PlayerID  string
	MatchID   string
	TeamID    string
	Hero      string
	EnemyHero string
	Lane      match.Lane
	Win       bool
}

func (r MatchupRecord) Validate() error {
	if r.PlayerID == "" || r.MatchID == "" || r.TeamID == "" {
		return fmt.Errorf("matchup record requires player, match and team ids")
	}
	if r.Hero == "" || r.EnemyHero == "" {
		return fmt.Errorf("matchup record requires both heroes")
	}
	if _, ok := match.AllLanes[r.Lane]; !ok {
		return fmt.Errorf("invalid matchup record lane: %s", r.Lane)
	}
	return nil
}

// HeroSummary is the aggregate returned to the HTTP layer.
type HeroSummary struct {
	Hero    string
	Win     int
	Lose    int
	Total   int
	Winrate int
}

// MatchupSummary is the head-to-head aggregate returned to the HTTP layer.
type MatchupSummary struct {
	Hero      string
	EnemyHero string
	Win       int
	Lose      int
	Total     int
	Winrate   int
}
