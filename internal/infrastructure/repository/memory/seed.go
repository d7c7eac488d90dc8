package memory

import (
	"time"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/domain/team"
)

const (
	TeamIDNovaEsports = "team-nova"
	TeamIDCrimsonPeak = "team-crimson"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDNovaEsports, Name: "Nova Esports", Tag: "NOVA"},
		{ID: TeamIDCrimsonPeak, Name: "Crimson Peak", Tag: "CRP"},
	}
}

func SeedPlayers() []roster.Player {
	return []roster.Player{
		{ID: "nova-p1", TeamID: TeamIDNovaEsports, Name: "Haze", Role: match.LaneExp},
		{ID: "nova-p2", TeamID: TeamIDNovaEsports, Name: "Quin", Role: match.LaneMid},
		{ID: "nova-p3", TeamID: TeamIDNovaEsports, Name: "Vexa", Role: match.LaneJungler},
		{ID: "nova-p4", TeamID: TeamIDNovaEsports, Name: "Drift", Role: match.LaneGold},
		{ID: "nova-p5", TeamID: TeamIDNovaEsports, Name: "Ward", Role: match.LaneRoam},
		{ID: "nova-p6", TeamID: TeamIDNovaEsports, Name: "Echo", Role: match.LaneJungler, IsSubstitute: true, PrimaryPlayerID: "nova-p3", SubstituteOrder: 1},
		{ID: "crp-p1", TeamID: TeamIDCrimsonPeak, Name: "Saber", Role: match.LaneExp},
		{ID: "crp-p2", TeamID: TeamIDCrimsonPeak, Name: "Lumen", Role: match.LaneMid},
		{ID: "crp-p3", TeamID: TeamIDCrimsonPeak, Name: "Rook", Role: match.LaneJungler},
		{ID: "crp-p4", TeamID: TeamIDCrimsonPeak, Name: "Piper", Role: match.LaneGold},
		{ID: "crp-p5", TeamID: TeamIDCrimsonPeak, Name: "Anchor", Role: match.LaneRoam},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:     "match-nova-001",
			TeamID: TeamIDNovaEsports,
			Date:   time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC),
			Winner: "Nova Esports",
			Type:   match.TypeScrim,
			Sides: [2]match.TeamSide{
				{
					Color: match.SideBlue,
					Name:  "Nova Esports",
					Picks1: []match.Pick{
						match.AttributedPick("Lancelot", match.LaneJungler, "Vexa"),
						match.AttributedPick("Lunox", match.LaneMid, "Quin"),
						match.AttributedPick("Thamuz", match.LaneExp, "Haze"),
					},
					Picks2: []match.Pick{
						match.AttributedPick("Claude", match.LaneGold, "Drift"),
						match.AttributedPick("Tigreal", match.LaneRoam, "Ward"),
					},
				},
				{
					Color: match.SideRed,
					Name:  "Crimson Peak",
					Picks1: []match.Pick{
						match.LocatedPick("Hayabusa", match.LaneJungler),
						match.LocatedPick("Kagura", match.LaneMid),
						match.LocatedPick("Esmeralda", match.LaneExp),
					},
					Picks2: []match.Pick{
						match.LocatedPick("Beatrix", match.LaneGold),
						match.LocatedPick("Khufra", match.LaneRoam),
					},
				},
			},
		},
		{
			ID:     "match-nova-002",
			TeamID: TeamIDNovaEsports,
			Date:   time.Date(2026, 8, 12, 19, 0, 0, 0, time.UTC),
			Winner: "Crimson Peak",
			Type:   match.TypeScrim,
			Sides: [2]match.TeamSide{
				{
					Color: match.SideRed,
					Name:  "Nova Esports",
					Picks1: []match.Pick{
						match.AttributedPick("Barats", match.LaneJungler, "Vexa"),
						match.AttributedPick("Lunox", match.LaneMid, "Quin"),
					},
					Picks2: []match.Pick{
						match.LocatedPick("Brody", match.LaneGold),
						match.LocatedPick("Atlas", match.LaneRoam),
						match.LocatedPick("Paquito", match.LaneExp),
					},
				},
				{
					Color: match.SideBlue,
					Name:  "Crimson Peak",
					Picks1: []match.Pick{
						match.LocatedPick("Ling", match.LaneJungler),
						match.LocatedPick("Valentina", match.LaneMid),
					},
					Picks2: []match.Pick{
						match.LocatedPick("Wanwan", match.LaneGold),
						match.LocatedPick("Franco", match.LaneRoam),
						match.LocatedPick("Yu Zhong", match.LaneExp),
					},
				},
			},
		},
		{
			// Legacy entry kept in the oldest stored shape: bare hero names
			// with no lane or player data. It contributes no statistics.
			ID:     "match-nova-legacy",
			TeamID: TeamIDNovaEsports,
			Date:   time.Date(2026, 8, 1, 17, 0, 0, 0, time.UTC),
			Winner: "Nova Esports",
			Type:   match.TypeTournament,
			Sides: [2]match.TeamSide{
				{
					Color: match.SideBlue,
					Name:  "Nova Esports",
					Picks1: []match.Pick{
						match.BarePick("Lancelot"),
						match.BarePick("Lunox"),
						match.BarePick("Thamuz"),
					},
					Picks2: []match.Pick{
						match.BarePick("Claude"),
						match.BarePick("Tigreal"),
					},
				},
				{
					Color: match.SideRed,
					Name:  "Crimson Peak",
					Picks1: []match.Pick{
						match.BarePick("Hayabusa"),
						match.BarePick("Kagura"),
						match.BarePick("Esmeralda"),
					},
					Picks2: []match.Pick{
						match.BarePick("Beatrix"),
						match.BarePick("Khufra"),
					},
				},
			},
		},
	}
}
