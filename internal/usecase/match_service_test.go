package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/infrastructure/repository/memory"
	"github.com/draftpad/scrimstats/internal/platform/id"
)

func newMatchFixture() (*MatchService, *StatsService, *memory.MatchRepository, *memory.HeroStatsRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	statsRepo := memory.NewHeroStatsRepository(matchRepo)
	rosterRepo := memory.NewRosterRepository(memory.SeedPlayers())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	stats := NewStatsService(teamRepo, matchRepo, rosterRepo, statsRepo, id.NewRandomGenerator(), nil)
	svc := NewMatchService(teamRepo, matchRepo, rosterRepo, stats, id.NewRandomGenerator(), nil)
	return svc, stats, matchRepo, statsRepo
}

func validMatchInput() MatchInput {
	return MatchInput{
		TeamID: memory.TeamIDNovaEsports,
		Date:   time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC),
		Winner: "Nova Esports",
		Type:   "scrim",
		Sides: [2]SideInput{
			{
				Color: "blue",
				Name:  "Nova Esports",
				Picks1: []match.Pick{
					match.AttributedPick("Gusion", match.LaneMid, "Quin"),
					match.AttributedPick("Fanny", match.LaneJungler, "Vexa"),
				},
			},
			{
				Color: "red",
				Name:  "Crimson Peak",
				Picks1: []match.Pick{
					match.LocatedPick("Kagura", match.LaneMid),
				},
			},
		},
	}
}

func TestMatchService_CreateMatch(t *testing.T) {
	t.Parallel()

	svc, _, matchRepo, _ := newMatchFixture()
	ctx := context.Background()

	item, resync, err := svc.CreateMatch(ctx, validMatchInput())
	if err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	if item.ID == "" {
		t.Fatal("created match must have an id")
	}
	if resync.Outcomes != 2 {
		t.Fatalf("expected 2 outcomes projected on create, got=%d", resync.Outcomes)
	}
	if resync.Matchups != 1 {
		t.Fatalf("expected 1 matchup projected on create, got=%d", resync.Matchups)
	}

	_, exists, err := matchRepo.GetByID(ctx, item.ID)
	if err != nil || !exists {
		t.Fatalf("created match not stored: exists=%t err=%v", exists, err)
	}
}

func TestMatchService_CreateMatch_Invalid(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newMatchFixture()
	ctx := context.Background()

	input := validMatchInput()
	input.TeamID = "no-such-team"
	if _, _, err := svc.CreateMatch(ctx, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown team, got=%v", err)
	}

	input = validMatchInput()
	input.Type = "ranked"
	if _, _, err := svc.CreateMatch(ctx, input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got=%v", err)
	}

	input = validMatchInput()
	input.Sides[1].Color = "blue"
	if _, _, err := svc.CreateMatch(ctx, input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate side color, got=%v", err)
	}
}

func TestMatchService_UpdateMatch_WinnerFlipReprojectsOutcomes(t *testing.T) {
	t.Parallel()

	svc, _, _, statsRepo := newMatchFixture()
	ctx := context.Background()

	item, _, err := svc.CreateMatch(ctx, validMatchInput())
	if err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}

	input := validMatchInput()
	input.Winner = "Crimson Peak"
	if _, _, err := svc.UpdateMatch(ctx, item.ID, input); err != nil {
		t.Fatalf("UpdateMatch error: %v", err)
	}

	outcomes, err := statsRepo.ListOutcomesByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes after update, got=%d", len(outcomes))
	}
	for _, row := range outcomes {
		if row.Win {
			t.Fatalf("outcome still marked win after winner flip: %+v", row)
		}
	}
}

func TestMatchService_UpdateMatch_OwnershipCannotChange(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newMatchFixture()
	ctx := context.Background()

	input := validMatchInput()
	input.TeamID = memory.TeamIDCrimsonPeak
	if _, _, err := svc.UpdateMatch(ctx, "match-nova-001", input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on ownership change, got=%v", err)
	}
}

func TestMatchService_DeleteMatch_PurgesDerivedRows(t *testing.T) {
	t.Parallel()

	svc, stats, matchRepo, statsRepo := newMatchFixture()
	ctx := context.Background()

	if _, err := stats.ResyncMatch(ctx, "match-nova-001"); err != nil {
		t.Fatalf("seed resync error: %v", err)
	}

	purged, err := svc.DeleteMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("DeleteMatch error: %v", err)
	}
	if purged != 10 {
		t.Fatalf("expected 10 derived rows purged, got=%d", purged)
	}

	if _, exists, _ := matchRepo.GetByID(ctx, "match-nova-001"); exists {
		t.Fatal("match still stored after delete")
	}
	outcomes, _ := statsRepo.ListOutcomesByMatch(ctx, "match-nova-001")
	if len(outcomes) != 0 {
		t.Fatalf("derived rows survived delete: %d", len(outcomes))
	}
}

func TestMatchService_ReassignHero(t *testing.T) {
	t.Parallel()

	svc, stats, matchRepo, _ := newMatchFixture()
	ctx := context.Background()

	if _, err := stats.ResyncMatch(ctx, "match-nova-001"); err != nil {
		t.Fatalf("seed resync error: %v", err)
	}

	result, err := svc.ReassignHero(ctx, ReassignHeroInput{
		MatchID:     "match-nova-001",
		TeamID:      memory.TeamIDNovaEsports,
		PlayerID:    "nova-p2",
		Role:        "mid",
		NewHeroName: "Valentina",
	})
	if err != nil {
		t.Fatalf("ReassignHero error: %v", err)
	}
	if result.OldHero != "Lunox" || result.NewHero != "Valentina" {
		t.Fatalf("unexpected hero swap: %+v", result)
	}
	if result.Resync.Outcomes != 5 {
		t.Fatalf("resync after reassignment should keep 5 outcomes, got=%d", result.Resync.Outcomes)
	}

	item, _, err := matchRepo.GetByID(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	side, _ := item.SideNamed("Nova Esports")
	for _, pick := range side.Picks() {
		if pick.Lane == match.LaneMid && pick.Hero != "Valentina" {
			t.Fatalf("stored mid pick not updated: %+v", pick)
		}
	}
}

func TestMatchService_ReassignHero_Errors(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newMatchFixture()
	ctx := context.Background()

	_, err := svc.ReassignHero(ctx, ReassignHeroInput{
		MatchID:     "match-nova-001",
		TeamID:      memory.TeamIDCrimsonPeak,
		PlayerID:    "nova-p2",
		Role:        "mid",
		NewHeroName: "Valentina",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on foreign team, got=%v", err)
	}

	// The legacy match only has bare picks, so there is no lane slot to edit.
	_, err = svc.ReassignHero(ctx, ReassignHeroInput{
		MatchID:     "match-nova-legacy",
		TeamID:      memory.TeamIDNovaEsports,
		PlayerID:    "nova-p2",
		Role:        "mid",
		NewHeroName: "Valentina",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bare-only match, got=%v", err)
	}
}

func TestMatchService_PopulateAssignments(t *testing.T) {
	t.Parallel()

	svc, _, matchRepo, _ := newMatchFixture()
	ctx := context.Background()

	result, err := svc.PopulateAssignments(ctx, "match-nova-002")
	if err != nil {
		t.Fatalf("PopulateAssignments error: %v", err)
	}
	if result.Attributed != 3 {
		t.Fatalf("expected 3 located picks attributed, got=%d", result.Attributed)
	}
	if result.Unresolved != 0 {
		t.Fatalf("expected no unresolved picks, got=%d", result.Unresolved)
	}
	if result.Resync.Outcomes != 5 {
		t.Fatalf("expected 5 outcomes after population, got=%d", result.Resync.Outcomes)
	}

	item, _, err := matchRepo.GetByID(ctx, "match-nova-002")
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	side, _ := item.SideNamed("Nova Esports")
	for _, pick := range side.Picks() {
		if pick.Kind != match.KindAttributed {
			t.Fatalf("pick not attributed after population: %+v", pick)
		}
		if pick.Hero == "Brody" && pick.PlayerName != "Drift" {
			t.Fatalf("gold lane should resolve to Drift: %+v", pick)
		}
	}
}
