package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/infrastructure/repository/memory"
	"github.com/draftpad/scrimstats/internal/platform/id"
)

func newLaneChangeFixture() (*LaneChangeService, *StatsService, *memory.MatchRepository, *memory.HeroStatsRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	statsRepo := memory.NewHeroStatsRepository(matchRepo)
	rosterRepo := memory.NewRosterRepository(memory.SeedPlayers())
	stats := NewStatsService(
		memory.NewTeamRepository(memory.SeedTeams()),
		matchRepo,
		rosterRepo,
		statsRepo,
		id.NewRandomGenerator(),
		nil,
	)
	svc := NewLaneChangeService(matchRepo, rosterRepo, statsRepo, stats, nil)
	return svc, stats, matchRepo, statsRepo
}

func TestLaneChangeService_Apply(t *testing.T) {
	t.Parallel()

	svc, stats, matchRepo, statsRepo := newLaneChangeFixture()
	ctx := context.Background()

	if _, err := stats.ResyncMatch(ctx, "match-nova-001"); err != nil {
		t.Fatalf("seed resync error: %v", err)
	}

	result, err := svc.Apply(ctx, "match-nova-001", LaneChange{
		PlayerName: "Vexa",
		OldLane:    "jungler",
		NewLane:    "exp",
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if result.PlayerID != "nova-p3" {
		t.Fatalf("expected nova-p3, got=%s", result.PlayerID)
	}
	if result.OldLane != match.LaneJungler || result.NewLane != match.LaneExp {
		t.Fatalf("unexpected lanes: %+v", result)
	}
	if result.RowsRelabelled != 2 {
		t.Fatalf("expected 1 outcome + 1 matchup relabelled, got=%d", result.RowsRelabelled)
	}

	// The stored pick data agrees with the relabel.
	item, exists, err := matchRepo.GetByID(ctx, "match-nova-001")
	if err != nil || !exists {
		t.Fatalf("reload match: exists=%t err=%v", exists, err)
	}
	side, ok := item.SideNamed("Nova Esports")
	if !ok {
		t.Fatal("owning side missing")
	}
	found := false
	for _, pick := range side.Picks() {
		if pick.Hero == "Lancelot" {
			found = true
			if pick.Lane != match.LaneExp {
				t.Fatalf("stored pick lane not updated: %+v", pick)
			}
		}
	}
	if !found {
		t.Fatal("Lancelot pick missing after lane change")
	}

	// Win/loss totals survive the relabel plus the follow-up resync.
	outcomes, err := statsRepo.ListOutcomesByMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes after change, got=%d", len(outcomes))
	}
	for _, row := range outcomes {
		if !row.Win {
			t.Fatalf("win flag changed by lane relabel: %+v", row)
		}
		if row.PlayerID == "nova-p3" && row.Lane != match.LaneExp {
			t.Fatalf("vexa's outcome not relabelled: %+v", row)
		}
	}
}

func TestLaneChangeService_Apply_UnknownPlayer(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newLaneChangeFixture()

	_, err := svc.Apply(context.Background(), "match-nova-001", LaneChange{
		PlayerName: "Stranger",
		OldLane:    "mid",
		NewLane:    "exp",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown player, got=%v", err)
	}
}

func TestLaneChangeService_Apply_InvalidLanes(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newLaneChangeFixture()
	ctx := context.Background()

	cases := []LaneChange{
		{PlayerName: "Quin", OldLane: "top", NewLane: "mid"},
		{PlayerName: "Quin", OldLane: "mid", NewLane: "bot"},
		{PlayerName: "Quin", OldLane: "mid", NewLane: "mid"},
	}
	for _, change := range cases {
		if _, err := svc.Apply(ctx, "match-nova-001", change); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("change %+v: expected ErrInvalidInput, got=%v", change, err)
		}
	}
}

func TestLaneChangeService_ApplyBulk_ItemsAreIndependent(t *testing.T) {
	t.Parallel()

	svc, stats, _, _ := newLaneChangeFixture()
	ctx := context.Background()

	if _, err := stats.ResyncMatch(ctx, "match-nova-001"); err != nil {
		t.Fatalf("seed resync error: %v", err)
	}

	result, err := svc.ApplyBulk(ctx, "match-nova-001", []LaneChange{
		{PlayerName: "Vexa", OldLane: "jungler", NewLane: "exp"},
		{PlayerName: "Stranger", OldLane: "mid", NewLane: "exp"},
		{PlayerName: "Quin", OldLane: "mid", NewLane: "jungler"},
	})
	if err != nil {
		t.Fatalf("ApplyBulk error: %v", err)
	}

	if result.AppliedCount != 2 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected a row per change, got=%d", len(result.Items))
	}
	if result.Items[1].Error == "" {
		t.Fatal("failing item must carry its error")
	}
	if result.Items[0].Error != "" || result.Items[2].Error != "" {
		t.Fatalf("good items must not fail: %+v", result.Items)
	}
}

func TestLaneChangeService_ApplyBulk_Empty(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newLaneChangeFixture()

	if _, err := svc.ApplyBulk(context.Background(), "match-nova-001", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
