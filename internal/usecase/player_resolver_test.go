package usecase

import (
	"testing"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
)

func TestResolvePlayer_NameBeatsRole(t *testing.T) {
	t.Parallel()

	players := []roster.Player{
		{ID: "p1", Name: "Haze", Role: match.LaneExp},
		{ID: "p2", Name: "Quin", Role: match.LaneMid},
	}

	// Haze drafted into mid: the name hit wins over p2's mid role.
	found, ok := ResolvePlayer(players, "haze", match.LaneMid)
	if !ok {
		t.Fatal("expected a resolution")
	}
	if found.ID != "p1" {
		t.Fatalf("name match should win, got=%s", found.ID)
	}
}

func TestResolvePlayer_RoleFallback(t *testing.T) {
	t.Parallel()

	players := []roster.Player{
		{ID: "p1", Name: "Haze", Role: match.LaneExp},
		{ID: "p2", Name: "Quin", Role: match.LaneMid},
	}

	found, ok := ResolvePlayer(players, "", match.LaneMid)
	if !ok || found.ID != "p2" {
		t.Fatalf("expected role fallback to p2, got ok=%t id=%s", ok, found.ID)
	}

	// Unknown name also falls through to the role.
	found, ok = ResolvePlayer(players, "Stranger", match.LaneMid)
	if !ok || found.ID != "p2" {
		t.Fatalf("expected role fallback to p2, got ok=%t id=%s", ok, found.ID)
	}
}

func TestResolvePlayer_LowestIDWinsTies(t *testing.T) {
	t.Parallel()

	players := []roster.Player{
		{ID: "p9", Name: "Echo", Role: match.LaneJungler},
		{ID: "p3", Name: "Vexa", Role: match.LaneJungler},
	}

	found, ok := ResolvePlayer(players, "", match.LaneJungler)
	if !ok || found.ID != "p3" {
		t.Fatalf("expected lowest id p3, got ok=%t id=%s", ok, found.ID)
	}
}

func TestResolvePlayer_UnknownLaneResolvesNothing(t *testing.T) {
	t.Parallel()

	players := []roster.Player{{ID: "p1", Name: "Haze", Role: match.LaneExp}}
	if _, ok := ResolvePlayer(players, "", match.LaneUnknown); ok {
		t.Fatal("unknown lane must not resolve a player")
	}
}

func TestFindPlayerByName_NoRoleFallback(t *testing.T) {
	t.Parallel()

	players := []roster.Player{
		{ID: "p1", Name: "Haze", Role: match.LaneExp},
		{ID: "p2", Name: "Quin", Role: match.LaneMid},
	}

	found, ok := FindPlayerByName(players, "QUIN")
	if !ok || found.ID != "p2" {
		t.Fatalf("expected case-insensitive name hit, got ok=%t id=%s", ok, found.ID)
	}

	if _, ok := FindPlayerByName(players, "Stranger"); ok {
		t.Fatal("unknown name must not resolve")
	}
	if _, ok := FindPlayerByName(players, "  "); ok {
		t.Fatal("blank name must not resolve")
	}
}
