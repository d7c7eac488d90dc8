package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/infrastructure/repository/memory"
	"github.com/draftpad/scrimstats/internal/platform/id"
)

func newStatsFixture() (*StatsService, *memory.HeroStatsRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	statsRepo := memory.NewHeroStatsRepository(matchRepo)
	svc := NewStatsService(
		memory.NewTeamRepository(memory.SeedTeams()),
		matchRepo,
		memory.NewRosterRepository(memory.SeedPlayers()),
		statsRepo,
		id.NewRandomGenerator(),
		nil,
	)
	return svc, statsRepo
}

func TestStatsService_ResyncMatch(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()
	ctx := context.Background()

	result, err := svc.ResyncMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("ResyncMatch error: %v", err)
	}
	if result.Outcomes != 5 {
		t.Fatalf("expected 5 outcomes, got=%d", result.Outcomes)
	}
	if result.Matchups != 5 {
		t.Fatalf("expected 5 matchups, got=%d", result.Matchups)
	}
	if result.RecordsDeleted != 0 {
		t.Fatalf("first resync should delete nothing, got=%d", result.RecordsDeleted)
	}
	if result.NoTeamSide {
		t.Fatal("owning side is present in the seed match")
	}
}

func TestStatsService_ResyncMatch_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()
	ctx := context.Background()

	first, err := svc.ResyncMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("first resync error: %v", err)
	}
	second, err := svc.ResyncMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("second resync error: %v", err)
	}

	if second.RecordsDeleted != first.Outcomes+first.Matchups {
		t.Fatalf("second resync should replace exactly the first run's rows, deleted=%d", second.RecordsDeleted)
	}
	if second.Outcomes != first.Outcomes || second.Matchups != first.Matchups {
		t.Fatalf("resync is not idempotent: first=%+v second=%+v", first, second)
	}
}

func TestStatsService_ResyncMatch_BareOnlyMatchYieldsNoRecords(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()

	result, err := svc.ResyncMatch(context.Background(), "match-nova-legacy")
	if err != nil {
		t.Fatalf("ResyncMatch error: %v", err)
	}
	if result.Outcomes != 0 || result.Matchups != 0 {
		t.Fatalf("bare-pick match must yield no records: %+v", result)
	}
	if result.SkippedPicks != 5 {
		t.Fatalf("expected 5 skipped picks, got=%d", result.SkippedPicks)
	}
}

func TestStatsService_ResyncMatch_Unknown(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()

	if _, err := svc.ResyncMatch(context.Background(), "no-such-match"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
	if _, err := svc.ResyncMatch(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestStatsService_ResyncAll(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()
	ctx := context.Background()

	result, err := svc.ResyncAll(ctx, ResyncAllInput{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}

	if result.MatchCount != 3 {
		t.Fatalf("expected 3 matches, got=%d", result.MatchCount)
	}
	if result.SuccessCount != 3 || result.FailedCount != 0 || result.SkippedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("expected 2 workers, got=%d", result.WorkerCount)
	}
	if result.RecordCount != 20 {
		t.Fatalf("expected 20 derived records across the seed, got=%d", result.RecordCount)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("expected a task row per match, got=%d", len(result.Tasks))
	}
	for i := 1; i < len(result.Tasks); i++ {
		prev, cur := result.Tasks[i-1], result.Tasks[i]
		if prev.TeamID > cur.TeamID || (prev.TeamID == cur.TeamID && prev.MatchID > cur.MatchID) {
			t.Fatalf("tasks are not ordered: %+v", result.Tasks)
		}
	}
}

func TestNormalizeResyncWorkerCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value, tasks, want int
	}{
		{0, 10, 1},
		{-3, 10, 1},
		{2, 10, 2},
		{99, 10, resyncMaxWorkers},
		{4, 2, 2},
		{4, 0, 1},
	}
	for _, tc := range cases {
		if got := normalizeResyncWorkerCount(tc.value, tc.tasks); got != tc.want {
			t.Fatalf("normalizeResyncWorkerCount(%d, %d)=%d want=%d", tc.value, tc.tasks, got, tc.want)
		}
	}
}

func TestStatsService_HeroSummaries(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()
	ctx := context.Background()

	if _, err := svc.ResyncAll(ctx, ResyncAllInput{}); err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}

	summaries, err := svc.HeroSummaries(ctx, memory.TeamIDNovaEsports, match.TypeScrim, "")
	if err != nil {
		t.Fatalf("HeroSummaries error: %v", err)
	}
	if len(summaries) != 9 {
		t.Fatalf("expected 9 distinct heroes, got=%d", len(summaries))
	}

	// Lunox was drafted in both scrim matches, once winning and once losing.
	top := summaries[0]
	if top.Hero != "Lunox" {
		t.Fatalf("expected Lunox on top by total, got=%s", top.Hero)
	}
	if top.Total != 2 || top.Win != 1 || top.Lose != 1 || top.Winrate != 50 {
		t.Fatalf("unexpected Lunox summary: %+v", top)
	}

	// Single-match heroes keep first-encounter order across the tie.
	wantOrder := []string{"Lancelot", "Thamuz", "Claude", "Tigreal", "Barats", "Brody", "Atlas", "Paquito"}
	for i, hero := range wantOrder {
		if summaries[i+1].Hero != hero {
			t.Fatalf("position %d: want %s, got %s", i+1, hero, summaries[i+1].Hero)
		}
	}
}

func TestStatsService_HeroSummaries_PlayerFilter(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()
	ctx := context.Background()

	if _, err := svc.ResyncAll(ctx, ResyncAllInput{}); err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}

	summaries, err := svc.HeroSummaries(ctx, memory.TeamIDNovaEsports, match.TypeScrim, "nova-p2")
	if err != nil {
		t.Fatalf("HeroSummaries error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Hero != "Lunox" || summaries[0].Total != 2 {
		t.Fatalf("expected only Quin's Lunox rows, got=%+v", summaries)
	}
}

func TestStatsService_MatchupSummaries(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()
	ctx := context.Background()

	if _, err := svc.ResyncAll(ctx, ResyncAllInput{}); err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}

	summaries, err := svc.MatchupSummaries(ctx, memory.TeamIDNovaEsports, match.TypeScrim, "")
	if err != nil {
		t.Fatalf("MatchupSummaries error: %v", err)
	}
	if len(summaries) != 10 {
		t.Fatalf("expected 10 distinct matchups, got=%d", len(summaries))
	}
	first := summaries[0]
	if first.Hero != "Lancelot" || first.EnemyHero != "Hayabusa" {
		t.Fatalf("unexpected leading matchup: %+v", first)
	}
	if first.Total != 1 || first.Winrate != 100 {
		t.Fatalf("unexpected matchup totals: %+v", first)
	}
}

func TestStatsService_Summaries_UnknownTeam(t *testing.T) {
	t.Parallel()

	svc, _ := newStatsFixture()

	if _, err := svc.HeroSummaries(context.Background(), "no-such-team", match.TypeScrim, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

func TestSummarizeOutcomes_WinrateRounding(t *testing.T) {
	t.Parallel()

	rows := []herostats.OutcomeRecord{
		{PlayerID: "p1", MatchID: "m1", TeamID: "t1", Hero: "Lunox", Lane: match.LaneMid, Win: true},
		{PlayerID: "p1", MatchID: "m2", TeamID: "t1", Hero: "lunox", Lane: match.LaneMid, Win: false},
		{PlayerID: "p1", MatchID: "m3", TeamID: "t1", Hero: "LUNOX", Lane: match.LaneMid, Win: false},
	}

	summaries := SummarizeOutcomes(rows)
	if len(summaries) != 1 {
		t.Fatalf("hero grouping must be case-insensitive, got=%d groups", len(summaries))
	}
	if summaries[0].Hero != "Lunox" {
		t.Fatalf("group should keep the first-seen spelling, got=%s", summaries[0].Hero)
	}
	if summaries[0].Winrate != 33 {
		t.Fatalf("1 win of 3 should round to 33, got=%d", summaries[0].Winrate)
	}
}
