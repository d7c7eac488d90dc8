package usecase

import (
	"context"
	"testing"

	"github.com/draftpad/scrimstats/internal/infrastructure/repository/memory"
	"github.com/draftpad/scrimstats/internal/platform/id"
)

func newMaintenanceFixture() (*MaintenanceService, *StatsService, *memory.HeroStatsRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	statsRepo := memory.NewHeroStatsRepository(matchRepo)
	rosterRepo := memory.NewRosterRepository(memory.SeedPlayers())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	stats := NewStatsService(teamRepo, matchRepo, rosterRepo, statsRepo, id.NewRandomGenerator(), nil)
	integrity := NewIntegrityService(teamRepo, matchRepo, rosterRepo, statsRepo, stats, nil)
	svc := NewMaintenanceService(teamRepo, integrity, nil)
	return svc, stats, statsRepo
}

func TestMaintenanceService_RunAudit_CleanSweep(t *testing.T) {
	t.Parallel()

	svc, stats, _ := newMaintenanceFixture()
	ctx := context.Background()

	if _, err := stats.ResyncAll(ctx, ResyncAllInput{}); err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}

	result, err := svc.RunAudit(ctx, AuditInput{})
	if err != nil {
		t.Fatalf("RunAudit error: %v", err)
	}

	// Two teams audited for both match types.
	if result.TeamCount != 4 {
		t.Fatalf("expected 4 audit rows, got=%d", result.TeamCount)
	}
	if result.CleanCount != 4 || result.DirtyCount != 0 || result.FailedCount != 0 {
		t.Fatalf("unexpected sweep counts: %+v", result)
	}
	if result.IssueCount != 0 {
		t.Fatalf("clean sweep must find no issues, got=%d", result.IssueCount)
	}
}

func TestMaintenanceService_RunAudit_ReportOnlyLeavesDataAlone(t *testing.T) {
	t.Parallel()

	svc, stats, statsRepo := newMaintenanceFixture()
	ctx := context.Background()

	if _, err := stats.ResyncAll(ctx, ResyncAllInput{}); err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}
	if _, err := statsRepo.ReplaceMatchRecords(ctx, "match-nova-001", nil, nil); err != nil {
		t.Fatalf("tamper error: %v", err)
	}

	result, err := svc.RunAudit(ctx, AuditInput{Repair: false})
	if err != nil {
		t.Fatalf("RunAudit error: %v", err)
	}
	if result.DirtyCount != 1 {
		t.Fatalf("expected 1 dirty team row, got=%d", result.DirtyCount)
	}
	if result.IssueCount != 10 {
		t.Fatalf("expected 10 issues reported, got=%d", result.IssueCount)
	}
	if result.RecordsCleaned != 0 {
		t.Fatalf("report-only sweep must not repair, got=%d", result.RecordsCleaned)
	}

	// The data is still broken afterwards.
	rows, err := statsRepo.ListOutcomesByMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("report-only audit wrote records: %d", len(rows))
	}
}

func TestMaintenanceService_RunAudit_Repair(t *testing.T) {
	t.Parallel()

	svc, stats, statsRepo := newMaintenanceFixture()
	ctx := context.Background()

	if _, err := stats.ResyncAll(ctx, ResyncAllInput{}); err != nil {
		t.Fatalf("ResyncAll error: %v", err)
	}
	if _, err := statsRepo.ReplaceMatchRecords(ctx, "match-nova-001", nil, nil); err != nil {
		t.Fatalf("tamper error: %v", err)
	}

	result, err := svc.RunAudit(ctx, AuditInput{Repair: true})
	if err != nil {
		t.Fatalf("RunAudit error: %v", err)
	}
	if result.DirtyCount != 1 {
		t.Fatalf("expected 1 dirty team row, got=%d", result.DirtyCount)
	}

	rows, err := statsRepo.ListOutcomesByMatch(ctx, "match-nova-001")
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("repair should restore the 5 outcomes, got=%d", len(rows))
	}

	// A second sweep comes back clean.
	again, err := svc.RunAudit(ctx, AuditInput{})
	if err != nil {
		t.Fatalf("second RunAudit error: %v", err)
	}
	if again.DirtyCount != 0 || again.IssueCount != 0 {
		t.Fatalf("repair did not restore integrity: %+v", again)
	}
}
