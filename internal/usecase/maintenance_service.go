package usecase

import (
	"context"
	"fmt"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/team"
	"github.com/draftpad/scrimstats/internal/platform/logging"
)

// MaintenanceService runs the scheduled integrity sweep over every team. It
// is the entry point the internal jobs endpoint and the in-process scheduler
// both call.
type MaintenanceService struct {
	teamRepo  team.Repository
	integrity *IntegrityService
	logger    *logging.Logger
}

func NewMaintenanceService(teamRepo team.Repository, integrity *IntegrityService, logger *logging.Logger) *MaintenanceService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MaintenanceService{
		teamRepo:  teamRepo,
		integrity: integrity,
		logger:    logger,
	}
}

type AuditInput struct {
	// Repair switches the sweep from report-only to report-and-repair.
	Repair bool `json:"repair"`
}

type TeamAuditResult struct {
	TeamID          string     `json:"team_id"`
	TeamName        string     `json:"team_name"`
	MatchType       match.Type `json:"match_type"`
	IssueCount      int        `json:"issue_count"`
	MatchesRepaired int        `json:"matches_repaired"`
	RecordsCleaned  int        `json:"records_cleaned"`
	Summary         string     `json:"summary"`
	Error           string     `json:"error,omitempty"`
}

type AuditResult struct {
	TeamCount      int               `json:"team_count"`
	CleanCount     int               `json:"clean_count"`
	DirtyCount     int               `json:"dirty_count"`
	FailedCount    int               `json:"failed_count"`
	IssueCount     int               `json:"issue_count"`
	RecordsCleaned int               `json:"records_cleaned"`
	Teams          []TeamAuditResult `json:"teams"`
}

// RunAudit validates every team's derived statistics for both match types.
// One team failing is recorded in its row and the sweep moves on, so a bad
// team cannot shadow problems elsewhere.
func (s *MaintenanceService) RunAudit(ctx context.Context, input AuditInput) (AuditResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.RunAudit")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return AuditResult{}, fmt.Errorf("list teams: %w", err)
	}

	result := AuditResult{TeamCount: len(teams)}
	for _, owner := range teams {
		for _, matchType := range []match.Type{match.TypeScrim, match.TypeTournament} {
			row := s.auditTeam(ctx, owner, matchType, input.Repair)
			switch {
			case row.Error != "":
				result.FailedCount++
			case row.IssueCount == 0:
				result.CleanCount++
			default:
				result.DirtyCount++
			}
			result.IssueCount += row.IssueCount
			result.RecordsCleaned += row.RecordsCleaned
			result.Teams = append(result.Teams, row)
		}
	}

	s.logger.InfoContext(ctx, "integrity audit finished",
		"teams", result.TeamCount,
		"clean", result.CleanCount,
		"dirty", result.DirtyCount,
		"failed", result.FailedCount,
		"issues", result.IssueCount,
		"records_cleaned", result.RecordsCleaned,
	)
	return result, nil
}

func (s *MaintenanceService) auditTeam(ctx context.Context, owner team.Team, matchType match.Type, repair bool) TeamAuditResult {
	row := TeamAuditResult{
		TeamID:    owner.ID,
		TeamName:  owner.Name,
		MatchType: matchType,
	}

	if repair {
		cleanup, err := s.integrity.Cleanup(ctx, owner.ID, matchType)
		if err != nil {
			row.Error = err.Error()
			row.Summary = fmt.Sprintf("%s (%s): audit failed", owner.Name, matchType)
			s.logger.ErrorContext(ctx, "team audit failed", "team_id", owner.ID, "match_type", matchType, "error", err)
			return row
		}
		row.IssueCount = cleanup.IssueCount
		row.MatchesRepaired = cleanup.MatchesRepaired
		row.RecordsCleaned = cleanup.RecordsCleaned
		if cleanup.MatchesFailed > 0 {
			row.Error = fmt.Sprintf("%d match repair(s) failed", cleanup.MatchesFailed)
		}
		row.Summary = auditSummary(owner.Name, matchType, cleanup.IssueCount, cleanup.MatchesRepaired)
		return row
	}

	report, err := s.integrity.Validate(ctx, owner.ID, matchType)
	if err != nil {
		row.Error = err.Error()
		row.Summary = fmt.Sprintf("%s (%s): audit failed", owner.Name, matchType)
		s.logger.ErrorContext(ctx, "team audit failed", "team_id", owner.ID, "match_type", matchType, "error", err)
		return row
	}
	row.IssueCount = report.IssueCount
	row.Summary = auditSummary(owner.Name, matchType, report.IssueCount, 0)
	return row
}

func auditSummary(teamName string, matchType match.Type, issues, repaired int) string {
	if issues == 0 {
		return fmt.Sprintf("%s (%s): derived statistics consistent", teamName, matchType)
	}
	if repaired > 0 {
		return fmt.Sprintf("%s (%s): %d issue(s) found, %d match(es) repaired", teamName, matchType, issues, repaired)
	}
	return fmt.Sprintf("%s (%s): %d issue(s) found", teamName, matchType, issues)
}
