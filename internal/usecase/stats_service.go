package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/team"

	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/platform/id"
	"github.com/draftpad/scrimstats/internal/platform/logging"
)

const (
	resyncStatusSuccess = "success"
	resyncStatusFailed  = "failed"
	resyncStatusSkipped = "skipped"

	resyncMaxWorkers = 4
)

type StatsService struct {
	teamRepo   team.Repository
	matchRepo  match.Repository
	rosterRepo roster.Repository
	statsRepo  herostats.Repository
	idGen      id.Generator
	logger     *logging.Logger
}

func NewStatsService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	statsRepo herostats.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StatsService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		statsRepo:  statsRepo,
		idGen:      idGen,
		logger:     logger,
	}
}

type ResyncMatchResult struct {
	MatchID        string `json:"match_id"`
	RecordsDeleted int    `json:"records_deleted"`
	Outcomes       int    `json:"outcomes"`
	Matchups       int    `json:"matchups"`
	SkippedPicks   int    `json:"skipped_picks"`
	NoTeamSide     bool   `json:"no_team_side,omitempty"`
}

// ResyncMatch deletes the match's derived rows and persists a fresh
// projection, as one transactional unit. It is the single entry point for
// every edit that invalidates derived data for one match.
func (s *StatsService) ResyncMatch(ctx context.Context, matchID string) (ResyncMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ResyncMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ResyncMatchResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ResyncMatchResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return ResyncMatchResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return s.resyncLoadedMatch(ctx, item)
}

func (s *StatsService) resyncLoadedMatch(ctx context.Context, item match.Match) (ResyncMatchResult, error) {
	owner, exists, err := s.teamRepo.GetByID(ctx, item.TeamID)
	if err != nil {
		return ResyncMatchResult{}, fmt.Errorf("get owning team: %w", err)
	}
	if !exists {
		return ResyncMatchResult{}, fmt.Errorf("%w: team=%s", ErrNotFound, item.TeamID)
	}

	players, err := s.rosterRepo.ListByTeam(ctx, item.TeamID)
	if err != nil {
		return ResyncMatchResult{}, fmt.Errorf("list roster: %w", err)
	}

	proj := ProjectMatch(item, owner.Name, players)
	for _, skip := range proj.Skipped {
		s.logger.WarnContext(ctx, "pick excluded from statistics",
			"match_id", item.ID,
			"hero", skip.Hero,
			"lane", skip.Lane,
			"player_name", skip.PlayerName,
			"reason", skip.Reason,
		)
	}
	if proj.NoTeamSide {
		s.logger.InfoContext(ctx, "no side matches owning team name, match skipped",
			"match_id", item.ID,
			"team", owner.Name,
		)
	}

	outcomes, matchups, err := s.assignRecordIDs(proj)
	if err != nil {
		return ResyncMatchResult{}, err
	}

	deleted, err := s.statsRepo.ReplaceMatchRecords(ctx, item.ID, outcomes, matchups)
	if err != nil {
		return ResyncMatchResult{}, fmt.Errorf("replace match records match=%s: %w", item.ID, err)
	}

	return ResyncMatchResult{
		MatchID:        item.ID,
		RecordsDeleted: deleted,
		Outcomes:       len(outcomes),
		Matchups:       len(matchups),
		SkippedPicks:   len(proj.Skipped),
		NoTeamSide:     proj.NoTeamSide,
	}, nil
}

func (s *StatsService) assignRecordIDs(proj Projection) ([]herostats.OutcomeRecord, []herostats.MatchupRecord, error) {
	outcomes := make([]herostats.OutcomeRecord, 0, len(proj.Outcomes))
	for _, row := range proj.Outcomes {
		newID, err := s.idGen.NewID()
		if err != nil {
			return nil, nil, fmt.Errorf("generate outcome record id: %w", err)
		}
		row.ID = newID
		if err := row.Validate(); err != nil {
			return nil, nil, fmt.Errorf("validate outcome record match=%s player=%s: %w", row.MatchID, row.PlayerID, err)
		}
		outcomes = append(outcomes, row)
	}

	matchups := make([]herostats.MatchupRecord, 0, len(proj.Matchups))
	for _, row := range proj.Matchups {
		newID, err := s.idGen.NewID()
		if err != nil {
			return nil, nil, fmt.Errorf("generate matchup record id: %w", err)
		}
		row.ID = newID
		if err := row.Validate(); err != nil {
			return nil, nil, fmt.Errorf("validate matchup record match=%s player=%s: %w", row.MatchID, row.PlayerID, err)
		}
		matchups = append(matchups, row)
	}

	return outcomes, matchups, nil
}

type ResyncAllInput struct {
	MaxWorkers int
}

type ResyncAllResult struct {
	MatchCount   int                `json:"match_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	SkippedCount int                `json:"skipped_count"`
	WorkerCount  int                `json:"worker_count"`
	RecordCount  int                `json:"record_count"`
	Tasks        []ResyncTaskResult `json:"tasks"`
}

type ResyncTaskResult struct {
	MatchID    string `json:"match_id"`
	TeamID     string `json:"team_id"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// ResyncAll clears both derived tables and rebuilds them from every stored
// match. Each match's projection-and-persist is its own unit: a failure on
// one match is reported in its task row and does not abort the rest.
func (s *StatsService) ResyncAll(ctx context.Context, input ResyncAllInput) (ResyncAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ResyncAll")
	defer span.End()

	matches, err := s.matchRepo.ListAll(ctx)
	if err != nil {
		return ResyncAllResult{}, fmt.Errorf("list matches: %w", err)
	}

	cleared, err := s.statsRepo.DeleteAllRecords(ctx)
	if err != nil {
		return ResyncAllResult{}, fmt.Errorf("clear derived records: %w", err)
	}
	s.logger.InfoContext(ctx, "derived statistics cleared", "records", cleared, "matches", len(matches))

	workerCount := normalizeResyncWorkerCount(input.MaxWorkers, len(matches))
	result := ResyncAllResult{
		MatchCount:  len(matches),
		WorkerCount: workerCount,
		Tasks:       make([]ResyncTaskResult, 0, len(matches)),
	}
	if len(matches) == 0 {
		return result, nil
	}

	results := make(chan ResyncTaskResult, len(matches))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32
	var recordCount atomic.Int64

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ResyncAllResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range matches {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ResyncTaskResult{
				MatchID: item.ID,
				TeamID:  item.TeamID,
			}

			taskResult, taskErr := s.resyncLoadedMatch(ctx, item)
			switch {
			case taskErr != nil:
				row.Status = resyncStatusFailed
				row.Message = taskErr.Error()
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "match resync failed", "match_id", item.ID, "error", taskErr)
			case taskResult.NoTeamSide:
				row.Status = resyncStatusSkipped
				row.Message = "no side matches owning team name"
				skippedCount.Add(1)
			default:
				row.Status = resyncStatusSuccess
				row.Records = taskResult.Outcomes + taskResult.Matchups
				successCount.Add(1)
				recordCount.Add(int64(row.Records))
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return ResyncAllResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].TeamID != result.Tasks[j].TeamID {
			return result.Tasks[i].TeamID < result.Tasks[j].TeamID
		}
		return result.Tasks[i].MatchID < result.Tasks[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.RecordCount = int(recordCount.Load())
	return result, nil
}

func normalizeResyncWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > resyncMaxWorkers {
		value = resyncMaxWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

// HeroSummaries aggregates hero outcomes for a team, optionally narrowed to
// one player. Order follows total descending; ties keep the order heroes
// were first encountered in, which the repository makes deterministic.
func (s *StatsService) HeroSummaries(ctx context.Context, teamID string, matchType match.Type, playerID string) ([]herostats.HeroSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.HeroSummaries")
	defer span.End()

	if err := s.ensureTeam(ctx, teamID); err != nil {
		return nil, err
	}

	rows, err := s.statsRepo.ListOutcomesByTeam(ctx, teamID, matchType)
	if err != nil {
		return nil, fmt.Errorf("list outcome records: %w", err)
	}

	playerID = strings.TrimSpace(playerID)
	filtered := rows[:0:0]
	for _, row := range rows {
		if playerID != "" && row.PlayerID != playerID {
			continue
		}
		filtered = append(filtered, row)
	}

	return SummarizeOutcomes(filtered), nil
}

// MatchupSummaries aggregates same-lane head-to-head rows, sorted like
// HeroSummaries.
func (s *StatsService) MatchupSummaries(ctx context.Context, teamID string, matchType match.Type, playerID string) ([]herostats.MatchupSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.MatchupSummaries")
	defer span.End()

	if err := s.ensureTeam(ctx, teamID); err != nil {
		return nil, err
	}

	rows, err := s.statsRepo.ListMatchupsByTeam(ctx, teamID, matchType)
	if err != nil {
		return nil, fmt.Errorf("list matchup records: %w", err)
	}

	playerID = strings.TrimSpace(playerID)
	filtered := rows[:0:0]
	for _, row := range rows {
		if playerID != "" && row.PlayerID != playerID {
			continue
		}
		filtered = append(filtered, row)
	}

	return SummarizeMatchups(filtered), nil
}

func (s *StatsService) ensureTeam(ctx context.Context, teamID string) error {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return nil
}

// SummarizeOutcomes folds outcome rows into per-hero win/lose totals.
func SummarizeOutcomes(rows []herostats.OutcomeRecord) []herostats.HeroSummary {
	index := make(map[string]int, len(rows))
	out := make([]herostats.HeroSummary, 0, len(rows))
	for _, row := range rows {
		key := strings.ToLower(row.Hero)
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, herostats.HeroSummary{Hero: row.Hero})
		}
		if row.Win {
			out[pos].Win++
		} else {
			out[pos].Lose++
		}
		out[pos].Total++
	}
	for i := range out {
		out[i].Winrate = winratePct(out[i].Win, out[i].Total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// SummarizeMatchups folds matchup rows into per-(hero, enemy hero) totals.
func SummarizeMatchups(rows []herostats.MatchupRecord) []herostats.MatchupSummary {
	index := make(map[string]int, len(rows))
	out := make([]herostats.MatchupSummary, 0, len(rows))
	for _, row := range rows {
		key := strings.ToLower(row.Hero) + "|" + strings.ToLower(row.EnemyHero)
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, herostats.MatchupSummary{Hero: row.Hero, EnemyHero: row.EnemyHero})
		}
		if row.Win {
			out[pos].Win++
		} else {
			out[pos].Lose++
		}
		out[pos].Total++
	}
	for i := range out {
		out[i].Winrate = winratePct(out[i].Win, out[i].Total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

func winratePct(win, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(win) / float64(total) * 100))
}
