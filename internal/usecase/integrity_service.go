package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/domain/team"
	"github.com/draftpad/scrimstats/internal/platform/logging"
)

const (
	IssueMissingRecord    = "missing_record"
	IssueOrphanedRecord   = "orphaned_record"
	IssueCountMismatch    = "count_mismatch"
	IssueUnresolvedPlayer = "unresolved_player"
	IssueInvalidPick      = "invalid_pick"
)

type IntegrityService struct {
	teamRepo   team.Repository
	matchRepo  match.Repository
	rosterRepo roster.Repository
	statsRepo  herostats.Repository
	stats      *StatsService
	logger     *logging.Logger
}

func NewIntegrityService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	statsRepo herostats.Repository,
	stats *StatsService,
	logger *logging.Logger,
) *IntegrityService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &IntegrityService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		statsRepo:  statsRepo,
		stats:      stats,
		logger:     logger,
	}
}

type IntegrityIssue struct {
	Type      string     `json:"type"`
	Table     string     `json:"table"`
	MatchID   string     `json:"match_id"`
	Hero      string     `json:"hero"`
	EnemyHero string     `json:"enemy_hero,omitempty"`
	Lane      match.Lane `json:"lane"`
	Win       *bool      `json:"win,omitempty"`
	Expected  int        `json:"expected"`
	Actual    int        `json:"actual"`
}

type PlayerIntegrityReport struct {
	PlayerID   string           `json:"player_id"`
	PlayerName string           `json:"player_name"`
	Issues     []IntegrityIssue `json:"issues"`
}

type IntegrityReport struct {
	TeamID           string                  `json:"team_id"`
	MatchType        match.Type              `json:"match_type"`
	MatchCount       int                     `json:"match_count"`
	ExpectedOutcomes int                     `json:"expected_outcomes"`
	StoredOutcomes   int                     `json:"stored_outcomes"`
	ExpectedMatchups int                     `json:"expected_matchups"`
	StoredMatchups   int                     `json:"stored_matchups"`
	IssueCount       int                     `json:"issue_count"`
	Players          []PlayerIntegrityReport `json:"players"`
	AffectedMatchIDs []string                `json:"affected_match_ids"`
}

func (r IntegrityReport) Clean() bool {
	return r.IssueCount == 0
}

// The diff keys carry every projected field, Win included: a stored row
// holding a stale winner must not compare equal to the fresh projection, so
// winner drift shows up as a missing row plus an orphaned one.
type outcomeKey struct {
	playerID string
	matchID  string
	hero     string
	lane     match.Lane
	win      bool
}

type matchupKey struct {
	playerID  string
	matchID   string
	hero      string
	enemyHero string
	lane      match.Lane
	win       bool
}

// skippedPickKey identifies a structured pick the projector could not turn
// into records. Bare picks are not tracked here; they are the legacy shape
// and carry no data to recover.
type skippedPickKey struct {
	matchID    string
	playerName string
	hero       string
	lane       match.Lane
	reason     SkipReason
}

// Validate diffs the stored derived rows against a fresh projection of every
// match and reports the differences. It never writes; repair is Cleanup's
// job, and keeping the two apart means an audit can run safely at any time.
func (s *IntegrityService) Validate(ctx context.Context, teamID string, matchType match.Type) (IntegrityReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntegrityService.Validate")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return IntegrityReport{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	owner, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return IntegrityReport{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	matches, err := s.matchRepo.ListByTeam(ctx, teamID, matchType)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("list matches: %w", err)
	}
	players, err := s.rosterRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("list roster: %w", err)
	}
	storedOutcomes, err := s.statsRepo.ListOutcomesByTeam(ctx, teamID, matchType)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("list outcome records: %w", err)
	}
	storedMatchups, err := s.statsRepo.ListMatchupsByTeam(ctx, teamID, matchType)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("list matchup records: %w", err)
	}

	expectedOutcomes := make(map[outcomeKey]int)
	expectedMatchups := make(map[matchupKey]int)
	skippedPicks := make(map[skippedPickKey]int)
	expectedOutcomeTotal := 0
	expectedMatchupTotal := 0
	for _, item := range matches {
		proj := ProjectMatch(item, owner.Name, players)
		for _, row := range proj.Outcomes {
			expectedOutcomes[newOutcomeKey(row)]++
			expectedOutcomeTotal++
		}
		for _, row := range proj.Matchups {
			expectedMatchups[newMatchupKey(row)]++
			expectedMatchupTotal++
		}
		for _, skip := range proj.Skipped {
			if skip.Reason == SkipBarePick {
				continue
			}
			skippedPicks[skippedPickKey{
				matchID:    item.ID,
				playerName: skip.PlayerName,
				hero:       skip.Hero,
				lane:       skip.Lane,
				reason:     skip.Reason,
			}]++
		}
	}

	actualOutcomes := make(map[outcomeKey]int, len(storedOutcomes))
	for _, row := range storedOutcomes {
		actualOutcomes[newOutcomeKey(row)]++
	}
	actualMatchups := make(map[matchupKey]int, len(storedMatchups))
	for _, row := range storedMatchups {
		actualMatchups[newMatchupKey(row)]++
	}

	byPlayer := make(map[string][]IntegrityIssue)
	affected := make(map[string]struct{})
	issueCount := 0

	record := func(playerID string, issue IntegrityIssue) {
		byPlayer[playerID] = append(byPlayer[playerID], issue)
		affected[issue.MatchID] = struct{}{}
		issueCount++
	}

	for key, want := range expectedOutcomes {
		got := actualOutcomes[key]
		if got == want {
			continue
		}
		record(key.playerID, IntegrityIssue{
			Type:     outcomeIssueType(want, got),
			Table:    "hero_outcomes",
			MatchID:  key.matchID,
			Hero:     key.hero,
			Lane:     key.lane,
			Win:      &key.win,
			Expected: want,
			Actual:   got,
		})
	}
	for key, got := range actualOutcomes {
		if _, ok := expectedOutcomes[key]; ok {
			continue
		}
		record(key.playerID, IntegrityIssue{
			Type:     IssueOrphanedRecord,
			Table:    "hero_outcomes",
			MatchID:  key.matchID,
			Hero:     key.hero,
			Lane:     key.lane,
			Win:      &key.win,
			Expected: 0,
			Actual:   got,
		})
	}

	for key, want := range expectedMatchups {
		got := actualMatchups[key]
		if got == want {
			continue
		}
		record(key.playerID, IntegrityIssue{
			Type:      outcomeIssueType(want, got),
			Table:     "hero_matchups",
			MatchID:   key.matchID,
			Hero:      key.hero,
			EnemyHero: key.enemyHero,
			Lane:      key.lane,
			Win:       &key.win,
			Expected:  want,
			Actual:    got,
		})
	}
	for key, got := range actualMatchups {
		if _, ok := expectedMatchups[key]; ok {
			continue
		}
		record(key.playerID, IntegrityIssue{
			Type:      IssueOrphanedRecord,
			Table:     "hero_matchups",
			MatchID:   key.matchID,
			Hero:      key.hero,
			EnemyHero: key.enemyHero,
			Lane:      key.lane,
			Win:       &key.win,
			Expected:  0,
			Actual:    got,
		})
	}

	// A skipped pick never lands in AffectedMatchIDs: resync cannot repair a
	// pick the roster does not resolve, only an edit to the match or roster
	// can. It is still an issue the audit must show.
	byName := make(map[string][]IntegrityIssue)
	for key, count := range skippedPicks {
		issueType := IssueUnresolvedPlayer
		if key.reason == SkipInvalidLane {
			issueType = IssueInvalidPick
		}
		byName[key.playerName] = append(byName[key.playerName], IntegrityIssue{
			Type:     issueType,
			Table:    "match_sides",
			MatchID:  key.matchID,
			Hero:     key.hero,
			Lane:     key.lane,
			Expected: count,
			Actual:   0,
		})
		issueCount++
	}

	report := IntegrityReport{
		TeamID:           teamID,
		MatchType:        matchType,
		MatchCount:       len(matches),
		ExpectedOutcomes: expectedOutcomeTotal,
		StoredOutcomes:   len(storedOutcomes),
		ExpectedMatchups: expectedMatchupTotal,
		StoredMatchups:   len(storedMatchups),
		IssueCount:       issueCount,
	}

	names := playerNameIndex(players)
	for playerID, issues := range byPlayer {
		sort.Slice(issues, func(i, j int) bool {
			if issues[i].MatchID != issues[j].MatchID {
				return issues[i].MatchID < issues[j].MatchID
			}
			if issues[i].Table != issues[j].Table {
				return issues[i].Table < issues[j].Table
			}
			return issues[i].Hero < issues[j].Hero
		})
		report.Players = append(report.Players, PlayerIntegrityReport{
			PlayerID:   playerID,
			PlayerName: names[playerID],
			Issues:     issues,
		})
	}
	for playerName, issues := range byName {
		sort.Slice(issues, func(i, j int) bool {
			if issues[i].MatchID != issues[j].MatchID {
				return issues[i].MatchID < issues[j].MatchID
			}
			return issues[i].Hero < issues[j].Hero
		})
		report.Players = append(report.Players, PlayerIntegrityReport{
			PlayerName: playerName,
			Issues:     issues,
		})
	}
	sort.Slice(report.Players, func(i, j int) bool {
		if report.Players[i].PlayerID != report.Players[j].PlayerID {
			return report.Players[i].PlayerID < report.Players[j].PlayerID
		}
		return report.Players[i].PlayerName < report.Players[j].PlayerName
	})

	report.AffectedMatchIDs = make([]string, 0, len(affected))
	for matchID := range affected {
		report.AffectedMatchIDs = append(report.AffectedMatchIDs, matchID)
	}
	sort.Strings(report.AffectedMatchIDs)

	return report, nil
}

type CleanupResult struct {
	TeamID          string              `json:"team_id"`
	MatchType       match.Type          `json:"match_type"`
	IssueCount      int                 `json:"issue_count"`
	MatchesRepaired int                 `json:"matches_repaired"`
	MatchesFailed   int                 `json:"matches_failed"`
	RecordsCleaned  int                 `json:"records_cleaned"`
	Repairs         []ResyncMatchResult `json:"repairs,omitempty"`
	Failures        []RepairFailure     `json:"failures,omitempty"`
}

type RepairFailure struct {
	MatchID string `json:"match_id"`
	Message string `json:"message"`
}

// Cleanup validates and then repairs only the matches the report flags.
// Repair is a per-match resync, which is why an affected match is the unit
// of cleanup rather than individual rows. A repair failing is recorded in
// its Failures row and the loop moves on to the remaining matches.
func (s *IntegrityService) Cleanup(ctx context.Context, teamID string, matchType match.Type) (CleanupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntegrityService.Cleanup")
	defer span.End()

	report, err := s.Validate(ctx, teamID, matchType)
	if err != nil {
		return CleanupResult{}, err
	}

	result := CleanupResult{
		TeamID:     report.TeamID,
		MatchType:  report.MatchType,
		IssueCount: report.IssueCount,
	}
	if report.Clean() {
		return result, nil
	}

	for _, matchID := range report.AffectedMatchIDs {
		repair, err := s.stats.ResyncMatch(ctx, matchID)
		if err != nil {
			result.MatchesFailed++
			result.Failures = append(result.Failures, RepairFailure{
				MatchID: matchID,
				Message: err.Error(),
			})
			s.logger.ErrorContext(ctx, "integrity repair failed",
				"team_id", teamID,
				"match_id", matchID,
				"error", err,
			)
			continue
		}
		result.MatchesRepaired++
		result.RecordsCleaned += repair.RecordsDeleted
		result.Repairs = append(result.Repairs, repair)
		s.logger.InfoContext(ctx, "integrity repair applied",
			"team_id", teamID,
			"match_id", matchID,
			"records_deleted", repair.RecordsDeleted,
			"records_written", repair.Outcomes+repair.Matchups,
		)
	}
	return result, nil
}

func newOutcomeKey(row herostats.OutcomeRecord) outcomeKey {
	return outcomeKey{
		playerID: row.PlayerID,
		matchID:  row.MatchID,
		hero:     strings.ToLower(row.Hero),
		lane:     row.Lane,
		win:      row.Win,
	}
}

func newMatchupKey(row herostats.MatchupRecord) matchupKey {
	return matchupKey{
		playerID:  row.PlayerID,
		matchID:   row.MatchID,
		hero:      strings.ToLower(row.Hero),
		enemyHero: strings.ToLower(row.EnemyHero),
		lane:      row.Lane,
		win:       row.Win,
	}
}

func outcomeIssueType(want, got int) string {
	if got == 0 {
		return IssueMissingRecord
	}
	return IssueCountMismatch
}

func playerNameIndex(players []roster.Player) map[string]string {
	out := make(map[string]string, len(players))
	for _, p := range players {
		out[p.ID] = p.Name
	}
	return out
}
