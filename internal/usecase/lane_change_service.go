package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/platform/logging"
)

type LaneChangeService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	statsRepo  herostats.Repository
	stats      *StatsService
	logger     *logging.Logger
}

func NewLaneChangeService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	statsRepo herostats.Repository,
	stats *StatsService,
	logger *logging.Logger,
) *LaneChangeService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LaneChangeService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		statsRepo:  statsRepo,
		stats:      stats,
		logger:     logger,
	}
}

type LaneChange struct {
	PlayerName string `json:"player_name" validate:"required"`
	OldLane    string `json:"old_lane" validate:"required"`
	NewLane    string `json:"new_lane" validate:"required"`
}

type LaneChangeResult struct {
	MatchID        string            `json:"match_id"`
	PlayerID       string            `json:"player_id"`
	PlayerName     string            `json:"player_name"`
	OldLane        match.Lane        `json:"old_lane"`
	NewLane        match.Lane        `json:"new_lane"`
	RowsRelabelled int               `json:"rows_relabelled"`
	Resync         ResyncMatchResult `json:"resync"`
}

// Apply relabels a player's lane on one match. Derived rows for the player
// are updated in place first, keeping win/loss counts untouched, then the
// whole match is resynced so the stored pick data and every other derived
// row end up consistent with the new lane.
func (s *LaneChangeService) Apply(ctx context.Context, matchID string, change LaneChange) (LaneChangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LaneChangeService.Apply")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return LaneChangeResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	oldLane := match.ParseLane(change.OldLane)
	if oldLane == match.LaneUnknown {
		return LaneChangeResult{}, fmt.Errorf("%w: unknown old lane %q", ErrInvalidInput, change.OldLane)
	}
	newLane := match.ParseLane(change.NewLane)
	if newLane == match.LaneUnknown {
		return LaneChangeResult{}, fmt.Errorf("%w: unknown new lane %q", ErrInvalidInput, change.NewLane)
	}
	if oldLane == newLane {
		return LaneChangeResult{}, fmt.Errorf("%w: old and new lane are both %q", ErrInvalidInput, oldLane)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return LaneChangeResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return LaneChangeResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	players, err := s.rosterRepo.ListByTeam(ctx, item.TeamID)
	if err != nil {
		return LaneChangeResult{}, fmt.Errorf("list roster: %w", err)
	}
	player, ok := FindPlayerByName(players, change.PlayerName)
	if !ok {
		return LaneChangeResult{}, fmt.Errorf("%w: player %q is not on team %s", ErrNotFound, change.PlayerName, item.TeamID)
	}

	if changed := relabelPickLanes(&item, player, oldLane, newLane); changed > 0 {
		if err := s.matchRepo.Update(ctx, item); err != nil {
			return LaneChangeResult{}, fmt.Errorf("update match picks: %w", err)
		}
	}

	relabelled, err := s.statsRepo.RelabelLane(ctx, matchID, player.ID, oldLane, newLane)
	if err != nil {
		return LaneChangeResult{}, fmt.Errorf("relabel derived rows: %w", err)
	}
	s.logger.InfoContext(ctx, "lane relabelled",
		"match_id", matchID,
		"player_id", player.ID,
		"old_lane", oldLane,
		"new_lane", newLane,
		"rows", relabelled,
	)

	// The in-place update cannot fix matchup pairings that depend on enemy
	// lanes, so a full single-match resync runs afterwards as a safety net.
	resync, err := s.stats.ResyncMatch(ctx, matchID)
	if err != nil {
		return LaneChangeResult{}, fmt.Errorf("resync after lane change: %w", err)
	}

	return LaneChangeResult{
		MatchID:        matchID,
		PlayerID:       player.ID,
		PlayerName:     player.Name,
		OldLane:        oldLane,
		NewLane:        newLane,
		RowsRelabelled: relabelled,
		Resync:         resync,
	}, nil
}

type BulkLaneChangeItem struct {
	Change LaneChange       `json:"change"`
	Result LaneChangeResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type BulkLaneChangeResult struct {
	MatchID      string               `json:"match_id"`
	AppliedCount int                  `json:"applied_count"`
	FailedCount  int                  `json:"failed_count"`
	Items        []BulkLaneChangeItem `json:"items"`
}

// ApplyBulk runs each change independently and in order. A failing item is
// reported in place and does not roll back or stop earlier or later items.
func (s *LaneChangeService) ApplyBulk(ctx context.Context, matchID string, changes []LaneChange) (BulkLaneChangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LaneChangeService.ApplyBulk")
	defer span.End()

	if len(changes) == 0 {
		return BulkLaneChangeResult{}, fmt.Errorf("%w: at least one lane change is required", ErrInvalidInput)
	}

	out := BulkLaneChangeResult{
		MatchID: strings.TrimSpace(matchID),
		Items:   make([]BulkLaneChangeItem, 0, len(changes)),
	}
	for _, change := range changes {
		item := BulkLaneChangeItem{Change: change}
		result, err := s.Apply(ctx, matchID, change)
		if err != nil {
			item.Error = err.Error()
			out.FailedCount++
		} else {
			item.Result = result
			out.AppliedCount++
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// relabelPickLanes rewrites the stored pick data on the owning team's side so
// the source of truth agrees with the relabelled derived rows. Only picks
// attributed to the player by name are touched; located picks that resolved
// to the player via role fallback are corrected by the follow-up resync.
func relabelPickLanes(m *match.Match, player roster.Player, oldLane, newLane match.Lane) int {
	changed := 0
	for i := range m.Sides {
		side := &m.Sides[i]
		changed += relabelPickList(side.Picks1, player, oldLane, newLane)
		changed += relabelPickList(side.Picks2, player, oldLane, newLane)
	}
	return changed
}

func relabelPickList(picks []match.Pick, player roster.Player, oldLane, newLane match.Lane) int {
	changed := 0
	for i := range picks {
		if picks[i].Kind != match.KindAttributed {
			continue
		}
		if !strings.EqualFold(picks[i].PlayerName, player.Name) {
			continue
		}
		if picks[i].Lane != oldLane {
			continue
		}
		picks[i].Lane = newLane
		changed++
	}
	return changed
}
