package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/domain/team"
	"github.com/draftpad/scrimstats/internal/platform/id"
	"github.com/draftpad/scrimstats/internal/platform/logging"
)

type MatchService struct {
	teamRepo   team.Repository
	matchRepo  match.Repository
	rosterRepo roster.Repository
	stats      *StatsService
	idGen      id.Generator
	logger     *logging.Logger
}

func NewMatchService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	stats *StatsService,
	idGen id.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MatchService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		stats:      stats,
		idGen:      idGen,
		logger:     logger,
	}
}

type SideInput struct {
	Color  string
	Name   string
	Picks1 []match.Pick
	Picks2 []match.Pick
	Bans1  []match.Pick
	Bans2  []match.Pick
}

type MatchInput struct {
	TeamID string
	Date   time.Time
	Winner string
	Type   string
	Notes  string
	Sides  [2]SideInput
}

func (in MatchInput) toMatch(matchID string) (match.Match, error) {
	matchType, ok := match.ParseType(in.Type)
	if !ok {
		return match.Match{}, fmt.Errorf("%w: unknown match type %q", ErrInvalidInput, in.Type)
	}
	item := match.Match{
		ID:     matchID,
		TeamID: strings.TrimSpace(in.TeamID),
		Date:   in.Date,
		Winner: strings.TrimSpace(in.Winner),
		Type:   matchType,
		Notes:  in.Notes,
	}
	for i, side := range in.Sides {
		item.Sides[i] = match.TeamSide{
			Color:  match.SideColor(strings.ToLower(strings.TrimSpace(side.Color))),
			Name:   strings.TrimSpace(side.Name),
			Picks1: side.Picks1,
			Picks2: side.Picks2,
			Bans1:  side.Bans1,
			Bans2:  side.Bans2,
		}
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return item, nil
}

// CreateMatch stores a new match and immediately projects its derived rows.
func (s *MatchService) CreateMatch(ctx context.Context, input MatchInput) (match.Match, ResyncMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer span.End()

	if err := s.ensureTeam(ctx, input.TeamID); err != nil {
		return match.Match{}, ResyncMatchResult{}, err
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, ResyncMatchResult{}, fmt.Errorf("generate match id: %w", err)
	}
	item, err := input.toMatch(matchID)
	if err != nil {
		return match.Match{}, ResyncMatchResult{}, err
	}

	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, ResyncMatchResult{}, fmt.Errorf("create match: %w", err)
	}
	s.logger.InfoContext(ctx, "match created", "match_id", item.ID, "team_id", item.TeamID, "type", item.Type)

	resync, err := s.stats.ResyncMatch(ctx, item.ID)
	if err != nil {
		return item, ResyncMatchResult{}, fmt.Errorf("project new match: %w", err)
	}
	return item, resync, nil
}

// UpdateMatch replaces the match's stored data. Any field can shift derived
// rows, so a full single-match resync always follows the write.
func (s *MatchService) UpdateMatch(ctx context.Context, matchID string, input MatchInput) (match.Match, ResyncMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateMatch")
	defer span.End()

	existing, exists, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, ResyncMatchResult{}, err
	}
	if !exists {
		return match.Match{}, ResyncMatchResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if strings.TrimSpace(input.TeamID) == "" {
		input.TeamID = existing.TeamID
	}
	if input.TeamID != existing.TeamID {
		return match.Match{}, ResyncMatchResult{}, fmt.Errorf("%w: match ownership cannot change", ErrInvalidInput)
	}

	item, err := input.toMatch(existing.ID)
	if err != nil {
		return match.Match{}, ResyncMatchResult{}, err
	}
	if err := s.matchRepo.Update(ctx, item); err != nil {
		return match.Match{}, ResyncMatchResult{}, fmt.Errorf("update match: %w", err)
	}

	resync, err := s.stats.ResyncMatch(ctx, item.ID)
	if err != nil {
		return item, ResyncMatchResult{}, fmt.Errorf("resync after update: %w", err)
	}
	return item, resync, nil
}

// DeleteMatch removes the match and purges its derived rows so nothing keeps
// referencing the gone match.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.DeleteMatch")
	defer span.End()

	_, exists, err := s.getMatch(ctx, matchID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return 0, fmt.Errorf("delete match: %w", err)
	}
	purged, err := s.stats.statsRepo.ReplaceMatchRecords(ctx, matchID, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("purge derived rows match=%s: %w", matchID, err)
	}
	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID, "derived_rows_purged", purged)
	return purged, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	item, exists, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func (s *MatchService) ListMatches(ctx context.Context, teamID string, matchType match.Type) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	if err := s.ensureTeam(ctx, teamID); err != nil {
		return nil, err
	}
	items, err := s.matchRepo.ListByTeam(ctx, teamID, matchType)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

type ReassignHeroInput struct {
	MatchID     string `json:"match_id" validate:"required"`
	TeamID      string `json:"team_id" validate:"required"`
	PlayerID    string `json:"player_id" validate:"required"`
	Role        string `json:"role" validate:"required"`
	NewHeroName string `json:"new_hero_name" validate:"required"`
}

type ReassignHeroResult struct {
	MatchID  string            `json:"match_id"`
	PlayerID string            `json:"player_id"`
	Lane     match.Lane        `json:"lane"`
	OldHero  string            `json:"old_hero"`
	NewHero  string            `json:"new_hero"`
	Resync   ResyncMatchResult `json:"resync"`
}

// ReassignHero swaps the hero on the pick a player occupies in one match,
// correcting data-entry mistakes without re-entering the whole draft.
func (s *MatchService) ReassignHero(ctx context.Context, input ReassignHeroInput) (ReassignHeroResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ReassignHero")
	defer span.End()

	lane := match.ParseLane(input.Role)
	if lane == match.LaneUnknown {
		return ReassignHeroResult{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}
	newHero := strings.TrimSpace(input.NewHeroName)
	if newHero == "" {
		return ReassignHeroResult{}, fmt.Errorf("%w: new hero name is required", ErrInvalidInput)
	}

	item, exists, err := s.getMatch(ctx, input.MatchID)
	if err != nil {
		return ReassignHeroResult{}, err
	}
	if !exists {
		return ReassignHeroResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if item.TeamID != strings.TrimSpace(input.TeamID) {
		return ReassignHeroResult{}, fmt.Errorf("%w: match %s does not belong to team %s", ErrInvalidInput, item.ID, input.TeamID)
	}

	player, exists, err := s.rosterRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return ReassignHeroResult{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return ReassignHeroResult{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
	}

	side, err := s.owningSide(ctx, &item)
	if err != nil {
		return ReassignHeroResult{}, err
	}

	oldHero, changed := reassignPickHero(side, player, lane, newHero)
	if !changed {
		return ReassignHeroResult{}, fmt.Errorf("%w: no %s pick for player %s on match %s", ErrNotFound, lane, player.Name, item.ID)
	}
	if err := s.matchRepo.Update(ctx, item); err != nil {
		return ReassignHeroResult{}, fmt.Errorf("update match picks: %w", err)
	}

	resync, err := s.stats.ResyncMatch(ctx, item.ID)
	if err != nil {
		return ReassignHeroResult{}, fmt.Errorf("resync after hero reassignment: %w", err)
	}
	return ReassignHeroResult{
		MatchID:  item.ID,
		PlayerID: player.ID,
		Lane:     lane,
		OldHero:  oldHero,
		NewHero:  newHero,
		Resync:   resync,
	}, nil
}

type PopulateAssignmentsResult struct {
	MatchID    string            `json:"match_id"`
	Attributed int               `json:"attributed"`
	Unresolved int               `json:"unresolved"`
	Resync     ResyncMatchResult `json:"resync"`
}

// PopulateAssignments upgrades located picks on the owning side to attributed
// ones by resolving each lane against the roster. Picks whose lane resolves
// no player are left as they are and counted as unresolved.
func (s *MatchService) PopulateAssignments(ctx context.Context, matchID string) (PopulateAssignmentsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.PopulateAssignments")
	defer span.End()

	item, exists, err := s.getMatch(ctx, matchID)
	if err != nil {
		return PopulateAssignmentsResult{}, err
	}
	if !exists {
		return PopulateAssignmentsResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	players, err := s.rosterRepo.ListByTeam(ctx, item.TeamID)
	if err != nil {
		return PopulateAssignmentsResult{}, fmt.Errorf("list roster: %w", err)
	}
	side, err := s.owningSide(ctx, &item)
	if err != nil {
		return PopulateAssignmentsResult{}, err
	}

	attributed, unresolved := 0, 0
	for _, picks := range [][]match.Pick{side.Picks1, side.Picks2} {
		for i := range picks {
			if picks[i].Kind != match.KindLocated {
				continue
			}
			player, ok := ResolvePlayer(players, "", picks[i].Lane)
			if !ok {
				unresolved++
				continue
			}
			picks[i].PlayerName = player.Name
			picks[i].Kind = match.KindAttributed
			attributed++
		}
	}

	if attributed > 0 {
		if err := s.matchRepo.Update(ctx, item); err != nil {
			return PopulateAssignmentsResult{}, fmt.Errorf("update match picks: %w", err)
		}
	}

	resync, err := s.stats.ResyncMatch(ctx, item.ID)
	if err != nil {
		return PopulateAssignmentsResult{}, fmt.Errorf("resync after assignment population: %w", err)
	}
	return PopulateAssignmentsResult{
		MatchID:    item.ID,
		Attributed: attributed,
		Unresolved: unresolved,
		Resync:     resync,
	}, nil
}

func (s *MatchService) getMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return item, exists, nil
}

func (s *MatchService) ensureTeam(ctx context.Context, teamID string) error {
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

// owningSide returns a pointer to the side whose display name equals the
// owning team's name, so pick edits land on the side that feeds statistics.
func (s *MatchService) owningSide(ctx context.Context, item *match.Match) (*match.TeamSide, error) {
	owner, exists, err := s.teamRepo.GetByID(ctx, item.TeamID)
	if err != nil {
		return nil, fmt.Errorf("get owning team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, item.TeamID)
	}
	for i := range item.Sides {
		if item.Sides[i].Name == owner.Name {
			return &item.Sides[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no side of match %s matches team name %q", ErrInvalidInput, item.ID, owner.Name)
}

func reassignPickHero(side *match.TeamSide, player roster.Player, lane match.Lane, newHero string) (string, bool) {
	for _, picks := range [][]match.Pick{side.Picks1, side.Picks2} {
		for i := range picks {
			if picks[i].Kind == match.KindBare || picks[i].Lane != lane {
				continue
			}
			if picks[i].Kind == match.KindAttributed && !strings.EqualFold(picks[i].PlayerName, player.Name) {
				continue
			}
			oldHero := picks[i].Hero
			picks[i].Hero = newHero
			return oldHero, true
		}
	}
	return "", false
}
