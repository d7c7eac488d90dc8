package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/usecase"
)

type sideRequest struct {
	Color       string          `json:"color" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	PicksPhase1 json.RawMessage `json:"picks_phase1"`
	PicksPhase2 json.RawMessage `json:"picks_phase2"`
	BansPhase1  json.RawMessage `json:"bans_phase1"`
	BansPhase2  json.RawMessage `json:"bans_phase2"`
}

type matchRequest struct {
	Date   string         `json:"date" validate:"required"`
	Winner string         `json:"winner" validate:"required"`
	Type   string         `json:"type" validate:"required"`
	Notes  string         `json:"notes"`
	Sides  [2]sideRequest `json:"sides" validate:"required,dive"`
}

func (req matchRequest) toInput(teamID string) (usecase.MatchInput, error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return usecase.MatchInput{}, fmt.Errorf("%w: parse date %q: %v", usecase.ErrInvalidInput, req.Date, err)
	}

	input := usecase.MatchInput{
		TeamID: teamID,
		Date:   date,
		Winner: req.Winner,
		Type:   req.Type,
		Notes:  req.Notes,
	}
	for i, side := range req.Sides {
		picks1, err := decodeRequestPicks(side.PicksPhase1)
		if err != nil {
			return usecase.MatchInput{}, fmt.Errorf("side %d phase-1 picks: %w", i, err)
		}
		picks2, err := decodeRequestPicks(side.PicksPhase2)
		if err != nil {
			return usecase.MatchInput{}, fmt.Errorf("side %d phase-2 picks: %w", i, err)
		}
		bans1, err := decodeRequestPicks(side.BansPhase1)
		if err != nil {
			return usecase.MatchInput{}, fmt.Errorf("side %d phase-1 bans: %w", i, err)
		}
		bans2, err := decodeRequestPicks(side.BansPhase2)
		if err != nil {
			return usecase.MatchInput{}, fmt.Errorf("side %d phase-2 bans: %w", i, err)
		}
		input.Sides[i] = usecase.SideInput{
			Color:  side.Color,
			Name:   side.Name,
			Picks1: picks1,
			Picks2: picks2,
			Bans1:  bans1,
			Bans2:  bans2,
		}
	}

	return input, nil
}

// decodeRequestPicks is strict where the storage decoder is tolerant: new
// data entering through the API must parse in full.
func decodeRequestPicks(data json.RawMessage) ([]match.Pick, error) {
	if len(data) == 0 {
		return nil, nil
	}
	picks, errs := match.DecodePicks(data)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, errs[0])
	}
	return picks, nil
}

type sideDTO struct {
	Color       string `json:"color"`
	Name        string `json:"name"`
	PicksPhase1 []any  `json:"picks_phase1"`
	PicksPhase2 []any  `json:"picks_phase2"`
	BansPhase1  []any  `json:"bans_phase1"`
	BansPhase2  []any  `json:"bans_phase2"`
}

type matchDTO struct {
	ID     string     `json:"id"`
	TeamID string     `json:"team_id"`
	Date   time.Time  `json:"date"`
	Winner string     `json:"winner"`
	Type   string     `json:"type"`
	Notes  string     `json:"notes,omitempty"`
	Sides  [2]sideDTO `json:"sides"`
}

func matchToDTO(item match.Match) matchDTO {
	dto := matchDTO{
		ID:     item.ID,
		TeamID: item.TeamID,
		Date:   item.Date,
		Winner: item.Winner,
		Type:   string(item.Type),
		Notes:  item.Notes,
	}
	for i, side := range item.Sides {
		dto.Sides[i] = sideDTO{
			Color:       string(side.Color),
			Name:        side.Name,
			PicksPhase1: pickValues(side.Picks1),
			PicksPhase2: pickValues(side.Picks2),
			BansPhase1:  pickValues(side.Bans1),
			BansPhase2:  pickValues(side.Bans2),
		}
	}
	return dto
}

// pickValues renders picks in their canonical wire shapes, bare picks staying
// bare strings.
func pickValues(picks []match.Pick) []any {
	out := make([]any, 0, len(picks))
	for _, pick := range picks {
		switch pick.Kind {
		case match.KindBare:
			out = append(out, pick.Hero)
		case match.KindAttributed:
			out = append(out, map[string]string{
				"hero":   pick.Hero,
				"lane":   string(pick.Lane),
				"player": pick.PlayerName,
			})
		default:
			out = append(out, map[string]string{
				"hero": pick.Hero,
				"lane": string(pick.Lane),
			})
		}
	}
	return out
}

func (h *Handler) ListMatchesByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchType, err := matchTypeFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchService.ListMatches(ctx, teamID, matchType)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type matchWriteResponse struct {
	Match  matchDTO                  `json:"match"`
	Resync usecase.ResyncMatchResult `json:"resync"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req matchRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	input, err := req.toInput(r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, resync, err := h.matchService.CreateMatch(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "team_id", input.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchWriteResponse{
		Match:  matchToDTO(item),
		Resync: resync,
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	var req matchRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	input, err := req.toInput("")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	item, resync, err := h.matchService.UpdateMatch(ctx, matchID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchWriteResponse{
		Match:  matchToDTO(item),
		Resync: resync,
	})
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	purged, err := h.matchService.DeleteMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"match_id":            matchID,
		"derived_rows_purged": purged,
	})
}

func (h *Handler) ResyncMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResyncMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.statsService.ResyncMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "match resync failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type laneChangesRequest struct {
	Changes []usecase.LaneChange `json:"changes" validate:"required,min=1,dive"`
}

func (h *Handler) ApplyLaneChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyLaneChanges")
	defer span.End()

	var req laneChangesRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	result, err := h.laneChangeService.ApplyBulk(ctx, matchID, req.Changes)
	if err != nil {
		h.logger.WarnContext(ctx, "lane changes failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type reassignHeroRequest struct {
	TeamID      string `json:"team_id" validate:"required"`
	PlayerID    string `json:"player_id" validate:"required"`
	Role        string `json:"role" validate:"required"`
	NewHeroName string `json:"new_hero_name" validate:"required"`
}

func (h *Handler) ReassignHero(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReassignHero")
	defer span.End()

	var req reassignHeroRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	result, err := h.matchService.ReassignHero(ctx, usecase.ReassignHeroInput{
		MatchID:     matchID,
		TeamID:      req.TeamID,
		PlayerID:    req.PlayerID,
		Role:        req.Role,
		NewHeroName: req.NewHeroName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "hero reassignment failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) PopulatePlayerAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PopulatePlayerAssignments")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.matchService.PopulateAssignments(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "player assignment population failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
