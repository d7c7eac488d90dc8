package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/domain/team"
	"github.com/draftpad/scrimstats/internal/usecase"
)

type Handler struct {
	teamRepo           team.Repository
	rosterRepo         roster.Repository
	matchService       *usecase.MatchService
	statsService       *usecase.StatsService
	laneChangeService  *usecase.LaneChangeService
	integrityService   *usecase.IntegrityService
	maintenanceService *usecase.MaintenanceService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	matchService *usecase.MatchService,
	statsService *usecase.StatsService,
	laneChangeService *usecase.LaneChangeService,
	integrityService *usecase.IntegrityService,
	maintenanceService *usecase.MaintenanceService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		teamRepo:           teamRepo,
		rosterRepo:         rosterRepo,
		matchService:       matchService,
		statsService:       statsService,
		laneChangeService:  laneChangeService,
		integrityService:   integrityService,
		maintenanceService: maintenanceService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type teamDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamRepo.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{ID: t.ID, Name: t.Name, Tag: t.Tag})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type playerDTO struct {
	ID              string `json:"id"`
	TeamID          string `json:"team_id"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	IsSubstitute    bool   `json:"is_substitute"`
	PrimaryPlayerID string `json:"primary_player_id,omitempty"`
	SubstituteOrder int    `json:"substitute_order,omitempty"`
}

func (h *Handler) ListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPlayers")
	defer span.End()

	teamID := r.PathValue("teamID")
	if _, exists, err := h.teamRepo.GetByID(ctx, teamID); err != nil {
		h.logger.ErrorContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	} else if !exists {
		writeError(ctx, w, fmt.Errorf("%w: team=%s", usecase.ErrNotFound, teamID))
		return
	}

	players, err := h.rosterRepo.ListByTeam(ctx, teamID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerDTO{
			ID:              p.ID,
			TeamID:          p.TeamID,
			Name:            p.Name,
			Role:            string(p.Role),
			IsSubstitute:    p.IsSubstitute,
			PrimaryPlayerID: p.PrimaryPlayerID,
			SubstituteOrder: p.SubstituteOrder,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) decodeBody(r *http.Request, target any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// matchTypeFromQuery reads the type filter, defaulting to scrims when the
// query does not narrow it.
func matchTypeFromQuery(query url.Values) (match.Type, error) {
	raw := strings.TrimSpace(query.Get("type"))
	if raw == "" {
		return match.TypeScrim, nil
	}
	matchType, ok := match.ParseType(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown match type %q", usecase.ErrInvalidInput, raw)
	}
	return matchType, nil
}
