package httpapi

import (
	"net/http"

	"github.com/draftpad/scrimstats/internal/domain/herostats"
)

type heroSummaryDTO struct {
	Hero    string `json:"hero"`
	Win     int    `json:"win"`
	Lose    int    `json:"lose"`
	Total   int    `json:"total"`
	Winrate int    `json:"winrate"`
}

type matchupSummaryDTO struct {
	Hero      string `json:"hero"`
	EnemyHero string `json:"enemy_hero"`
	Win       int    `json:"win"`
	Lose      int    `json:"lose"`
	Total     int    `json:"total"`
	Winrate   int    `json:"winrate"`
}

func (h *Handler) ListHeroStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHeroStats")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchType, err := matchTypeFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID := r.URL.Query().Get("player_id")

	summaries, err := h.statsService.HeroSummaries(ctx, teamID, matchType, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "hero stats failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, heroSummariesToDTO(summaries))
}

func (h *Handler) ListMatchupStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchupStats")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchType, err := matchTypeFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID := r.URL.Query().Get("player_id")

	summaries, err := h.statsService.MatchupSummaries(ctx, teamID, matchType, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "matchup stats failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchupSummariesToDTO(summaries))
}

func (h *Handler) ValidateIntegrity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateIntegrity")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchType, err := matchTypeFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.integrityService.Validate(ctx, teamID, matchType)
	if err != nil {
		h.logger.WarnContext(ctx, "integrity validation failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) CleanupIntegrity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CleanupIntegrity")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchType, err := matchTypeFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.integrityService.Cleanup(ctx, teamID, matchType)
	if err != nil {
		h.logger.WarnContext(ctx, "integrity cleanup failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func heroSummariesToDTO(summaries []herostats.HeroSummary) []heroSummaryDTO {
	out := make([]heroSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, heroSummaryDTO{
			Hero:    s.Hero,
			Win:     s.Win,
			Lose:    s.Lose,
			Total:   s.Total,
			Winrate: s.Winrate,
		})
	}
	return out
}

func matchupSummariesToDTO(summaries []herostats.MatchupSummary) []matchupSummaryDTO {
	out := make([]matchupSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, matchupSummaryDTO{
			Hero:      s.Hero,
			EnemyHero: s.EnemyHero,
			Win:       s.Win,
			Lose:      s.Lose,
			Total:     s.Total,
			Winrate:   s.Winrate,
		})
	}
	return out
}
