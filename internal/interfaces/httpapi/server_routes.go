package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListTeamPlayers)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/matches", handler.ListMatchesByTeam)
	mux.HandleFunc("POST /v1/teams/{teamID}/matches", handler.CreateMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("PUT /v1/matches/{matchID}", handler.UpdateMatch)
	mux.HandleFunc("DELETE /v1/matches/{matchID}", handler.DeleteMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/resync", handler.ResyncMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/lane-changes", handler.ApplyLaneChanges)
	mux.HandleFunc("POST /v1/matches/{matchID}/hero-reassignments", handler.ReassignHero)
	mux.HandleFunc("POST /v1/matches/{matchID}/player-assignments", handler.PopulatePlayerAssignments)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/stats/heroes", handler.ListHeroStats)
	mux.HandleFunc("GET /v1/teams/{teamID}/stats/matchups", handler.ListMatchupStats)
	mux.HandleFunc("GET /v1/teams/{teamID}/stats/integrity", handler.ValidateIntegrity)
	mux.HandleFunc("POST /v1/teams/{teamID}/stats/cleanup", handler.CleanupIntegrity)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/resync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResyncJob)))
	mux.Handle("POST /v1/internal/jobs/audit", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAuditJob)))
}
