package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/draftpad/scrimstats/internal/usecase"
)

// RunResyncJob rebuilds both derived tables from every stored match. Invoked
// by the job queue callback, never by end users.
func (h *Handler) RunResyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResyncJob")
	defer span.End()

	workers := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("workers")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			workers = parsed
		}
	}

	result, err := h.statsService.ResyncAll(ctx, usecase.ResyncAllInput{MaxWorkers: workers})
	if err != nil {
		h.logger.ErrorContext(ctx, "full resync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "full resync finished",
		"matches", result.MatchCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunAuditJob sweeps every team's derived statistics for inconsistencies.
// With repair=true it also resyncs the affected matches.
func (h *Handler) RunAuditJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAuditJob")
	defer span.End()

	repair := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("repair")), "true")

	result, err := h.maintenanceService.RunAudit(ctx, usecase.AuditInput{Repair: repair})
	if err != nil {
		h.logger.ErrorContext(ctx, "integrity audit failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
