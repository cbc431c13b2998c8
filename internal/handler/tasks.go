package handler

import (
	"net/http"
	"strconv"

	"github.com/quibly/quibly/internal/company"
	"github.com/quibly/quibly/internal/meta"
	"github.com/quibly/quibly/internal/middleware"
	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/server"
	"github.com/quibly/quibly/internal/user"
)

const defaultEnrichmentLimit = 50

func TriggerSignOnTokenCleanup(svr server.Server, userRepo *user.Repository, metaRepo *meta.Repository) http.HandlerFunc {
	return middleware.MachineAuthenticatedMiddleware(
		svr.GetConfig().MachineToken,
		func(w http.ResponseWriter, r *http.Request) {
			deleted, err := userRepo.DeleteExpiredUserSignOnTokens(svr.GetConfig().SignOnTokenTTL)
			if err != nil {
				svr.Log(err, "unable to delete expired sign on tokens")
				svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"status": "error"})
				return
			}
			if err := metaRepo.Touch(meta.KeyLastSignOnTokenCleanup); err != nil {
				svr.Log(err, "unable to record sign on token cleanup")
			}
			logger := svr.Logger()
			logger.Info().Int64("deleted", deleted).Msg("expired sign on tokens cleaned up")
			svr.JSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "deleted": deleted})
		},
	)
}

func TriggerCompanyEnrichment(svr server.Server, enricher *company.Enricher, requestRepo *request.Repository, metaRepo *meta.Repository) http.HandlerFunc {
	return middleware.MachineAuthenticatedMiddleware(
		svr.GetConfig().MachineToken,
		func(w http.ResponseWriter, r *http.Request) {
			limit := defaultEnrichmentLimit
			if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
				limit = v
			}
			saved, err := enricher.Run(r.Context(), requestRepo, limit)
			if err != nil {
				svr.Log(err, "unable to enrich company requests")
				svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"status": "error"})
				return
			}
			if err := metaRepo.Touch(meta.KeyLastCompanyEnrichment); err != nil {
				svr.Log(err, "unable to record company enrichment")
			}
			svr.JSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "saved": saved})
		},
	)
}
