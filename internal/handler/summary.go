package handler

import (
	"net/http"

	"imagerater/internal/export"
	"imagerater/internal/logger"
	"imagerater/internal/service"
)

// SummaryHandler returns the pivoted ratings summary as JSON.
func SummaryHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := manager.Summary(r.Context())
		if err != nil {
			internalError(w, logger, "Error building ratings summary", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, summary)
	}
}

// SummaryCSVHandler serves the ratings summary as a CSV download.
func SummaryCSVHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := manager.Summary(r.Context())
		if err != nil {
			internalError(w, logger, "Error building ratings summary", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
		if err := export.WriteCSV(w, summary); err != nil {
			logger.Error("Error writing CSV: %v", err)
		}
	}
}
