package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"imagerater/internal/dto"
	"imagerater/internal/logger"

	"github.com/rs/xid"
)

func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, logger *logger.Logger, status int, detail string) {
	writeJSON(w, logger, status, dto.ErrorResponse{Detail: detail})
}

// internalError logs err under a fresh id and answers with a generic
// message carrying only that id.
func internalError(w http.ResponseWriter, logger *logger.Logger, what string, err error) {
	guid := xid.New().String()
	logger.Zerolog().Error().Err(err).Str("guid", guid).Msg(what)
	writeError(w, logger, http.StatusInternalServerError, "Internal Server Error (ID: "+guid+")")
}

// atoiDefault converts string to int or returns a default when the value is
// empty.
func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
