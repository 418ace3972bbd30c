package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fpang/fridge-chef/internal/recipe"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to write JSON response")
	}
}

// httpError sends the failure envelope. internalDetails are logged but never
// sent to the client.
func httpError(w http.ResponseWriter, status int, clientMsg string, internalDetails ...string) {
	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt = evt.Int("status", status).Str("clientMsg", clientMsg)
	if len(internalDetails) > 0 {
		evt = evt.Strs("internalDetails", internalDetails)
	}
	evt.Msg("HTTP error")

	respondJSON(w, status, recipe.AnalyzeResponse{Success: false, Error: clientMsg})
}
