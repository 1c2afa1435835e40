package utils

import (
	"encoding/json"
	"net/http"

	"partsdesk/api"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondBackendError maps a backend call failure onto this service's
// response: backend statuses pass through unchanged, network-level
// failures become 502 so the console shows a connectivity notice.
func RespondBackendError(w http.ResponseWriter, err error) {
	if status := api.StatusOf(err); status != 0 {
		RespondWithError(w, status, err.Error())
		return
	}
	RespondWithError(w, http.StatusBadGateway, "backend unreachable: "+err.Error())
}

type M map[string]interface{}
