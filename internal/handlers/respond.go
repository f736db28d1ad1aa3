package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mygigs/mygigs-backend/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps service sentinels to HTTP codes. Caller errors
// are strict; configuration and provider failures surface as 5xx.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCredentialsMissing),
		errors.Is(err, services.ErrTokenUnavailable),
		errors.Is(err, services.ErrProviderUnreachable):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrProviderRequestFailed),
		errors.Is(err, services.ErrMalformedResponse):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
