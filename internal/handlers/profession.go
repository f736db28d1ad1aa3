package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mygigs/mygigs-backend/internal/models"
	"github.com/mygigs/mygigs-backend/internal/services"
)

type ProfessionHandler struct {
	professions *services.ProfessionService
	freelancers *services.FreelancerService
}

func NewProfessionHandler(professions *services.ProfessionService, freelancers *services.FreelancerService) *ProfessionHandler {
	return &ProfessionHandler{professions: professions, freelancers: freelancers}
}

// List handles GET /api/professions.
func (h *ProfessionHandler) List(w http.ResponseWriter, r *http.Request) {
	professions, err := h.professions.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, professions)
}

// Get handles GET /api/professions/{professionID}.
func (h *ProfessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	profession, err := h.professions.GetByID(r.Context(), mux.Vars(r)["professionID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profession)
}

// Freelancers handles GET /api/professions/{professionID}/freelancers,
// applying the usual freelancer filters within the profession.
func (h *ProfessionHandler) Freelancers(w http.ResponseWriter, r *http.Request) {
	professionID := mux.Vars(r)["professionID"]
	if _, err := h.professions.GetByID(r.Context(), professionID); err != nil {
		respondServiceError(w, err)
		return
	}

	filter := filterFromQuery(r)
	filter.ProfessionID = professionID

	freelancers, err := h.freelancers.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, freelancers)
}

// Create handles POST /api/professions (admin).
func (h *ProfessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var profession models.Profession
	if err := json.NewDecoder(r.Body).Decode(&profession); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.professions.Create(r.Context(), &profession)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Delete handles DELETE /api/professions/{professionID} (admin).
func (h *ProfessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.professions.Delete(r.Context(), mux.Vars(r)["professionID"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
