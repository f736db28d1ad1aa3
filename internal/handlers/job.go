package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mygigs/mygigs-backend/internal/models"
	"github.com/mygigs/mygigs-backend/internal/services"
)

type JobHandler struct {
	service *services.JobService
}

func NewJobHandler(service *services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// List handles GET /api/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.service.List(r.Context(), services.JobFilter{
		Type:   q.Get("type"),
		Search: q.Get("search"),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// Featured handles GET /api/jobs/featured.
func (h *JobHandler) Featured(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.List(r.Context(), services.JobFilter{FeaturedOnly: true})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// Get handles GET /api/jobs/{jobID}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetByID(r.Context(), mux.Vars(r)["jobID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Create handles POST /api/jobs (admin).
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.Create(r.Context(), &job)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update handles PATCH /api/jobs/{jobID} (admin).
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      *string   `json:"title"`
		Company    *string   `json:"company"`
		Location   *string   `json:"location"`
		Type       *string   `json:"type"`
		Budget     *string   `json:"budget"`
		Skills     *[]string `json:"skills"`
		IsFeatured *bool     `json:"is_featured"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Company != nil {
		set["company"] = *req.Company
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Budget != nil {
		set["budget"] = *req.Budget
	}
	if req.Skills != nil {
		set["skills"] = *req.Skills
	}
	if req.IsFeatured != nil {
		set["is_featured"] = *req.IsFeatured
	}

	job, err := h.service.Update(r.Context(), mux.Vars(r)["jobID"], set)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/{jobID} (admin).
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["jobID"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
