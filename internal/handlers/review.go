package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mygigs/mygigs-backend/internal/models"
	"github.com/mygigs/mygigs-backend/internal/services"
)

type ReviewHandler struct {
	reviews     *services.ReviewService
	freelancers *services.FreelancerService
}

func NewReviewHandler(reviews *services.ReviewService, freelancers *services.FreelancerService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, freelancers: freelancers}
}

// ListByFreelancer handles GET /api/freelancers/{freelancerID}/reviews.
func (h *ReviewHandler) ListByFreelancer(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByFreelancer(r.Context(), mux.Vars(r)["freelancerID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

// Create handles POST /api/freelancers/{freelancerID}/reviews (auth).
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	freelancerID := mux.Vars(r)["freelancerID"]
	if _, err := h.freelancers.GetByID(r.Context(), freelancerID); err != nil {
		respondServiceError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), freelancerID, user, req.Rating, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

// MarkHelpful handles POST /api/reviews/{reviewID}/helpful.
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	count, err := h.reviews.MarkHelpful(r.Context(), mux.Vars(r)["reviewID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"helpful_count": count})
}

// AddReply handles POST /api/reviews/{reviewID}/reply. Only the reviewed
// freelancer's owner or an admin may reply.
func (h *ReviewHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reviewID := mux.Vars(r)["reviewID"]
	review, err := h.reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if user.Role != models.RoleAdmin {
		freelancer, err := h.freelancers.GetByID(r.Context(), review.FreelancerID.Hex())
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			respondServiceError(w, err)
			return
		}
		if freelancer == nil || freelancer.ClerkID != user.ClerkID {
			respondError(w, http.StatusForbidden, "only the reviewed freelancer may reply")
			return
		}
	}

	reply, err := h.reviews.AddReply(r.Context(), reviewID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, reply)
}
