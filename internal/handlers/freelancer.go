package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mygigs/mygigs-backend/internal/services"
)

type FreelancerHandler struct {
	service *services.FreelancerService
}

func NewFreelancerHandler(service *services.FreelancerService) *FreelancerHandler {
	return &FreelancerHandler{service: service}
}

func filterFromQuery(r *http.Request) services.FreelancerFilter {
	q := r.URL.Query()
	return services.FreelancerFilter{
		ProfessionID:  q.Get("profession"),
		County:        q.Get("county"),
		Constituency:  q.Get("constituency"),
		Ward:          q.Get("ward"),
		MinRating:     q.Get("min_rating"),
		MinExperience: q.Get("min_experience"),
		Search:        q.Get("search"),
	}
}

// List handles GET /api/freelancers with optional filters.
func (h *FreelancerHandler) List(w http.ResponseWriter, r *http.Request) {
	freelancers, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, freelancers)
}

// Featured handles GET /api/freelancers/featured.
func (h *FreelancerHandler) Featured(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	filter.FeaturedOnly = true

	freelancers, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, freelancers)
}

// Get handles GET /api/freelancers/{freelancerID}.
func (h *FreelancerHandler) Get(w http.ResponseWriter, r *http.Request) {
	freelancer, err := h.service.GetByID(r.Context(), mux.Vars(r)["freelancerID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, freelancer)
}

// Me handles GET /api/freelancers/me: the caller's own profile,
// created on first access.
func (h *FreelancerHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	freelancer, err := h.service.GetOrCreateByUser(r.Context(), user)
	if err != nil {
		log.Printf("Failed to load profile for %s: %v", user.ClerkID, err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, freelancer)
}

// profileUpdate carries the updatable profile fields. Pointer fields give
// partial-update semantics: absent fields stay untouched.
type profileUpdate struct {
	Name            *string   `json:"name"`
	Title           *string   `json:"title"`
	ProfessionID    *string   `json:"profession_id"`
	County          *string   `json:"county"`
	Constituency    *string   `json:"constituency"`
	Ward            *string   `json:"ward"`
	Skills          *[]string `json:"skills"`
	Avatar          *string   `json:"avatar"`
	YearsExperience *int      `json:"years_experience"`
	HourlyRate      *float64  `json:"hourly_rate"`
	Availability    *string   `json:"availability"`
}

func (u profileUpdate) set() (bson.M, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.ProfessionID != nil {
		id, err := primitive.ObjectIDFromHex(*u.ProfessionID)
		if err != nil {
			return nil, err
		}
		set["profession_id"] = id
	}
	if u.County != nil {
		set["county"] = *u.County
	}
	if u.Constituency != nil {
		set["constituency"] = *u.Constituency
	}
	if u.Ward != nil {
		set["ward"] = *u.Ward
	}
	if u.Skills != nil {
		set["skills"] = *u.Skills
	}
	if u.Avatar != nil {
		set["avatar"] = *u.Avatar
	}
	if u.YearsExperience != nil {
		set["years_experience"] = *u.YearsExperience
	}
	if u.HourlyRate != nil {
		set["hourly_rate"] = *u.HourlyRate
	}
	if u.Availability != nil {
		set["availability"] = *u.Availability
	}
	return set, nil
}

// UpdateMe handles PUT /api/freelancers/me with partial updates.
func (h *FreelancerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var update profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	set, err := update.set()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid profession_id")
		return
	}

	// First access creates the profile, then the update applies.
	if _, err := h.service.GetOrCreateByUser(r.Context(), user); err != nil {
		respondServiceError(w, err)
		return
	}
	freelancer, err := h.service.UpdateProfile(r.Context(), user.ClerkID, set)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, freelancer)
}
