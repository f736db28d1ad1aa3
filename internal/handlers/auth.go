package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mygigs/mygigs-backend/internal/config"
	"github.com/mygigs/mygigs-backend/internal/models"
	"github.com/mygigs/mygigs-backend/internal/services"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user stashed by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// identityStore resolves verified token claims to a local user.
type identityStore interface {
	GetOrCreateFromClaims(ctx context.Context, claims services.IdentityClaims) (*models.User, error)
}

// AuthHandler verifies bearer tokens and maps their claims onto local users.
type AuthHandler struct {
	secret            []byte
	users             identityStore
	adminEmail        string
	adminPasswordHash string
}

func NewAuthHandler(cfg *config.Config, users identityStore) *AuthHandler {
	return &AuthHandler{
		secret:            cfg.JWTSecret,
		users:             users,
		adminEmail:        cfg.AdminEmail,
		adminPasswordHash: cfg.AdminPasswordHash,
	}
}

func (h *AuthHandler) parseToken(r *http.Request) (jwt.MapClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// RequireAuth verifies the bearer token, resolves the local user
// (get-or-create), and passes it down via the request context.
func (h *AuthHandler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.parseToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		clerkID, _ := claims["sub"].(string)
		if clerkID == "" {
			respondError(w, http.StatusUnauthorized, "token missing subject")
			return
		}
		email, _ := claims["email"].(string)
		fullName, _ := claims["full_name"].(string)
		imageURL, _ := claims["image_url"].(string)
		role, _ := claims["role"].(string)

		user, err := h.users.GetOrCreateFromClaims(r.Context(), services.IdentityClaims{
			ClerkID:  clerkID,
			Email:    email,
			FullName: fullName,
			ImageURL: imageURL,
			Role:     role,
		})
		if err != nil {
			log.Printf("Failed to resolve user for %s: %v", clerkID, err)
			respondError(w, http.StatusInternalServerError, "failed to resolve user")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is RequireAuth plus an admin-role check.
func (h *AuthHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return h.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

// AdminLogin verifies the configured admin credentials and issues an admin
// bearer token.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.adminEmail == "" || h.adminPasswordHash == "" {
		respondError(w, http.StatusServiceUnavailable, "admin login not configured")
		return
	}
	if req.Email != h.adminEmail {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.adminPasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin",
		"email": req.Email,
		"role":  models.RoleAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.secret)
	if err != nil {
		log.Printf("Failed to sign admin token: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// Me returns the authenticated user's local record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
