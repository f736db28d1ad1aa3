package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mygigs/mygigs-backend/internal/config"
	"github.com/mygigs/mygigs-backend/internal/models"
	"github.com/mygigs/mygigs-backend/internal/services"
)

var testSecret = []byte("test-secret")

type stubIdentityStore struct {
	seen []services.IdentityClaims
	role string
}

func (s *stubIdentityStore) GetOrCreateFromClaims(_ context.Context, claims services.IdentityClaims) (*models.User, error) {
	s.seen = append(s.seen, claims)
	role := s.role
	if role == "" {
		role = models.RoleUser
	}
	return &models.User{
		ClerkID:  claims.ClerkID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     role,
	}, nil
}

func authTestHandler(store *stubIdentityStore) *AuthHandler {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	return NewAuthHandler(&config.Config{
		JWTSecret:         testSecret,
		AdminEmail:        "admin@mygigs.co.ke",
		AdminPasswordHash: string(hash),
	}, store)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func TestRequireAuthResolvesUser(t *testing.T) {
	store := &stubIdentityStore{}
	h := authTestHandler(store)

	token := signedToken(t, jwt.MapClaims{
		"sub":       "user_2abc",
		"email":     "jane@example.com",
		"full_name": "Jane Mwangi",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.RequireAuth(h.Me)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "user_2abc", user.ClerkID)
	assert.Equal(t, models.RoleUser, user.Role)

	require.Len(t, store.seen, 1)
	assert.Equal(t, "jane@example.com", store.seen[0].Email)
	assert.Equal(t, "Jane Mwangi", store.seen[0].FullName)
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	h := authTestHandler(&stubIdentityStore{})
	next := h.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	rec := httptest.NewRecorder()
	next(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	next(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	wrong, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_2abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+wrong)
	rec = httptest.NewRecorder()
	next(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	h := authTestHandler(&stubIdentityStore{})
	token := signedToken(t, jwt.MapClaims{
		"sub": "user_2abc",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.RequireAuth(h.Me)(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user_2abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	// Non-admin user is forbidden.
	h := authTestHandler(&stubIdentityStore{role: models.RoleUser})
	req := httptest.NewRequest("DELETE", "/api/professions/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes through.
	h = authTestHandler(&stubIdentityStore{role: models.RoleAdmin})
	req = httptest.NewRequest("DELETE", "/api/professions/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminLogin(t *testing.T) {
	h := authTestHandler(&stubIdentityStore{})

	login := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest("POST", "/api/auth/admin-login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.AdminLogin(rec, req)
		return rec
	}

	rec := login("admin@mygigs.co.ke", "wrong password")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = login("someone@else.com", "correct horse")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = login("admin@mygigs.co.ke", "correct horse")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])

	// The issued token carries the admin role and verifies against the secret.
	token, err := jwt.Parse(resp["token"], func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
}

func TestAdminLoginUnconfigured(t *testing.T) {
	h := NewAuthHandler(&config.Config{JWTSecret: testSecret}, &stubIdentityStore{})

	body, _ := json.Marshal(map[string]string{"email": "a@b.c", "password": "pw"})
	req := httptest.NewRequest("POST", "/api/auth/admin-login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
