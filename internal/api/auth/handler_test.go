package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prime-studio/studio-backend/internal/api/auth"
	"github.com/prime-studio/studio-backend/internal/middleware"
	"github.com/prime-studio/studio-backend/internal/storage/memory"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	profiles := memory.NewProfileStore()
	sessions := memory.NewSessionStore()
	authmw := middleware.NewAuth("test-secret", sessions)
	handler := auth.NewHandler(profiles, sessions, authmw, "test-secret", time.Hour, zerolog.Nop())
	router := mux.NewRouter()
	auth.RegisterRoutes(router, handler)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, router *mux.Router, email, password string) (token, userID string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"email": email, "password": password, "display_name": "Tester"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token   string `json:"token"`
		Profile struct {
			ID string `json:"id"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.Profile.ID)
	return resp.Token, resp.Profile.ID
}

func TestRegisterLoginMe(t *testing.T) {
	router := newRouter(t)
	token, userID := register(t, router, "tester@example.com", "hunter2hunter2")

	// Token from registration works immediately.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var meResp struct {
		Profile struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meResp))
	assert.Equal(t, userID, meResp.Profile.ID)
	assert.Equal(t, "tester@example.com", meResp.Profile.Email)

	// Fresh login issues a usable token too.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "tester@example.com", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newRouter(t)
	register(t, router, "dup@example.com", "hunter2hunter2")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"email": "dup@example.com", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterRejectsBadPayload(t *testing.T) {
	router := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"email": "not-an-email", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"email": "ok@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newRouter(t)
	register(t, router, "tester@example.com", "hunter2hunter2")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "tester@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	router := newRouter(t)
	token, _ := register(t, router, "tester@example.com", "hunter2hunter2")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The token still parses but its session is gone.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithoutToken(t *testing.T) {
	router := newRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithForgedToken(t *testing.T) {
	router := newRouter(t)
	register(t, router, "tester@example.com", "hunter2hunter2")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.forged.signature", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
