package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prime-studio/studio-backend/internal/api"
	"github.com/prime-studio/studio-backend/internal/metrics"
	"github.com/prime-studio/studio-backend/internal/middleware"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage"
)

// Handler serves account registration and login. Tokens are HS256 JWTs
// whose jti points at a server-side session, so logout actually revokes.
type Handler struct {
	Profiles storage.ProfileStore
	Sessions storage.SessionStore
	Auth     *middleware.Auth
	Secret   string
	TTL      time.Duration
	Logger   zerolog.Logger

	validate *validator.Validate
}

// NewHandler creates the auth handler.
func NewHandler(profiles storage.ProfileStore, sessions storage.SessionStore, authmw *middleware.Auth, secret string, ttl time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		Profiles: profiles,
		Sessions: sessions,
		Auth:     authmw,
		Secret:   secret,
		TTL:      ttl,
		Logger:   logger,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	Username    string `json:"username" validate:"omitempty,max=40"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Register creates an account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	existing, err := h.Profiles.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.Logger.Error().Err(err).Msg("register lookup failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		api.WriteError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Username:     req.Username,
	}
	if err := h.Profiles.Create(r.Context(), profile); err != nil {
		h.Logger.Error().Err(err).Msg("register create failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.UsersRegistered.Inc()

	token, err := h.issueToken(r, profile.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusCreated, tokenResponse{Token: token, Profile: profile})
}

// Login verifies credentials and issues a fresh token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	profile, err := h.Profiles.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.Logger.Error().Err(err).Msg("login lookup failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil ||
		bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		api.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issueToken(r, profile.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, tokenResponse{Token: token, Profile: profile})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	profile, err := h.Profiles.GetByID(r.Context(), userID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		api.WriteError(w, http.StatusNotFound, "Profile not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]*models.Profile{"profile": profile})
}

// Logout deletes the token's server-side session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_, sessionID, err := h.Auth.Verify(r)
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	if err := h.Sessions.Delete(r.Context(), sessionID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) issueToken(r *http.Request, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := h.Sessions.Put(r.Context(), sessionID, userID, h.TTL); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.Secret))
}
