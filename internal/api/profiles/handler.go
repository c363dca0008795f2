package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/prime-studio/studio-backend/internal/api"
	"github.com/prime-studio/studio-backend/internal/dm"
	"github.com/prime-studio/studio-backend/internal/middleware"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage"
)

// Handler serves public profile reads and authenticated profile edits.
type Handler struct {
	Store  storage.ProfileStore
	Logger zerolog.Logger

	validate *validator.Validate
}

// NewHandler creates the profiles handler.
func NewHandler(store storage.ProfileStore, logger zerolog.Logger) *Handler {
	return &Handler{Store: store, Logger: logger, validate: validator.New()}
}

// Get returns a profile's public fields. A malformed ID is treated as not
// found, the same downgrade the messaging endpoints apply.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !dm.IsUUID(id) {
		api.WriteError(w, http.StatusNotFound, "Profile not found")
		return
	}

	profile, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error().Err(err).Msg("profile get failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		api.WriteError(w, http.StatusNotFound, "Profile not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]models.Peer{"profile": profile.AsPeer()})
}

type updateRequest struct {
	DisplayName string `json:"display_name" validate:"max=80"`
	Username    string `json:"username" validate:"max=40"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

// Update rewrites the authenticated user's display fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid profile fields")
		return
	}

	profile, err := h.Store.Update(r.Context(), userID, req.DisplayName, req.Username, req.AvatarURL)
	if err != nil {
		h.Logger.Error().Err(err).Msg("profile update failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		api.WriteError(w, http.StatusNotFound, "Profile not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]*models.Profile{"profile": profile})
}
