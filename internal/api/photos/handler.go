package photos

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/prime-studio/studio-backend/internal/api"
	"github.com/prime-studio/studio-backend/internal/imagehost"
	"github.com/prime-studio/studio-backend/internal/metrics"
	"github.com/prime-studio/studio-backend/internal/middleware"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage"
)

const maxUploadBytes = 32 << 20

// Uploader is the slice of the image-host client the handler needs; tests
// substitute a stub.
type Uploader interface {
	Upload(ctx context.Context, publicID, filename string, data []byte) (*imagehost.UploadResult, error)
}

// Handler serves gallery photo endpoints: upload, listing and deletion.
// Media bytes go to the external image host; only the hosted URL is stored.
type Handler struct {
	Store  storage.PhotoStore
	Host   Uploader
	Logger zerolog.Logger
}

// Upload receives a multipart image, pushes it to the image host and
// records the photo row. A host failure aborts before any row is written.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "File missing")
		return
	}
	defer file.Close()

	category := r.FormValue("category")
	if category == "" {
		category = "portrait"
	}
	title := r.FormValue("title")
	modelName := r.FormValue("model_name")
	active := r.FormValue("active") != "false"

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	photoID := uuid.NewString()
	upload, err := h.Host.Upload(r.Context(), photoID, header.Filename, data)
	if err != nil {
		h.Logger.Error().Err(err).Msg("image host upload failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	photo := &models.Photo{
		ID:           photoID,
		Title:        title,
		Category:     category,
		ModelName:    modelName,
		ImageURL:     upload.URL,
		HostPublicID: upload.PublicID,
		Active:       active,
		UserID:       userID,
	}
	if err := h.Store.Insert(r.Context(), photo); err != nil {
		h.Logger.Error().Err(err).Str("photo_id", photoID).Msg("photo insert failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.PhotosUploaded.Inc()
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":             true,
		"id":             photo.ID,
		"image_url":      photo.ImageURL,
		"host_public_id": photo.HostPublicID,
	})
}

// List returns published photos, newest first, optionally filtered by
// category or owner.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	photos, err := h.Store.List(r.Context(), q.Get("category"), q.Get("userId"), true)
	if err != nil {
		h.Logger.Error().Err(err).Msg("photo list failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	api.WriteJSON(w, http.StatusOK, map[string][]models.Photo{"photos": photos})
}

// ListMine returns the authenticated user's photos, unpublished included.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	photos, err := h.Store.List(r.Context(), "", userID, false)
	if err != nil {
		h.Logger.Error().Err(err).Msg("photo list failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	api.WriteJSON(w, http.StatusOK, map[string][]models.Photo{"photos": photos})
}

// Delete removes one of the authenticated user's photos.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	photoID := mux.Vars(r)["id"]

	photo, err := h.Store.GetByID(r.Context(), photoID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if photo == nil {
		api.WriteError(w, http.StatusNotFound, "Photo not found")
		return
	}
	if photo.UserID != userID {
		api.WriteError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.Store.Delete(r.Context(), photoID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
