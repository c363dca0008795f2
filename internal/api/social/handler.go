package social

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prime-studio/studio-backend/internal/api"
	"github.com/prime-studio/studio-backend/internal/dm"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage"
)

// Handler serves likes, comments, saved photos and follow edges.
type Handler struct {
	Social  storage.SocialStore
	Follows storage.FollowStore
	Logger  zerolog.Logger
}

// ToggleLike flips the like mark for (photo, user). The same endpoint
// likes and unlikes; the response reports the resulting state.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoID string `json:"photoId"`
		UserID  string `json:"userId"`
		Action  string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PhotoID == "" || req.UserID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}
	if req.Action != "like" {
		api.WriteError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	liked, err := h.toggleMark(r, h.Social.LikeExists, h.Social.AddLike, h.Social.RemoveLike, req.PhotoID, req.UserID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("like toggle failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "liked": liked})
}

// GetLikes returns a photo's like count and whether the viewer liked it.
func (h *Handler) GetLikes(w http.ResponseWriter, r *http.Request) {
	photoID := r.URL.Query().Get("photoId")
	userID := r.URL.Query().Get("userId")
	if photoID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing photoId")
		return
	}

	count, err := h.Social.LikeCount(r.Context(), photoID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("like count failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	userLiked := false
	if userID != "" {
		userLiked, err = h.Social.LikeExists(r.Context(), photoID, userID)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"count": count, "userLiked": userLiked})
}

// AddComment records a comment on a photo.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoID string `json:"photoId"`
		UserID  string `json:"userId"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PhotoID == "" || req.UserID == "" || req.Content == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}

	comment, err := h.Social.AddComment(r.Context(), req.PhotoID, req.UserID, req.Content)
	if err != nil {
		h.Logger.Error().Err(err).Msg("add comment failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "comment": comment})
}

// GetComments lists a photo's comments, newest first.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	photoID := r.URL.Query().Get("photoId")
	if photoID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing photoId")
		return
	}

	comments, err := h.Social.Comments(r.Context(), photoID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("list comments failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	api.WriteJSON(w, http.StatusOK, map[string][]models.Comment{"comments": comments})
}

// DeleteComment removes a comment after verifying ownership.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CommentID string `json:"commentId"`
		UserID    string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CommentID == "" || req.UserID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}

	comment, err := h.Social.GetComment(r.Context(), req.CommentID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if comment == nil || comment.UserID != req.UserID {
		api.WriteError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.Social.DeleteComment(r.Context(), req.CommentID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ToggleSaved flips the saved mark for (photo, user). Malformed IDs get
// the same silent downgrade as the messaging endpoints.
func (h *Handler) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoID string `json:"photoId"`
		UserID  string `json:"userId"`
		Action  string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PhotoID == "" || req.UserID == "" || req.Action == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}
	if !dm.IsUUID(req.PhotoID) || !dm.IsUUID(req.UserID) {
		api.WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "saved": false})
		return
	}
	if req.Action != "save" {
		api.WriteError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	saved, err := h.toggleMark(r, h.Social.SavedExists, h.Social.AddSaved, h.Social.RemoveSaved, req.PhotoID, req.UserID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("save toggle failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "saved": saved})
}

// GetSaved reports whether the viewer has saved a photo.
func (h *Handler) GetSaved(w http.ResponseWriter, r *http.Request) {
	photoID := r.URL.Query().Get("photoId")
	userID := r.URL.Query().Get("userId")
	if photoID == "" || userID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}
	if !dm.IsUUID(photoID) || !dm.IsUUID(userID) {
		api.WriteJSON(w, http.StatusOK, map[string]bool{"saved": false})
		return
	}

	saved, err := h.Social.SavedExists(r.Context(), photoID, userID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// Follow creates the directed edge follower -> following.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.writeFollowEdge(w, r, h.Follows.Follow)
}

// Unfollow removes the directed edge follower -> following.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.writeFollowEdge(w, r, h.Follows.Unfollow)
}

func (h *Handler) writeFollowEdge(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, followerID, followingID string) error) {
	var req struct {
		FollowerID  string `json:"followerId"`
		FollowingID string `json:"followingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FollowerID == "" || req.FollowingID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}
	if !dm.IsUUID(req.FollowerID) || !dm.IsUUID(req.FollowingID) {
		api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}

	if err := op(r.Context(), req.FollowerID, req.FollowingID); err != nil {
		h.Logger.Error().Err(err).Msg("follow edge write failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) toggleMark(r *http.Request,
	exists func(ctx context.Context, photoID, userID string) (bool, error),
	add func(ctx context.Context, photoID, userID string) error,
	remove func(ctx context.Context, photoID, userID string) error,
	photoID, userID string,
) (bool, error) {
	on, err := exists(r.Context(), photoID, userID)
	if err != nil {
		return false, err
	}
	if on {
		if err := remove(r.Context(), photoID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := add(r.Context(), photoID, userID); err != nil {
		return false, err
	}
	return true, nil
}
