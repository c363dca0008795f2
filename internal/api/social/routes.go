package social

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the likes, comments, saved-photo and follow
// routes.
func RegisterRoutes(r *mux.Router, handler *Handler) {
	r.HandleFunc("/api/v1/likes", handler.GetLikes).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/likes", handler.ToggleLike).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/comments", handler.GetComments).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/comments", handler.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/comments", handler.DeleteComment).Methods(http.MethodDelete)

	r.HandleFunc("/api/v1/saved", handler.GetSaved).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/saved", handler.ToggleSaved).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/follows", handler.Follow).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/follows", handler.Unfollow).Methods(http.MethodDelete)
}
