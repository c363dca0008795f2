package photos

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/prime-studio/studio-backend/internal/middleware"
)

// RegisterRoutes registers the photo routes. Listing is public; upload,
// own-photo listing and deletion require authentication.
func RegisterRoutes(r *mux.Router, handler *Handler, authmw *middleware.Auth) {
	r.HandleFunc("/api/v1/photos", handler.List).Methods(http.MethodGet)
	r.Handle("/api/v1/photos/upload", authmw.RequireAuth(http.HandlerFunc(handler.Upload))).Methods(http.MethodPost)
	r.Handle("/api/v1/photos/mine", authmw.RequireAuth(http.HandlerFunc(handler.ListMine))).Methods(http.MethodGet)
	r.Handle("/api/v1/photos/{id}", authmw.RequireAuth(http.HandlerFunc(handler.Delete))).Methods(http.MethodDelete)
}
