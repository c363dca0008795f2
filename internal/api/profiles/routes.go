package profiles

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/prime-studio/studio-backend/internal/middleware"
)

// RegisterRoutes registers the profile routes.
func RegisterRoutes(r *mux.Router, handler *Handler, authmw *middleware.Auth) {
	r.HandleFunc("/api/v1/profiles/{id}", handler.Get).Methods(http.MethodGet)
	r.Handle("/api/v1/profiles", authmw.RequireAuth(http.HandlerFunc(handler.Update))).Methods(http.MethodPut)
}
