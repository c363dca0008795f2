package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the authentication routes. Me is the only one
// behind the auth middleware; Logout verifies its own token so a request
// with a just-expired session still gets a clean 401.
func RegisterRoutes(r *mux.Router, handler *Handler) {
	r.HandleFunc("/api/v1/auth/register", handler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/login", handler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/logout", handler.Logout).Methods(http.MethodPost)
	r.Handle("/api/v1/auth/me", handler.Auth.RequireAuth(http.HandlerFunc(handler.Me))).Methods(http.MethodGet)
}
