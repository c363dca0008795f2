package dms

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the messaging and peer-discovery routes.
func RegisterRoutes(r *mux.Router, handler *Handler) {
	r.HandleFunc("/api/v1/messages", handler.GetMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/messages", handler.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/peers", handler.GetPeers).Methods(http.MethodGet)
}
