package dms

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prime-studio/studio-backend/internal/api"
	"github.com/prime-studio/studio-backend/internal/dm"
	"github.com/prime-studio/studio-backend/internal/metrics"
	"github.com/prime-studio/studio-backend/internal/models"
)

// Handler serves the direct-messaging endpoints: message list, send and
// peer discovery.
//
// Malformed (non-UUID) identifiers are deliberately downgraded to an
// empty/negative response instead of a validation error, so probing
// clients cannot tell "bad id" from "nothing there". Only genuinely
// missing parameters get a 400.
type Handler struct {
	Service *dm.Service
	Logger  zerolog.Logger
}

type messagesResponse struct {
	Messages []models.Message `json:"messages"`
	Blocked  bool             `json:"blocked,omitempty"`
}

type sendResponse struct {
	OK      bool `json:"ok"`
	Blocked bool `json:"blocked,omitempty"`
}

// GetMessages returns the full history between viewer and peer, oldest
// first. A pair without mutual follow gets blocked:true, which the UI
// renders as a distinct state from "no messages yet".
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	peerID := q.Get("peerId")
	if peerID == "" {
		// Older clients sent the support-funnel peer under a different name.
		peerID = q.Get("supportId")
	}

	if userID == "" || peerID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}
	if !dm.IsUUID(userID) || !dm.IsUUID(peerID) {
		api.WriteJSON(w, http.StatusOK, messagesResponse{Messages: []models.Message{}})
		return
	}

	msgs, blocked, err := h.Service.ListMessages(r.Context(), userID, peerID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("list messages failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if blocked {
		metrics.MessagesBlocked.Inc()
		api.WriteJSON(w, http.StatusOK, messagesResponse{Messages: []models.Message{}, Blocked: true})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	api.WriteJSON(w, http.StatusOK, messagesResponse{Messages: msgs})
}

// SendMessage appends a message after the mutual-follow gate passes.
// Nothing is written for a blocked pair.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   string `json:"senderId"`
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SenderID == "" || req.ReceiverID == "" || req.Content == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing params")
		return
	}
	if !dm.IsUUID(req.SenderID) || !dm.IsUUID(req.ReceiverID) {
		api.WriteJSON(w, http.StatusOK, sendResponse{OK: false})
		return
	}

	blocked, err := h.Service.SendMessage(r.Context(), req.SenderID, req.ReceiverID, req.Content)
	if err != nil {
		h.Logger.Error().Err(err).Msg("send message failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if blocked {
		metrics.MessagesBlocked.Inc()
		api.WriteJSON(w, http.StatusOK, sendResponse{OK: false, Blocked: true})
		return
	}

	metrics.MessagesSent.Inc()
	api.WriteJSON(w, http.StatusOK, sendResponse{OK: true})
}

// GetPeers lists the users the given user mutually follows, which is how
// the client discovers whom it may message.
func (h *Handler) GetPeers(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing userId")
		return
	}
	if !dm.IsUUID(userID) {
		api.WriteJSON(w, http.StatusOK, map[string][]models.Peer{"peers": {}})
		return
	}

	peers, err := h.Service.Peers(r.Context(), userID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("peer discovery failed")
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string][]models.Peer{"peers": peers})
}
