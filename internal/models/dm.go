package models

import "time"

// Conversation is a 1:1 direct-message thread. DMKey is derived from the
// two participant IDs and is order-independent, so at most one dm
// conversation exists per unordered pair.
type Conversation struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	DMKey         string     `json:"dm_key"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ConversationParticipant ties a user to a conversation. Written once at
// conversation creation, never mutated.
type ConversationParticipant struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
}

// Message is immutable once created. Display order is created_at ascending.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}
