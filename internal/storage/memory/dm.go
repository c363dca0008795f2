package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prime-studio/studio-backend/internal/models"
)

// DMStore is an in-memory implementation of storage.ConversationStore.
// The mutex is held across lookup and create, so CreateDM cannot race
// with itself the way two concurrent Postgres inserts can.
type DMStore struct {
	mu       sync.RWMutex
	byKey    map[string]*models.Conversation            // dm_key -> conversation
	members  map[string][]models.ConversationParticipant // conversationID -> participants
	messages map[string][]models.Message                 // conversationID -> ordered messages
}

func NewDMStore() *DMStore {
	return &DMStore{
		byKey:    make(map[string]*models.Conversation),
		members:  make(map[string][]models.ConversationParticipant),
		messages: make(map[string][]models.Message),
	}
}

func (s *DMStore) GetByDMKey(_ context.Context, dmKey string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.byKey[dmKey]
	if !ok {
		return nil, nil
	}
	cp := *conv
	return &cp, nil
}

func (s *DMStore) CreateDM(_ context.Context, dmKey, userA, userB string) (*models.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byKey[dmKey]; ok {
		cp := *existing
		return &cp, false, nil
	}
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		Kind:      "dm",
		DMKey:     dmKey,
		CreatedAt: time.Now(),
	}
	s.byKey[dmKey] = conv
	s.members[conv.ID] = []models.ConversationParticipant{
		{ConversationID: conv.ID, UserID: userA, Role: "member"},
		{ConversationID: conv.ID, UserID: userB, Role: "member"},
	}
	cp := *conv
	return &cp, true, nil
}

func (s *DMStore) Messages(_ context.Context, conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[conversationID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *DMStore) AddMessage(_ context.Context, conversationID, senderID, body string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	msg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      now,
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	for _, conv := range s.byKey {
		if conv.ID == conversationID {
			at := now
			conv.LastMessageAt = &at
			break
		}
	}
	return &msg, nil
}

// Participants returns the member rows of a conversation. Test helper.
func (s *DMStore) Participants(conversationID string) []models.ConversationParticipant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ConversationParticipant, len(s.members[conversationID]))
	copy(out, s.members[conversationID])
	return out
}
