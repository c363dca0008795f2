package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prime-studio/studio-backend/internal/models"
)

type markKey struct {
	photoID string
	userID  string
}

// SocialStore is an in-memory implementation of storage.SocialStore.
type SocialStore struct {
	mu       sync.RWMutex
	likes    map[markKey]bool
	saved    map[markKey]bool
	comments map[string]*models.Comment // id -> comment
}

func NewSocialStore() *SocialStore {
	return &SocialStore{
		likes:    make(map[markKey]bool),
		saved:    make(map[markKey]bool),
		comments: make(map[string]*models.Comment),
	}
}

func (s *SocialStore) LikeExists(_ context.Context, photoID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likes[markKey{photoID, userID}], nil
}

func (s *SocialStore) AddLike(_ context.Context, photoID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[markKey{photoID, userID}] = true
	return nil
}

func (s *SocialStore) RemoveLike(_ context.Context, photoID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.likes, markKey{photoID, userID})
	return nil
}

func (s *SocialStore) LikeCount(_ context.Context, photoID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for k := range s.likes {
		if k.photoID == photoID {
			count++
		}
	}
	return count, nil
}

func (s *SocialStore) AddComment(_ context.Context, photoID, userID, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Comment{
		ID:        uuid.NewString(),
		PhotoID:   photoID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (s *SocialStore) Comments(_ context.Context, photoID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.PhotoID == photoID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *SocialStore) GetComment(_ context.Context, commentID string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[commentID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *SocialStore) DeleteComment(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, commentID)
	return nil
}

func (s *SocialStore) SavedExists(_ context.Context, photoID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[markKey{photoID, userID}], nil
}

func (s *SocialStore) AddSaved(_ context.Context, photoID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[markKey{photoID, userID}] = true
	return nil
}

func (s *SocialStore) RemoveSaved(_ context.Context, photoID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, markKey{photoID, userID})
	return nil
}
