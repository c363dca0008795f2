package memory

import (
	"context"
	"sync"
	"time"

	"github.com/prime-studio/studio-backend/internal/models"
)

// ProfileStore is an in-memory implementation of storage.ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // id -> profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*models.Profile)}
}

func (s *ProfileStore) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *ProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *ProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *ProfileStore) GetByIDs(_ context.Context, ids []string) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *ProfileStore) Update(_ context.Context, id, displayName, username, avatarURL string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	p.DisplayName = displayName
	p.Username = username
	p.AvatarURL = avatarURL
	cp := *p
	return &cp, nil
}
