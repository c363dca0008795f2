package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prime-studio/studio-backend/internal/models"
)

// PhotoStore is an in-memory implementation of storage.PhotoStore.
type PhotoStore struct {
	mu     sync.RWMutex
	photos map[string]*models.Photo // id -> photo
}

func NewPhotoStore() *PhotoStore {
	return &PhotoStore{photos: make(map[string]*models.Photo)}
}

func (s *PhotoStore) Insert(_ context.Context, p *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	s.photos[p.ID] = &cp
	return nil
}

func (s *PhotoStore) GetByID(_ context.Context, id string) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.photos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *PhotoStore) List(_ context.Context, category, userID string, activeOnly bool) ([]models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Photo
	for _, p := range s.photos {
		if activeOnly && !p.Active {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if userID != "" && p.UserID != userID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PhotoStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.photos, id)
	return nil
}
