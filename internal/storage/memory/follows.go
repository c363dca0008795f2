package memory

import (
	"context"
	"sync"
)

// FollowStore is an in-memory implementation of storage.FollowStore.
type FollowStore struct {
	mu    sync.RWMutex
	edges map[string]map[string]bool // followerID -> set of followingID
}

func NewFollowStore() *FollowStore {
	return &FollowStore{edges: make(map[string]map[string]bool)}
}

func (s *FollowStore) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edges[followerID][followingID], nil
}

func (s *FollowStore) Follow(_ context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edges[followerID] == nil {
		s.edges[followerID] = make(map[string]bool)
	}
	s.edges[followerID][followingID] = true
	return nil
}

func (s *FollowStore) Unfollow(_ context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges[followerID], followingID)
	return nil
}

func (s *FollowStore) Following(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id := range s.edges[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *FollowStore) Followers(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for follower, set := range s.edges {
		if set[userID] {
			ids = append(ids, follower)
		}
	}
	return ids, nil
}
