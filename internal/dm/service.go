package dm

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/prime-studio/studio-backend/internal/metrics"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage"
)

// Service implements the direct-messaging rules: the mutual-follow gate,
// the conversation resolver, message list/send and peer discovery.
// Stores are injected so tests run against the memory implementations.
type Service struct {
	Follows       storage.FollowStore
	Conversations storage.ConversationStore
	Profiles      storage.ProfileStore
}

// NewService wires a messaging service over the given stores.
func NewService(follows storage.FollowStore, convs storage.ConversationStore, profiles storage.ProfileStore) *Service {
	return &Service{Follows: follows, Conversations: convs, Profiles: profiles}
}

// Allowed reports whether a and b may exchange direct messages: both
// follow edges must exist. The two lookups are independent reads and run
// concurrently.
func (s *Service) Allowed(ctx context.Context, a, b string) (bool, error) {
	var ab, ba bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ab, err = s.Follows.Exists(gctx, a, b)
		return err
	})
	g.Go(func() error {
		var err error
		ba, err = s.Follows.Exists(gctx, b, a)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, fmt.Errorf("check mutual follow: %w", err)
	}
	return ab && ba, nil
}

// Resolve maps an unordered user pair to its single dm conversation,
// creating it on first use. Repeated calls for the same pair return the
// same conversation.
func (s *Service) Resolve(ctx context.Context, a, b string) (*models.Conversation, error) {
	key := Key(a, b)
	conv, err := s.Conversations.GetByDMKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	conv, created, err := s.Conversations.CreateDM(ctx, key, a, b)
	if err != nil {
		return nil, err
	}
	// A lost first-contact race returns the winner's conversation; only a
	// genuine insert counts.
	if created {
		metrics.ConversationsCreated.Inc()
	}
	return conv, nil
}

// ListMessages returns the full message history between viewer and peer,
// oldest first. blocked is true when the pair is not mutually following;
// that is a normal state, not an error, and no conversation is resolved
// for it.
func (s *Service) ListMessages(ctx context.Context, viewerID, peerID string) (msgs []models.Message, blocked bool, err error) {
	allowed, err := s.Allowed(ctx, viewerID, peerID)
	if err != nil {
		return nil, false, err
	}
	if !allowed {
		return nil, true, nil
	}
	conv, err := s.Resolve(ctx, viewerID, peerID)
	if err != nil {
		return nil, false, err
	}
	msgs, err = s.Conversations.Messages(ctx, conv.ID)
	if err != nil {
		return nil, false, err
	}
	return msgs, false, nil
}

// SendMessage appends a message from sender to receiver. blocked is true
// when the pair is not mutually following; nothing is written in that
// case.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID, body string) (blocked bool, err error) {
	allowed, err := s.Allowed(ctx, senderID, receiverID)
	if err != nil {
		return false, err
	}
	if !allowed {
		return true, nil
	}
	conv, err := s.Resolve(ctx, senderID, receiverID)
	if err != nil {
		return false, err
	}
	if _, err := s.Conversations.AddMessage(ctx, conv.ID, senderID, body); err != nil {
		return false, err
	}
	return false, nil
}

// Peers returns the users mutually following userID, the candidate set of
// messaging partners. A convenience read: Allowed remains the
// authoritative check at message time.
func (s *Service) Peers(ctx context.Context, userID string) ([]models.Peer, error) {
	var following, followers []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		following, err = s.Follows.Following(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = s.Follows.Followers(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load follow sets: %w", err)
	}

	mutual := lo.Intersect(followers, following)
	if len(mutual) == 0 {
		return []models.Peer{}, nil
	}

	profiles, err := s.Profiles.GetByIDs(ctx, mutual)
	if err != nil {
		return nil, fmt.Errorf("load peer profiles: %w", err)
	}
	peers := make([]models.Peer, 0, len(profiles))
	for i := range profiles {
		peers = append(peers, profiles[i].AsPeer())
	}
	return peers, nil
}
