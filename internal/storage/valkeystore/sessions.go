package valkeystore

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const sessionPrefix = "session:"

// SessionStore implements storage.SessionStore on Valkey. Sessions expire
// via key TTL; logout deletes the key so access tokens can be revoked
// server-side before they expire.
type SessionStore struct {
	client valkey.Client
}

// NewSessionStore connects to Valkey and verifies the connection.
func NewSessionStore(ctx context.Context, addr string) (*SessionStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}
	return &SessionStore{client: client}, nil
}

func (s *SessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	err := s.client.Do(ctx, s.client.B().Set().
		Key(sessionPrefix+sessionID).Value(userID).
		Ex(ttl).Build()).Error()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session's user ID, or "" when absent or expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Do(ctx, s.client.B().Get().
		Key(sessionPrefix + sessionID).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", nil
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	err := s.client.Do(ctx, s.client.B().Del().
		Key(sessionPrefix + sessionID).Build()).Error()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *SessionStore) Close() {
	s.client.Close()
}
