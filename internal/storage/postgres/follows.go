package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowStore implements storage.FollowStore on PostgreSQL.
type FollowStore struct {
	pool *pgxpool.Pool
}

// NewFollowStore creates a FollowStore on top of a shared connection pool.
func NewFollowStore(pool *pgxpool.Pool) *FollowStore {
	return &FollowStore{pool: pool}
}

// Exists reports whether the directed edge follower -> following is present.
func (s *FollowStore) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND following_id = $2
		)
	`, followerID, followingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check follow edge: %w", err)
	}
	return exists, nil
}

// Follow inserts the edge; inserting an existing edge is a no-op.
func (s *FollowStore) Follow(ctx context.Context, followerID, followingID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("insert follow edge: %w", err)
	}
	return nil
}

// Unfollow removes the edge; removing an absent edge is a no-op.
func (s *FollowStore) Unfollow(ctx context.Context, followerID, followingID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	return nil
}

// Following returns the IDs the given user follows.
func (s *FollowStore) Following(ctx context.Context, userID string) ([]string, error) {
	return s.edgeColumn(ctx, `
		SELECT following_id FROM follows WHERE follower_id = $1
	`, userID)
}

// Followers returns the IDs following the given user.
func (s *FollowStore) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.edgeColumn(ctx, `
		SELECT follower_id FROM follows WHERE following_id = $1
	`, userID)
}

func (s *FollowStore) edgeColumn(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query follow edges: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follow edge: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follow edges: %w", err)
	}
	return ids, nil
}
