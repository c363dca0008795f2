package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prime-studio/studio-backend/internal/models"
)

// SocialStore implements storage.SocialStore on PostgreSQL: likes,
// comments and saved-photo marks.
type SocialStore struct {
	pool *pgxpool.Pool
}

// NewSocialStore creates a SocialStore on top of a shared connection pool.
func NewSocialStore(pool *pgxpool.Pool) *SocialStore {
	return &SocialStore{pool: pool}
}

func (s *SocialStore) LikeExists(ctx context.Context, photoID, userID string) (bool, error) {
	return s.markExists(ctx, "likes", photoID, userID)
}

func (s *SocialStore) AddLike(ctx context.Context, photoID, userID string) error {
	return s.addMark(ctx, "likes", photoID, userID)
}

func (s *SocialStore) RemoveLike(ctx context.Context, photoID, userID string) error {
	return s.removeMark(ctx, "likes", photoID, userID)
}

// LikeCount returns the number of likes on a photo.
func (s *SocialStore) LikeCount(ctx context.Context, photoID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE photo_id = $1`, photoID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// AddComment inserts a comment and returns the stored row.
func (s *SocialStore) AddComment(ctx context.Context, photoID, userID, content string) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO comments (id, photo_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, photo_id, user_id, content, created_at
	`, uuid.NewString(), photoID, userID, content).Scan(
		&c.ID, &c.PhotoID, &c.UserID, &c.Content, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// Comments returns a photo's comments newest first, with the author email
// joined in for display.
func (s *SocialStore) Comments(ctx context.Context, photoID string) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.photo_id, c.user_id, c.content, COALESCE(p.email, ''), c.created_at
		FROM comments c
		LEFT JOIN profiles p ON p.id = c.user_id
		WHERE c.photo_id = $1
		ORDER BY c.created_at DESC
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Content, &c.AuthorEmail, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// GetComment returns a comment, or (nil, nil) when absent.
func (s *SocialStore) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, photo_id, user_id, content, created_at
		FROM comments WHERE id = $1
	`, commentID).Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (s *SocialStore) DeleteComment(ctx context.Context, commentID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *SocialStore) SavedExists(ctx context.Context, photoID, userID string) (bool, error) {
	return s.markExists(ctx, "saved_photos", photoID, userID)
}

func (s *SocialStore) AddSaved(ctx context.Context, photoID, userID string) error {
	return s.addMark(ctx, "saved_photos", photoID, userID)
}

func (s *SocialStore) RemoveSaved(ctx context.Context, photoID, userID string) error {
	return s.removeMark(ctx, "saved_photos", photoID, userID)
}

// Likes and saved photos share the same shape: a (photo_id, user_id) mark
// table with a unique pair constraint. The table name is fixed by the
// caller, never user input.

func (s *SocialStore) markExists(ctx context.Context, table, photoID, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM `+table+`
			WHERE photo_id = $1 AND user_id = $2
		)
	`, photoID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s mark: %w", table, err)
	}
	return exists, nil
}

func (s *SocialStore) addMark(ctx context.Context, table, photoID, userID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+table+` (id, photo_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (photo_id, user_id) DO NOTHING
	`, uuid.NewString(), photoID, userID)
	if err != nil {
		return fmt.Errorf("insert %s mark: %w", table, err)
	}
	return nil
}

func (s *SocialStore) removeMark(ctx context.Context, table, photoID, userID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM `+table+`
		WHERE photo_id = $1 AND user_id = $2
	`, photoID, userID)
	if err != nil {
		return fmt.Errorf("delete %s mark: %w", table, err)
	}
	return nil
}
