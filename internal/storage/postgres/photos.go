package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prime-studio/studio-backend/internal/models"
)

// PhotoStore implements storage.PhotoStore on PostgreSQL.
type PhotoStore struct {
	pool *pgxpool.Pool
}

// NewPhotoStore creates a PhotoStore on top of a shared connection pool.
func NewPhotoStore(pool *pgxpool.Pool) *PhotoStore {
	return &PhotoStore{pool: pool}
}

const photoColumns = `id, title, category, model_name, image_url, host_public_id, active, user_id, created_at`

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	p := &models.Photo{}
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.ModelName, &p.ImageURL,
		&p.HostPublicID, &p.Active, &p.UserID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Insert writes a new photo row.
func (s *PhotoStore) Insert(ctx context.Context, p *models.Photo) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO photos (id, title, category, model_name, image_url, host_public_id, active, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, p.ID, p.Title, p.Category, p.ModelName, p.ImageURL, p.HostPublicID, p.Active, p.UserID).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// GetByID returns a photo, or (nil, nil) when absent.
func (s *PhotoStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	p, err := scanPhoto(s.pool.QueryRow(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get photo by id: %w", err)
	}
	return p, nil
}

// List returns photos newest first. Empty category/userID mean no filter.
func (s *PhotoStore) List(ctx context.Context, category, userID string, activeOnly bool) ([]models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE 1=1`
	var args []any
	if activeOnly {
		query += ` AND active = TRUE`
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return photos, nil
}

// Delete removes a photo row.
func (s *PhotoStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
