package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prime-studio/studio-backend/internal/models"
)

// ProfileStore implements storage.ProfileStore on PostgreSQL.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore creates a ProfileStore on top of a shared connection pool.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

const profileColumns = `id, email, password_hash, display_name, username, avatar_url, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.Username, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile row.
func (s *ProfileStore) Create(ctx context.Context, p *models.Profile) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, password_hash, display_name, username, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, p.ID, p.Email, p.PasswordHash, p.DisplayName, p.Username, p.AvatarURL).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID returns a profile, or (nil, nil) when absent.
func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

// GetByEmail returns a profile, or (nil, nil) when absent.
func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

// GetByIDs returns the profiles for the given IDs; absent IDs are skipped.
func (s *ProfileStore) GetByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// Update rewrites the mutable display fields and returns the fresh row.
func (s *ProfileStore) Update(ctx context.Context, id, displayName, username, avatarURL string) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx, `
		UPDATE profiles
		SET display_name = $2, username = $3, avatar_url = $4
		WHERE id = $1
		RETURNING `+profileColumns,
		id, displayName, username, avatarURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
