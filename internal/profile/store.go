package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// New creates a new ProfileStore.
func New(db *sql.DB) ProfileStore {
	return &store{db: db}
}

func (s *store) Create(ctx context.Context, p Profile, apiToken string) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, picture, api_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Username, p.Picture, apiToken, now, now)
	if err != nil {
		return fmt.Errorf("failed to create profile %s: %w", p.Username, err)
	}
	return nil
}

func (s *store) GetByID(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, picture, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`, id)
	return scanProfile(row)
}

func (s *store) GetByAPIToken(ctx context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, picture, created_at, updated_at
		FROM profiles
		WHERE api_token = ?
	`, token)
	return scanProfile(row)
}

func (s *store) UpdatePicture(ctx context.Context, id string, picture string) (*Profile, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET picture = ?, updated_at = ? WHERE id = ?
	`, picture, time.Now().Unix(), id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.Username, &p.Picture, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &p, nil
}
