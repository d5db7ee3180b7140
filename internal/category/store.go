package category

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new CategoryStore.
func New(db *sql.DB) CategoryStore {
	return &store{db: db}
}

// Provision upserts the catalog by code and returns how many new categories
// were created. Existing rows are left untouched so codes stay stable.
func (s *store) Provision(ctx context.Context, catalog []Seed) (int, error) {
	created := 0
	for _, seed := range catalog {
		code := strings.ToUpper(strings.TrimSpace(seed.Code))
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO categories (name, code, description, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(code) DO NOTHING
		`, seed.Name, code, seed.Description, time.Now().Unix())
		if err != nil {
			return created, fmt.Errorf("failed to provision category %s: %w", code, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return created, err
		}
		created += int(n)
	}
	log.Info("Category catalog provisioned", "new", created, "total", len(catalog))
	return created, nil
}

func (s *store) All(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, description, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}
	return categories, rows.Err()
}

// GetByCode resolves a category by its code, case-insensitively.
// Resolution is a lookup; unknown codes are never created.
func (s *store) GetByCode(ctx context.Context, code string) (*Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, description, created_at
		FROM categories
		WHERE code = ?
	`, strings.ToUpper(strings.TrimSpace(code)))
	return scanCategoryRow(row)
}

func (s *store) GetByID(ctx context.Context, id int64) (*Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, description, created_at
		FROM categories
		WHERE id = ?
	`, id)
	return scanCategoryRow(row)
}

func scanCategory(scanner interface{ Scan(...any) error }) (*Category, error) {
	var cat Category
	var createdAt int64
	if err := scanner.Scan(&cat.ID, &cat.Name, &cat.Code, &cat.Description, &createdAt); err != nil {
		return nil, err
	}
	cat.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &cat, nil
}

func scanCategoryRow(row *sql.Row) (*Category, error) {
	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}
