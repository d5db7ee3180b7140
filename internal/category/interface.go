package category

import "context"

// CategoryStore defines read access to categories plus the single
// provisioning write path. Nothing else ever writes category rows.
type CategoryStore interface {
	Provision(ctx context.Context, catalog []Seed) (int, error)
	All(ctx context.Context) ([]Category, error)
	GetByCode(ctx context.Context, code string) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
}
