package profile

import "context"

// ProfileStore defines the persistence operations for player profiles.
// Account signup itself lives in an external identity layer; this store only
// needs creation (seeding), token resolution for request auth, and the
// owner-facing picture update.
type ProfileStore interface {
	Create(ctx context.Context, p Profile, apiToken string) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByAPIToken(ctx context.Context, token string) (*Profile, error)
	UpdatePicture(ctx context.Context, id string, picture string) (*Profile, error)
}
