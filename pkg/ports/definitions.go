package ports

import (
	"context"

	"github.com/warinb/linkgrove/pkg/core/domain"
)

// ProfileRepository defines storage operations for profiles and their link
// buckets. Implementations return domain.ErrProfileNotFound /
// domain.ErrLinkNotFound for missing records; any other error is a
// persistence failure. A failed lookup must not leave partial writes behind.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)
	GetProfileByOwner(ctx context.Context, owner string) (*domain.Profile, error)
	GetProfileBySubdomain(ctx context.Context, subdomain string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error

	// PutLinks replaces a profile's link bucket and profile record in one
	// write cycle; every link mutation goes through it so the bucket and the
	// profile counters stay in sync.
	PutLinks(ctx context.Context, profile *domain.Profile, links []domain.Link) error
	GetLinks(ctx context.Context, profileID string) ([]domain.Link, error)

	// For migration. Restore keeps the exported profile id and counters
	// as-is and advances the id-minting counter past it.
	Dump(ctx context.Context) ([]domain.ProfileExport, error)
	Restore(ctx context.Context, export domain.ProfileExport) error
}

// ProfileService defines business logic for profile records.
type ProfileService interface {
	CreateProfile(ctx context.Context, owner, username, displayName, bio, imageURL, subdomain string) (*domain.Profile, *domain.Receipt, error)
	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)
	GetProfileByOwner(ctx context.Context, owner string) (*domain.Profile, error)
	GetProfileBySubdomain(ctx context.Context, subdomain string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profileID, displayName, bio string) (*domain.Receipt, error)
	UpdateProfileImage(ctx context.Context, profileID, imageURL string) (*domain.Receipt, error)
	UpdateSubdomain(ctx context.Context, profileID, subdomain string) (*domain.Receipt, error)
}

// LinkService defines business logic for a profile's ordered link list.
type LinkService interface {
	AddLink(ctx context.Context, profileID, title, url, icon, banner string) (*domain.Link, *domain.Receipt, error)
	UpdateLink(ctx context.Context, profileID string, linkID int64, title, url, icon, banner string) (*domain.Receipt, error)
	DeleteLink(ctx context.Context, profileID string, linkID int64) (*domain.Receipt, error)
	ToggleLink(ctx context.Context, profileID string, linkID int64, isActive bool) (*domain.Receipt, error)
	ReorderLink(ctx context.Context, profileID string, linkID, newOrder int64) (*domain.Receipt, error)
	GetLink(ctx context.Context, profileID string, linkID int64) (*domain.Link, error)
	GetProfileLinks(ctx context.Context, profileID string) ([]domain.Link, error)
}
