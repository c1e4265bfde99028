package outreach

import (
	"context"
	"time"
)

// ProfileStore persists scraped profiles keyed by canonical URL.
type ProfileStore interface {
	// Insert stores the profile unless a record with the same canonical URL
	// already exists. It returns the stored record and whether a new row was
	// written. Existing records are never overwritten.
	Insert(ctx context.Context, profile Profile) (Profile, bool, error)
	// GetByURL returns the record for the canonical URL or ErrNotFound.
	GetByURL(ctx context.Context, profileURL string) (Profile, error)
	// ListRecent returns up to limit profiles, newest scrape first.
	ListRecent(ctx context.Context, limit int) ([]Profile, error)
}

// CampaignStore persists campaigns with soft-delete semantics: rows with
// status DELETED are invisible to every operation except Create.
type CampaignStore interface {
	Create(ctx context.Context, input CampaignInput) (Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	GetByID(ctx context.Context, id string) (Campaign, error)
	Update(ctx context.Context, id string, update CampaignUpdate) (Campaign, error)
	SoftDelete(ctx context.Context, id string) (Campaign, error)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}
