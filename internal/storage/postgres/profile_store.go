package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/outflo/outreach-service/internal/outreach"
)

// ProfileStore persists scraped profiles with a uniqueness constraint on
// the canonical profile URL.
type ProfileStore struct {
	pool Pool
}

// NewProfileStore constructs a ProfileStore on an existing pool.
func NewProfileStore(pool Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

const insertProfileSQL = `
INSERT INTO profiles (profile_url, full_name, job_title, company, location, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (profile_url) DO NOTHING`

// Insert writes the profile unless its canonical URL is already stored.
// The conflict clause makes the insert-if-absent atomic, so concurrent
// scrape runs cannot produce duplicate rows.
func (s *ProfileStore) Insert(ctx context.Context, profile outreach.Profile) (outreach.Profile, bool, error) {
	if profile.ProfileURL == "" {
		return outreach.Profile{}, false, fmt.Errorf("profile url is required")
	}
	tag, err := s.pool.Exec(ctx, insertProfileSQL,
		profile.ProfileURL,
		profile.FullName,
		profile.JobTitle,
		profile.Company,
		profile.Location,
		profile.ScrapedAt,
	)
	if err != nil {
		return outreach.Profile{}, false, fmt.Errorf("insert profile: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return profile, true, nil
	}
	existing, err := s.GetByURL(ctx, profile.ProfileURL)
	if err != nil {
		return outreach.Profile{}, false, err
	}
	return existing, false, nil
}

const selectProfileSQL = `
SELECT profile_url, full_name, job_title, company, location, scraped_at
FROM profiles
WHERE profile_url = $1`

// GetByURL fetches one profile by canonical URL.
func (s *ProfileStore) GetByURL(ctx context.Context, profileURL string) (outreach.Profile, error) {
	var p outreach.Profile
	err := s.pool.QueryRow(ctx, selectProfileSQL, profileURL).Scan(
		&p.ProfileURL,
		&p.FullName,
		&p.JobTitle,
		&p.Company,
		&p.Location,
		&p.ScrapedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outreach.Profile{}, outreach.ErrNotFound
		}
		return outreach.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

const listProfilesSQL = `
SELECT profile_url, full_name, job_title, company, location, scraped_at
FROM profiles
ORDER BY scraped_at DESC
LIMIT $1`

// ListRecent returns up to limit profiles, newest scrape first.
func (s *ProfileStore) ListRecent(ctx context.Context, limit int) ([]outreach.Profile, error) {
	rows, err := s.pool.Query(ctx, listProfilesSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []outreach.Profile
	for rows.Next() {
		var p outreach.Profile
		if err := rows.Scan(&p.ProfileURL, &p.FullName, &p.JobTitle, &p.Company, &p.Location, &p.ScrapedAt); err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}
	return profiles, nil
}
