// Package memory provides in-memory store implementations for development
// and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/outflo/outreach-service/internal/outreach"
)

// ProfileStore keeps scraped profiles in a map keyed by canonical URL.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]outreach.Profile
	seq      map[string]int
	next     int
}

// NewProfileStore constructs a ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]outreach.Profile),
		seq:      make(map[string]int),
	}
}

// Insert stores the profile unless its URL is already present.
// First-write-wins: an existing record is returned untouched.
func (s *ProfileStore) Insert(_ context.Context, profile outreach.Profile) (outreach.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[profile.ProfileURL]; ok {
		return existing, false, nil
	}
	s.profiles[profile.ProfileURL] = profile
	s.seq[profile.ProfileURL] = s.next
	s.next++
	return profile, true, nil
}

// GetByURL fetches a profile by canonical URL.
func (s *ProfileStore) GetByURL(_ context.Context, profileURL string) (outreach.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[profileURL]
	if !ok {
		return outreach.Profile{}, outreach.ErrNotFound
	}
	return profile, nil
}

// ListRecent returns up to limit profiles, newest scrape first.
func (s *ProfileStore) ListRecent(_ context.Context, limit int) ([]outreach.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]outreach.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].ScrapedAt.Equal(all[j].ScrapedAt) {
			return all[i].ScrapedAt.After(all[j].ScrapedAt)
		}
		return s.seq[all[i].ProfileURL] > s.seq[all[j].ProfileURL]
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
