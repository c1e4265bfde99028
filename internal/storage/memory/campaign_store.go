package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/outflo/outreach-service/internal/outreach"
)

// CampaignStore keeps campaigns in memory with soft-delete semantics.
type CampaignStore struct {
	mu        sync.RWMutex
	campaigns map[string]outreach.Campaign
	seq       map[string]int
	next      int
	clock     outreach.Clock
}

// NewCampaignStore constructs a CampaignStore using the given clock for
// created/updated timestamps.
func NewCampaignStore(clock outreach.Clock) *CampaignStore {
	return &CampaignStore{
		campaigns: make(map[string]outreach.Campaign),
		seq:       make(map[string]int),
		clock:     clock,
	}
}

// Create validates and persists a new campaign. Status defaults to ACTIVE.
func (s *CampaignStore) Create(_ context.Context, input outreach.CampaignInput) (outreach.Campaign, error) {
	if err := input.Validate(); err != nil {
		return outreach.Campaign{}, err
	}
	status := input.Status
	if status == "" {
		status = outreach.CampaignStatusActive
	}
	now := s.clock.Now()
	campaign := outreach.Campaign{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		Leads:       cloneStrings(input.Leads),
		AccountIDs:  cloneStrings(input.AccountIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.ID] = campaign
	s.seq[campaign.ID] = s.next
	s.next++
	return campaign, nil
}

// List returns all campaigns except soft-deleted ones, oldest first.
func (s *CampaignStore) List(_ context.Context) ([]outreach.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]outreach.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		if c.Status == outreach.CampaignStatusDeleted {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

// GetByID fetches a campaign unless it is absent or soft-deleted.
func (s *CampaignStore) GetByID(_ context.Context, id string) (outreach.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, ok := s.campaigns[id]
	if !ok || campaign.Status == outreach.CampaignStatusDeleted {
		return outreach.Campaign{}, outreach.ErrNotFound
	}
	return campaign, nil
}

// Update applies a partial update to a non-deleted campaign.
func (s *CampaignStore) Update(_ context.Context, id string, update outreach.CampaignUpdate) (outreach.Campaign, error) {
	if err := update.Validate(); err != nil {
		return outreach.Campaign{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[id]
	if !ok || campaign.Status == outreach.CampaignStatusDeleted {
		return outreach.Campaign{}, outreach.ErrNotFound
	}
	if update.Name != nil {
		campaign.Name = *update.Name
	}
	if update.Description != nil {
		campaign.Description = *update.Description
	}
	if update.Status != nil {
		campaign.Status = *update.Status
	}
	if update.Leads != nil {
		campaign.Leads = cloneStrings(*update.Leads)
	}
	if update.AccountIDs != nil {
		campaign.AccountIDs = cloneStrings(*update.AccountIDs)
	}
	campaign.UpdatedAt = s.clock.Now()
	s.campaigns[id] = campaign
	return campaign, nil
}

// SoftDelete marks a non-deleted campaign DELETED. Deleting an unknown or
// already-deleted id reports ErrNotFound, not a state change.
func (s *CampaignStore) SoftDelete(_ context.Context, id string) (outreach.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[id]
	if !ok || campaign.Status == outreach.CampaignStatusDeleted {
		return outreach.Campaign{}, outreach.ErrNotFound
	}
	campaign.Status = outreach.CampaignStatusDeleted
	campaign.UpdatedAt = s.clock.Now()
	s.campaigns[id] = campaign
	return campaign, nil
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
