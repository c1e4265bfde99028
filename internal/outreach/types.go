// Package outreach defines core types shared across subsystems.
package outreach

import "time"

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

// Campaign status values persisted in the campaign store.
const (
	CampaignStatusActive   CampaignStatus = "ACTIVE"
	CampaignStatusInactive CampaignStatus = "INACTIVE"
	CampaignStatusDeleted  CampaignStatus = "DELETED"
)

// ValidStatus reports whether s is one of the three known status values.
func ValidStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusActive, CampaignStatusInactive, CampaignStatusDeleted:
		return true
	}
	return false
}

// Profile is one scraped person record, keyed by canonical profile URL.
// Records are written once on first discovery and never mutated.
type Profile struct {
	FullName   string    `json:"fullName"`
	JobTitle   string    `json:"jobTitle"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	ProfileURL string    `json:"profileUrl"`
	ScrapedAt  time.Time `json:"scrapedAt"`
}

// Candidate is a provisional record read off a rendered results page,
// before validation decides whether it becomes a stored Profile.
type Candidate struct {
	FullName    string `json:"fullName"`
	CurrentRole string `json:"currentRole"`
	Location    string `json:"location"`
	ProfileLink string `json:"profileLink"`
}

// Campaign aggregates leads and sender accounts for one outreach effort.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      CampaignStatus `json:"status"`
	Leads       []string       `json:"leads"`
	AccountIDs  []string       `json:"accountIDs"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CampaignInput carries the caller-supplied fields for campaign creation.
type CampaignInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      CampaignStatus `json:"status"`
	Leads       []string       `json:"leads"`
	AccountIDs  []string       `json:"accountIDs"`
}

// Validate enforces required fields and a known status value.
func (in CampaignInput) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.Description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if in.Status != "" && !ValidStatus(in.Status) {
		return &ValidationError{Field: "status", Reason: "must be ACTIVE, INACTIVE or DELETED"}
	}
	return nil
}

// CampaignUpdate carries a partial update; nil fields are left unchanged.
type CampaignUpdate struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Status      *CampaignStatus `json:"status"`
	Leads       *[]string       `json:"leads"`
	AccountIDs  *[]string       `json:"accountIDs"`
}

// Validate rejects updates that would blank required fields or set an
// unknown status.
func (u CampaignUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if u.Description != nil && *u.Description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if u.Status != nil && !ValidStatus(*u.Status) {
		return &ValidationError{Field: "status", Reason: "must be ACTIVE, INACTIVE or DELETED"}
	}
	return nil
}

// ProfileFacts carries the profile fields interpolated into the outreach
// prompt. All fields are required by the API; empty strings pass through.
type ProfileFacts struct {
	Name     string `json:"name"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}
