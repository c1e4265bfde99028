package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/outflo/outreach-service/internal/outreach"
)

// CampaignStore persists campaigns. Rows with status DELETED stay in the
// table but are invisible to reads and mutations.
type CampaignStore struct {
	pool Pool
}

// NewCampaignStore constructs a CampaignStore on an existing pool.
func NewCampaignStore(pool Pool) *CampaignStore {
	return &CampaignStore{pool: pool}
}

const campaignColumns = `id, name, description, status, leads, account_ids, created_at, updated_at`

const createCampaignSQL = `
INSERT INTO campaigns (name, description, status, leads, account_ids)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + campaignColumns

// Create validates and persists a new campaign. Status defaults to ACTIVE.
func (s *CampaignStore) Create(ctx context.Context, input outreach.CampaignInput) (outreach.Campaign, error) {
	if err := input.Validate(); err != nil {
		return outreach.Campaign{}, err
	}
	status := input.Status
	if status == "" {
		status = outreach.CampaignStatusActive
	}
	leads := input.Leads
	if leads == nil {
		leads = []string{}
	}
	accountIDs := input.AccountIDs
	if accountIDs == nil {
		accountIDs = []string{}
	}
	row := s.pool.QueryRow(ctx, createCampaignSQL,
		input.Name, input.Description, string(status), leads, accountIDs)
	campaign, err := scanCampaign(row)
	if err != nil {
		return outreach.Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

const listCampaignsSQL = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE status <> 'DELETED'
ORDER BY created_at ASC`

// List returns all non-deleted campaigns, oldest first.
func (s *CampaignStore) List(ctx context.Context) ([]outreach.Campaign, error) {
	rows, err := s.pool.Query(ctx, listCampaignsSQL)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []outreach.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign row: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign rows: %w", err)
	}
	return campaigns, nil
}

const getCampaignSQL = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE id = $1 AND status <> 'DELETED'`

// GetByID fetches a campaign unless it is absent or soft-deleted.
func (s *CampaignStore) GetByID(ctx context.Context, id string) (outreach.Campaign, error) {
	campaignID, err := uuid.Parse(id)
	if err != nil {
		return outreach.Campaign{}, outreach.ErrNotFound
	}
	campaign, err := scanCampaign(s.pool.QueryRow(ctx, getCampaignSQL, campaignID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outreach.Campaign{}, outreach.ErrNotFound
		}
		return outreach.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

// Update applies a partial update to a non-deleted campaign and refreshes
// updated_at.
func (s *CampaignStore) Update(ctx context.Context, id string, update outreach.CampaignUpdate) (outreach.Campaign, error) {
	campaignID, err := uuid.Parse(id)
	if err != nil {
		return outreach.Campaign{}, outreach.ErrNotFound
	}
	if err := update.Validate(); err != nil {
		return outreach.Campaign{}, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{}
	argIdx := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.Status != nil {
		addSet("status", string(*update.Status))
	}
	if update.Leads != nil {
		addSet("leads", *update.Leads)
	}
	if update.AccountIDs != nil {
		addSet("account_ids", *update.AccountIDs)
	}

	query := fmt.Sprintf(`
UPDATE campaigns
SET %s
WHERE id = $%d AND status <> 'DELETED'
RETURNING %s`, strings.Join(sets, ", "), argIdx, campaignColumns)
	args = append(args, campaignID)

	campaign, err := scanCampaign(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outreach.Campaign{}, outreach.ErrNotFound
		}
		return outreach.Campaign{}, fmt.Errorf("update campaign: %w", err)
	}
	return campaign, nil
}

const softDeleteCampaignSQL = `
UPDATE campaigns
SET status = 'DELETED', updated_at = now()
WHERE id = $1 AND status <> 'DELETED'
RETURNING ` + campaignColumns

// SoftDelete marks a non-deleted campaign DELETED. Unknown and
// already-deleted ids report ErrNotFound.
func (s *CampaignStore) SoftDelete(ctx context.Context, id string) (outreach.Campaign, error) {
	campaignID, err := uuid.Parse(id)
	if err != nil {
		return outreach.Campaign{}, outreach.ErrNotFound
	}
	campaign, err := scanCampaign(s.pool.QueryRow(ctx, softDeleteCampaignSQL, campaignID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outreach.Campaign{}, outreach.ErrNotFound
		}
		return outreach.Campaign{}, fmt.Errorf("soft delete campaign: %w", err)
	}
	return campaign, nil
}

func scanCampaign(row pgx.Row) (outreach.Campaign, error) {
	var (
		c      outreach.Campaign
		rowID  uuid.UUID
		status string
	)
	err := row.Scan(
		&rowID,
		&c.Name,
		&c.Description,
		&status,
		&c.Leads,
		&c.AccountIDs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return outreach.Campaign{}, err
	}
	c.ID = rowID.String()
	c.Status = outreach.CampaignStatus(status)
	return c, nil
}
