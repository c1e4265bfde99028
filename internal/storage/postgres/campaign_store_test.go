package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/outflo/outreach-service/internal/outreach"
)

var campaignCols = []string{
	"id", "name", "description", "status", "leads", "account_ids", "created_at", "updated_at",
}

func TestCampaignStoreCreateReturnsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)
	id := uuid.New()
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery("INSERT INTO campaigns").
		WithArgs("Q3 push", "SaaS founders", "ACTIVE", []string{"https://www.linkedin.com/in/a"}, []string{"acct-1"}).
		WillReturnRows(pgxmock.NewRows(campaignCols).AddRow(
			id, "Q3 push", "SaaS founders", "ACTIVE",
			[]string{"https://www.linkedin.com/in/a"}, []string{"acct-1"}, now, now,
		))

	campaign, err := store.Create(context.Background(), outreach.CampaignInput{
		Name:        "Q3 push",
		Description: "SaaS founders",
		Leads:       []string{"https://www.linkedin.com/in/a"},
		AccountIDs:  []string{"acct-1"},
	})
	require.NoError(t, err)
	require.Equal(t, id.String(), campaign.ID)
	require.Equal(t, outreach.CampaignStatusActive, campaign.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreCreateRejectsEmptyName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)

	_, err = store.Create(context.Background(), outreach.CampaignInput{Description: "d"})
	var vErr *outreach.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreGetByIDInvalidUUIDIsNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)

	_, err = store.GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, outreach.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreGetByIDFiltersDeleted(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = store.GetByID(context.Background(), id.String())
	require.ErrorIs(t, err, outreach.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreUpdateAppliesPartialFields(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)
	id := uuid.New()
	created := time.Unix(1700000000, 0).UTC()
	updated := time.Unix(1700000500, 0).UTC()

	mock.ExpectQuery("UPDATE campaigns").
		WithArgs("renamed", "ACTIVE", id).
		WillReturnRows(pgxmock.NewRows(campaignCols).AddRow(
			id, "renamed", "unchanged", "ACTIVE", []string{}, []string{}, created, updated,
		))

	name := "renamed"
	status := outreach.CampaignStatusActive
	campaign, err := store.Update(context.Background(), id.String(), outreach.CampaignUpdate{
		Name:   &name,
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", campaign.Name)
	require.Equal(t, "unchanged", campaign.Description)
	require.Equal(t, updated, campaign.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreUpdateDeletedIsNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)
	id := uuid.New()

	mock.ExpectQuery("UPDATE campaigns").
		WithArgs("renamed", id).
		WillReturnError(pgx.ErrNoRows)

	name := "renamed"
	_, err = store.Update(context.Background(), id.String(), outreach.CampaignUpdate{Name: &name})
	require.ErrorIs(t, err, outreach.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreSoftDelete(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)
	id := uuid.New()
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery("UPDATE campaigns").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(campaignCols).AddRow(
			id, "n", "d", "DELETED", []string{}, []string{}, now, now,
		))

	campaign, err := store.SoftDelete(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, outreach.CampaignStatusDeleted, campaign.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStoreSoftDeleteTwiceIsNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewCampaignStore(mock)
	id := uuid.New()

	mock.ExpectQuery("UPDATE campaigns").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = store.SoftDelete(context.Background(), id.String())
	require.ErrorIs(t, err, outreach.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
