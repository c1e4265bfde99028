package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/outflo/outreach-service/internal/outreach"
)

func TestProfileStoreInsertWritesNewRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewProfileStore(mock)
	now := time.Unix(1700000000, 0).UTC()

	profile := outreach.Profile{
		FullName:   "Jane Doe",
		JobTitle:   "Engineer",
		Company:    "Acme",
		Location:   "NYC",
		ProfileURL: "https://www.linkedin.com/in/janedoe",
		ScrapedAt:  now,
	}

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs(profile.ProfileURL, profile.FullName, profile.JobTitle, profile.Company, profile.Location, profile.ScrapedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	stored, created, err := store.Insert(context.Background(), profile)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, profile, stored)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStoreInsertKeepsExistingRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewProfileStore(mock)
	firstScrape := time.Unix(1600000000, 0).UTC()
	rescrape := time.Unix(1700000000, 0).UTC()

	profile := outreach.Profile{
		FullName:   "Jane Doe",
		JobTitle:   "Staff Engineer",
		ProfileURL: "https://www.linkedin.com/in/janedoe",
		ScrapedAt:  rescrape,
	}

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs(profile.ProfileURL, profile.FullName, profile.JobTitle, profile.Company, profile.Location, profile.ScrapedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT profile_url, full_name").
		WithArgs(profile.ProfileURL).
		WillReturnRows(pgxmock.NewRows([]string{
			"profile_url", "full_name", "job_title", "company", "location", "scraped_at",
		}).AddRow(profile.ProfileURL, "Jane Doe", "Engineer", "Acme", "NYC", firstScrape))

	stored, created, err := store.Insert(context.Background(), profile)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "Engineer", stored.JobTitle)
	require.Equal(t, firstScrape, stored.ScrapedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStoreGetByURLNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewProfileStore(mock)

	mock.ExpectQuery("SELECT profile_url, full_name").
		WithArgs("https://www.linkedin.com/in/missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"profile_url", "full_name", "job_title", "company", "location", "scraped_at",
		}))

	_, err = store.GetByURL(context.Background(), "https://www.linkedin.com/in/missing")
	require.ErrorIs(t, err, outreach.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStoreListRecent(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewProfileStore(mock)
	newer := time.Unix(1700000100, 0).UTC()
	older := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery("SELECT profile_url, full_name").
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{
			"profile_url", "full_name", "job_title", "company", "location", "scraped_at",
		}).
			AddRow("https://www.linkedin.com/in/b", "B", "CTO", "Beta", "SF", newer).
			AddRow("https://www.linkedin.com/in/a", "A", "CEO", "Alpha", "NYC", older))

	profiles, err := store.ListRecent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	require.Equal(t, "https://www.linkedin.com/in/b", profiles[0].ProfileURL)
	require.Equal(t, newer, profiles[0].ScrapedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
