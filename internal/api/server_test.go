package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/outflo/outreach-service/internal/outreach"
	"github.com/outflo/outreach-service/internal/scraper"
	"github.com/outflo/outreach-service/internal/storage/memory"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeScraper struct {
	profiles []outreach.Profile
	err      error
	lastReq  scraper.Request
}

func (f *fakeScraper) Run(_ context.Context, req scraper.Request) ([]outreach.Profile, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

type fakeDrafter struct {
	message string
	err     error
}

func (f *fakeDrafter) Draft(context.Context, outreach.ProfileFacts) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.message, nil
}

type serverFixture struct {
	server    *Server
	campaigns *memory.CampaignStore
	profiles  *memory.ProfileStore
	scraper   *fakeScraper
	drafter   *fakeDrafter
}

func newFixture(t *testing.T) *serverFixture {
	t.Helper()
	campaigns := memory.NewCampaignStore(fakeClock{now: time.Unix(1700000000, 0).UTC()})
	profiles := memory.NewProfileStore()
	sc := &fakeScraper{}
	dr := &fakeDrafter{message: "Hey John, let's connect!"}
	return &serverFixture{
		server:    NewServer(campaigns, profiles, sc, dr, zap.NewNop()),
		campaigns: campaigns,
		profiles:  profiles,
		scraper:   sc,
		drafter:   dr,
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (f *serverFixture) createCampaign(t *testing.T) outreach.Campaign {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/campaigns", outreach.CampaignInput{
		Name:        "Q3 push",
		Description: "SaaS founders",
		Leads:       []string{"https://www.linkedin.com/in/a"},
		AccountIDs:  []string{"acct-1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[outreach.Campaign](t, rec)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}

func TestCreateCampaignDefaultsToActive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	campaign := f.createCampaign(t)
	require.NotEmpty(t, campaign.ID)
	require.Equal(t, outreach.CampaignStatusActive, campaign.Status)
}

func TestCreateCampaignRejectsMissingName(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/campaigns", map[string]string{"description": "d"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeBody[map[string]string](t, rec)["error"], "name")
}

func TestCreateCampaignRejectsBadJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCampaignsExcludesDeleted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	kept := f.createCampaign(t)
	doomed := f.createCampaign(t)

	rec := f.do(t, http.MethodDelete, "/campaigns/"+doomed.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/campaigns", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	campaigns := decodeBody[[]outreach.Campaign](t, rec)
	require.Len(t, campaigns, 1)
	require.Equal(t, kept.ID, campaigns[0].ID)
}

func TestGetCampaignNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/campaigns/3f0c9a3e-0000-0000-0000-000000000000", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "campaign not found", decodeBody[map[string]string](t, rec)["error"])
}

func TestUpdateCampaignStatusTransition(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	campaign := f.createCampaign(t)

	rec := f.do(t, http.MethodPut, "/campaigns/"+campaign.ID, map[string]string{"status": "INACTIVE"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[outreach.Campaign](t, rec)
	require.Equal(t, outreach.CampaignStatusInactive, updated.Status)
	require.Equal(t, campaign.Name, updated.Name)
}

func TestUpdateCampaignRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	campaign := f.createCampaign(t)

	rec := f.do(t, http.MethodPut, "/campaigns/"+campaign.ID, map[string]string{"status": "PAUSED"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCampaignConfirmsAndHides(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	campaign := f.createCampaign(t)

	rec := f.do(t, http.MethodDelete, "/campaigns/"+campaign.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	require.Equal(t, "Campaign soft deleted successfully", body["message"])

	// The record is invisible afterwards, including to repeat deletes.
	rec = f.do(t, http.MethodGet, "/campaigns/"+campaign.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodPut, "/campaigns/"+campaign.ID, map[string]string{"status": "ACTIVE"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, "/campaigns/"+campaign.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPersonalizedMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/personalized-message", outreach.ProfileFacts{
		Name:     "John Doe",
		JobTitle: "Software Engineer",
		Company:  "TechCorp",
		Location: "SF",
		Summary:  "Builds developer tools.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hey John, let's connect!", decodeBody[map[string]string](t, rec)["message"])
}

func TestPersonalizedMessageUpstreamFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.drafter.err = &outreach.MessageGenerationError{Err: errors.New("upstream 500")}

	rec := f.do(t, http.MethodPost, "/personalized-message", outreach.ProfileFacts{Name: "John"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "failed to generate personalized message", decodeBody[map[string]string](t, rec)["error"])
}

func TestScrapeRequiresSearchURL(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/scraper/scrape", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeBody[map[string]string](t, rec)["error"], "searchUrl")
}

func TestScrapeReturnsProfiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.scraper.profiles = []outreach.Profile{
		{FullName: "Alice Smith", ProfileURL: "https://www.linkedin.com/in/alice"},
		{FullName: "Carol Jones", ProfileURL: "https://www.linkedin.com/in/carol"},
	}

	rec := f.do(t, http.MethodPost, "/scraper/scrape", map[string]any{
		"searchUrl":   "https://www.linkedin.com/search/results/people/?keywords=founder",
		"maxProfiles": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Message  string             `json:"message"`
		Count    int                `json:"count"`
		Profiles []outreach.Profile `json:"profiles"`
	}](t, rec)
	require.Equal(t, "Successfully scraped profiles", body.Message)
	require.Equal(t, 2, body.Count)
	require.Len(t, body.Profiles, 2)
	require.Equal(t, 2, f.scraper.lastReq.MaxProfiles)
}

func TestScrapeFailureIsGeneric(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.scraper.err = &outreach.ScrapeError{Stage: "page", Err: errors.New("timeout")}

	rec := f.do(t, http.MethodPost, "/scraper/scrape", map[string]string{
		"searchUrl": "https://www.linkedin.com/search/results/people/?keywords=founder",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "scraping failed", decodeBody[map[string]string](t, rec)["error"])
}

func TestListProfilesReturnsRecent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, _, err := f.profiles.Insert(context.Background(), outreach.Profile{
		FullName:   "Alice Smith",
		ProfileURL: "https://www.linkedin.com/in/alice",
		ScrapedAt:  time.Unix(1700000000, 0).UTC(),
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/scraper/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profiles := decodeBody[[]outreach.Profile](t, rec)
	require.Len(t, profiles, 1)
	require.Equal(t, "https://www.linkedin.com/in/alice", profiles[0].ProfileURL)
}
