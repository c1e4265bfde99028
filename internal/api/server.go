// Package api exposes the HTTP interface for the outreach service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/outflo/outreach-service/internal/metrics"
	"github.com/outflo/outreach-service/internal/outreach"
	"github.com/outflo/outreach-service/internal/scraper"
)

// recentProfilesLimit caps the scraped-profile listing.
const recentProfilesLimit = 20

// Scraper runs one scrape per request.
type Scraper interface {
	Run(ctx context.Context, req scraper.Request) ([]outreach.Profile, error)
}

// Drafter generates one outreach message per profile.
type Drafter interface {
	Draft(ctx context.Context, facts outreach.ProfileFacts) (string, error)
}

// Server wires HTTP handlers to the stores, scrape engine and drafting
// client.
type Server struct {
	router    chi.Router
	campaigns outreach.CampaignStore
	profiles  outreach.ProfileStore
	scraper   Scraper
	drafter   Drafter
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	campaigns outreach.CampaignStore,
	profiles outreach.ProfileStore,
	scrapeEngine Scraper,
	drafter Drafter,
	logger *zap.Logger,
) *Server {
	metrics.Init()
	s := &Server{
		campaigns: campaigns,
		profiles:  profiles,
		scraper:   scrapeEngine,
		drafter:   drafter,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(timeoutMiddleware(120 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", s.createCampaign)
		r.Get("/", s.listCampaigns)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getCampaign)
			r.Put("/", s.updateCampaign)
			r.Delete("/", s.deleteCampaign)
		})
	})

	r.Post("/personalized-message", s.personalizedMessage)

	r.Route("/scraper", func(r chi.Router) {
		r.Post("/scrape", s.scrape)
		r.Get("/profiles", s.listProfiles)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var input outreach.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	campaign, err := s.campaigns.Create(r.Context(), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, campaign)
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.campaigns.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var update outreach.CampaignUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	campaign, err := s.campaigns.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.campaigns.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Campaign soft deleted successfully",
		"campaign": campaign,
	})
}

func (s *Server) personalizedMessage(w http.ResponseWriter, r *http.Request) {
	var facts outreach.ProfileFacts
	if err := json.NewDecoder(r.Body).Decode(&facts); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	msg, err := s.drafter.Draft(r.Context(), facts)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

type scrapeRequest struct {
	SearchURL   string `json:"searchUrl"`
	MaxProfiles int    `json:"maxProfiles"`
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SearchURL == "" {
		s.writeError(w, http.StatusBadRequest, "searchUrl is required")
		return
	}
	profiles, err := s.scraper.Run(r.Context(), scraper.Request{
		SearchURL:   req.SearchURL,
		MaxProfiles: req.MaxProfiles,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Successfully scraped profiles",
		"count":    len(profiles),
		"profiles": profiles,
	})
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.profiles.ListRecent(r.Context(), recentProfilesLimit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profiles)
}

// writeDomainError maps domain errors to HTTP statuses. Unknown errors are
// logged and surfaced as a generic 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var vErr *outreach.ValidationError
	if errors.As(err, &vErr) {
		s.writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	if errors.Is(err, outreach.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "campaign not found")
		return
	}
	var genErr *outreach.MessageGenerationError
	if errors.As(err, &genErr) {
		s.writeError(w, http.StatusInternalServerError, genErr.Error())
		return
	}
	var sErr *outreach.ScrapeError
	if errors.As(err, &sErr) {
		s.logger.Error("scrape run failed", zap.String("stage", sErr.Stage), zap.Error(sErr))
		s.writeError(w, http.StatusInternalServerError, "scraping failed")
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
