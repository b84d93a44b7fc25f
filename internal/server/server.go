// Package server exposes the pipeline over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/venturescout/outreach-cli/internal/drafts"
	"github.com/venturescout/outreach-cli/internal/model"
	"github.com/venturescout/outreach-cli/internal/store"
)

// EnrichRunner runs one enrichment pass.
type EnrichRunner interface {
	Run(ctx context.Context) (*model.EnrichmentSummary, error)
}

// Server handles API requests.
type Server struct {
	store     store.Store
	enricher  EnrichRunner
	generator *drafts.Generator

	enriching atomic.Bool
}

// New creates a server over the given collaborators.
func New(st store.Store, enricher EnrichRunner, generator *drafts.Generator) *Server {
	return &Server{store: st, enricher: enricher, generator: generator}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/companies", s.handleListCompanies)
		r.Get("/companies/{id}", s.handleGetCompany)
		r.Get("/companies/{id}/contacts", s.handleCompanyContacts)
		r.Get("/companies/{id}/drafts", s.handleCompanyDrafts)
		r.Get("/contacts", s.handleListContacts)
		r.Post("/enrich", s.handleEnrich)
		r.Get("/audit", s.handleListAudit)
		r.Get("/stats", s.handleStats)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CompanyFilter{
		Search:          q.Get("search"),
		SortByRelevance: q.Get("sort") == "relevance",
		Page:            intParam(q.Get("page"), 1),
		PerPage:         intParam(q.Get("per_page"), 30),
	}
	if batch := q.Get("batch"); batch != "" {
		filter.Batches = []string{batch}
	}
	if hiring := q.Get("hiring"); hiring != "" {
		v := hiring == "true" || hiring == "1"
		filter.Hiring = &v
	}

	companies, total, err := s.store.ListCompanies(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if companies == nil {
		companies = []model.Company{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     total,
		"page":      filter.Page,
	})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	company, err := s.store.GetCompany(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleCompanyContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	contacts, err := s.store.GetContacts(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) handleCompanyDrafts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	company, err := s.store.GetCompany(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"company": company.Name,
		"drafts":  s.generator.Generate(*company),
	})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ContactFilter{
		Source: model.ContactSource(q.Get("source")),
		Search: q.Get("search"),
		Limit:  intParam(q.Get("limit"), 100),
	}
	contacts, err := s.store.ListContacts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

// handleEnrich kicks off an enrichment pass in the background. Only one
// pass runs at a time; a second request while one is active gets a 409.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if !s.enriching.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "enrichment already running"})
		return
	}

	go func() {
		defer s.enriching.Store(false)
		summary, err := s.enricher.Run(context.Background())
		if err != nil {
			zap.L().Error("background enrichment failed", zap.Error(err))
			return
		}
		zap.L().Info("background enrichment complete",
			zap.Int("enriched", summary.EntitiesEnriched),
			zap.Int("new_contacts", summary.NewContacts))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.store.ListAudit(r.Context(), store.AuditFilter{
		Component: q.Get("component"),
		RunID:     q.Get("run_id"),
		Limit:     intParam(q.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
