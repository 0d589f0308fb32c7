// Package handler exposes the registry over HTTP.
package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"fundregistry/internal/registry/models"
	"fundregistry/pkg/platform/httputil"
)

// Service is the resolver surface the handler needs.
type Service interface {
	Resolve(ctx context.Context, record models.CandidateRecord) (models.Resolution, error)
	RemoveAlias(ctx context.Context, aliasText, sourceID string) error
	Stats() models.Stats
}

// Handler serves the registry endpoints. The resolver is single-writer, so
// the handler serializes calls into it; HTTP concurrency stops here.
type Handler struct {
	mu      sync.Mutex
	service Service
}

// New constructs a Handler.
func New(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the registry routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registry", func(r chi.Router) {
		r.Post("/resolve", h.resolve)
		r.Get("/stats", h.stats)
		r.Delete("/aliases", h.removeAlias)
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[resolveRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record := models.CandidateRecord{
		FundNameRaw:    req.FundName,
		GeneralPartner: req.GeneralPartner,
		VintageYear:    req.VintageYear,
		SourceID:       req.SourceID,
	}

	h.mu.Lock()
	res, err := h.service.Resolve(r.Context(), record)
	h.mu.Unlock()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resolveResponse{
		FundID:         res.FundID,
		MatchType:      string(res.MatchType),
		TokenSortScore: res.TokenSortScore,
		StandardScore:  res.StandardScore,
		Signals:        res.Signals,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	stats := h.service.Stats()
	h.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) removeAlias(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[removeAliasRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.mu.Lock()
	err = h.service.RemoveAlias(r.Context(), req.AliasText, req.SourceID)
	h.mu.Unlock()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
