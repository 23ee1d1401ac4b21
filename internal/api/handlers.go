// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/anirec/anirec/internal/catalog"
	"github.com/anirec/anirec/internal/filter"
	"github.com/anirec/anirec/internal/logging"
	"github.com/anirec/anirec/internal/mal"
	"github.com/anirec/anirec/internal/recommend"
)

// Personalizer runs the recommendation pipeline for one username.
// Implemented by recommend.Engine.
type Personalizer interface {
	Personalize(ctx context.Context, username string) (*recommend.Result, error)
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	engine Personalizer
	store  *catalog.Store
}

// NewHandler creates a Handler.
func NewHandler(engine Personalizer, store *catalog.Store) *Handler {
	return &Handler{engine: engine, store: store}
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{
		"message": "AniRec API",
	}, time.Now())
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"catalog_items": h.store.Len(),
	}, time.Now())
}

// predictResponse is the predict endpoint payload. IDScorePairs is the
// opaque ranked-list token the client echoes back to /api/v1/filter.
type predictResponse struct {
	Recommendations []filter.Result      `json:"recommendations"`
	IDScorePairs    []recommend.IDScore  `json:"id_score_pairs"`
	UserStats       *recommend.UserStats `json:"user_stats"`
	History         []mal.ListEntry      `json:"history"`
}

// Predict handles POST /api/v1/predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PredictRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.engine.Personalize(r.Context(), req.Username)
	if err != nil {
		h.respondPredictError(w, req.Username, err)
		return
	}

	respondSuccess(w, http.StatusOK, &predictResponse{
		Recommendations: h.enrich(result.Recommendations),
		IDScorePairs:    result.Ranked,
		UserStats:       result.Stats,
		History:         result.History,
	}, start)
}

// respondPredictError maps pipeline errors onto the client contract.
func (h *Handler) respondPredictError(w http.ResponseWriter, username string, err error) {
	switch {
	case errors.Is(err, mal.ErrUserNotResolvable):
		respondError(w, http.StatusNotFound, "USER_NOT_FOUND",
			"MyAnimeList user not found or list is private", nil)
	case errors.Is(err, recommend.ErrEmptyHistory):
		respondError(w, http.StatusUnprocessableEntity, "EMPTY_HISTORY",
			"Cannot personalize: the animelist has no usable entries", nil)
	case errors.Is(err, mal.ErrUpstreamUnavailable):
		respondError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE",
			"MyAnimeList is currently unavailable, try again later", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT",
			"Fetching the animelist took too long", err)
	default:
		logging.Error().Err(err).Str("user", sanitizeLogValue(username)).Msg("personalization failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", err)
	}
}

// enrich joins the top recommendations with catalog metadata. IDs
// missing from the catalog are skipped, same policy as the filter
// stage.
func (h *Handler) enrich(recs []recommend.IDScore) []filter.Result {
	enriched := make([]filter.Result, 0, len(recs))
	for _, rec := range recs {
		item := h.store.Get(rec.AnimeID)
		if item == nil {
			logging.Debug().Str("anime_id", rec.AnimeID).Msg("recommended item absent from catalog, skipping")
			continue
		}
		enriched = append(enriched, filter.Result{
			AnimeID:      item.ID,
			Title:        item.Title,
			Genres:       item.GenreList(),
			MediaType:    item.MediaType,
			Mean:         item.Mean,
			NumListUsers: item.NumListUsers,
			Synopsis:     item.Synopsis,
			ImageURL:     item.ImageURL,
			Score:        rec.Score,
		})
	}
	return enriched
}

// Filter handles POST /api/v1/filter.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req FilterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page := filter.Apply(h.store, req.IDScorePairs, &filter.Config{
		Genres:     req.Genres,
		MediaTypes: req.MediaTypes,
		MinUsers:   req.MinUsers,
		MaxUsers:   req.MaxUsers,
	}, req.Page)

	respondSuccess(w, http.StatusOK, page, start)
}
