// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package filter applies categorical and numeric filters to a
// previously computed ranked list and paginates the result.
//
// The ranked list arrives from the caller as the opaque token the
// predict endpoint handed out; no server-side session state backs it.
package filter

import (
	"strings"

	"github.com/anirec/anirec/internal/catalog"
	"github.com/anirec/anirec/internal/logging"
	"github.com/anirec/anirec/internal/recommend"
)

// PageSize is the fixed number of results per page.
const PageSize = 20

// Config is one filter request.
type Config struct {
	// Genres must all be present on an item (AND semantics). Empty
	// means no genre constraint.
	Genres []string `json:"genres"`

	// MediaTypes is a membership set for the item's media type. Empty
	// means no constraint.
	MediaTypes []string `json:"media_types"`

	// MinUsers and MaxUsers bound the audience size inclusively.
	// MaxUsers <= 0 means unbounded above.
	MinUsers int `json:"min_users"`
	MaxUsers int `json:"max_users"`
}

// Result is one filtered, catalog-enriched recommendation.
type Result struct {
	AnimeID      string   `json:"anime_id"`
	Title        string   `json:"title"`
	Genres       []string `json:"genres"`
	MediaType    string   `json:"media_type"`
	Mean         float64  `json:"mean"`
	NumListUsers int      `json:"num_list_users"`
	Synopsis     string   `json:"synopsis"`
	ImageURL     string   `json:"image_url"`
	Score        float64  `json:"score"`
}

// Page is one page of filtered results plus the total match count,
// which covers the whole filtered set so clients can render pagination.
type Page struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
}

// Apply filters the ranked list against the catalog and returns the
// requested 1-based page. Ranked IDs absent from the catalog are
// skipped with a diagnostic; an out-of-range page yields an empty
// result slice, not an error.
func Apply(store *catalog.Store, ranked []recommend.IDScore, cfg *Config, page int) *Page {
	matched := make([]Result, 0, len(ranked))
	for _, pair := range ranked {
		item := store.Get(pair.AnimeID)
		if item == nil {
			logging.Debug().Str("anime_id", pair.AnimeID).Msg("ranked item absent from catalog, skipping")
			continue
		}
		if !matches(item, cfg) {
			continue
		}
		matched = append(matched, Result{
			AnimeID:      item.ID,
			Title:        item.Title,
			Genres:       item.GenreList(),
			MediaType:    item.MediaType,
			Mean:         item.Mean,
			NumListUsers: item.NumListUsers,
			Synopsis:     item.Synopsis,
			ImageURL:     item.ImageURL,
			Score:        pair.Score,
		})
	}

	total := len(matched)
	totalPages := (total + PageSize - 1) / PageSize

	out := &Page{
		Results:    []Result{},
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
	}

	if page < 1 || page > totalPages {
		return out
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	out.Results = matched[start:end]
	return out
}

// matches applies the filter config to one catalog item.
func matches(item *catalog.Item, cfg *Config) bool {
	if len(cfg.Genres) > 0 {
		itemGenres := item.GenreList()
		if itemGenres == nil {
			// Unreadable genre field cannot satisfy a genre filter.
			return false
		}
		have := make(map[string]struct{}, len(itemGenres))
		for _, g := range itemGenres {
			have[strings.ToLower(g)] = struct{}{}
		}
		for _, want := range cfg.Genres {
			if _, ok := have[strings.ToLower(want)]; !ok {
				return false
			}
		}
	}

	if len(cfg.MediaTypes) > 0 {
		found := false
		for _, mt := range cfg.MediaTypes {
			if strings.EqualFold(mt, item.MediaType) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if item.NumListUsers < cfg.MinUsers {
		return false
	}
	if cfg.MaxUsers > 0 && item.NumListUsers > cfg.MaxUsers {
		return false
	}
	return true
}
