// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import (
	"github.com/anirec/anirec/internal/logging"
	"github.com/anirec/anirec/internal/mal"
	"github.com/anirec/anirec/internal/metrics"
)

// demographicTags are audience demographic labels, not content genres.
// They are excluded from the genre preference vector so that a list
// full of shounen shows does not read as a preference for "Shounen".
var demographicTags = map[string]struct{}{
	"Shounen":       {},
	"Shoujo":        {},
	"Seinen":        {},
	"Josei":         {},
	"Kodomo":        {},
	"Award Winning": {},
	"Kids":          {},
}

// InteractionWeight maps a (status, score) pair to an interaction
// weight in [0, 1]. This is a fixed heuristic shared by training and
// serving; the two paths must never diverge, so it lives in exactly
// one place.
//
// Scored completed/watching entries weigh by the score; a plan-to-watch
// entry is a strong positive signal (0.7), a dropped entry is a hard
// negative (0.0).
func InteractionWeight(status mal.Status, score int) float64 {
	switch status {
	case mal.StatusCompleted, mal.StatusWatching:
		switch {
		case score == 0:
			return 0.5
		case score >= 8:
			return float64(score) / 10.0
		case score == 7:
			return 0.6
		case score == 6:
			return 0.4
		case score == 5:
			return 0.2
		default: // 1-4
			return 0.1
		}
	case mal.StatusPlanToWatch:
		return 0.7
	case mal.StatusDropped:
		return 0.0
	case mal.StatusOnHold:
		return 0.2
	default:
		return 1.0
	}
}

// GenrePreferences computes the genre preference vector from a
// history: for each entry, its genre tags are deduplicated and the
// demographic tags removed, then each remaining genre counts once per
// entry. The weight is count / total history length, so each genre's
// weight is independently in [0, 1].
//
// An empty history yields an empty map, not an error.
func GenrePreferences(history []mal.ListEntry) map[string]float64 {
	prefs := make(map[string]float64)
	if len(history) == 0 {
		return prefs
	}

	counts := make(map[string]int)
	for i := range history {
		seen := make(map[string]struct{}, len(history[i].Genres))
		for _, g := range history[i].Genres {
			if _, demo := demographicTags[g]; demo {
				continue
			}
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			counts[g]++
		}
	}

	total := float64(len(history))
	for genre, count := range counts {
		prefs[genre] = float64(count) / total
	}
	return prefs
}

// Encoding is a user's history projected into the model's index space.
type Encoding struct {
	// Features maps internal feature index to genre preference weight.
	Features map[int]float64

	// Interactions maps internal item index to interaction weight.
	// One entry per history item resolvable through the mapping.
	Interactions map[int]float64

	// Seen is the set of resolvable item indices in the history,
	// excluded from the final ranking.
	Seen map[int]struct{}

	// Preferences is the genre preference vector keyed by genre name,
	// kept for the statistics response.
	Preferences map[string]float64
}

// Encode projects a normalized history into feature and interaction
// vectors over the model's internal indices. Entries whose item ID or
// genre token is absent from the mapping are dropped with a diagnostic
// and never abort the request.
func Encode(maps *IdentifierMap, history []mal.ListEntry) *Encoding {
	enc := &Encoding{
		Features:     make(map[int]float64),
		Interactions: make(map[int]float64),
		Seen:         make(map[int]struct{}),
		Preferences:  GenrePreferences(history),
	}

	for genre, weight := range enc.Preferences {
		idx, ok := maps.FeatureIndex(genre)
		if !ok {
			metrics.UnmappedEntities.WithLabelValues("genre").Inc()
			logging.Debug().Str("genre", genre).Msg("dropping genre absent from feature space")
			continue
		}
		enc.Features[idx] = weight
	}

	for i := range history {
		idx, ok := maps.ItemIndex(history[i].AnimeID)
		if !ok {
			metrics.UnmappedEntities.WithLabelValues("item").Inc()
			logging.Debug().Str("anime_id", history[i].AnimeID).Msg("dropping item absent from model index space")
			continue
		}
		enc.Interactions[idx] = InteractionWeight(history[i].Status, history[i].Score)
		enc.Seen[idx] = struct{}{}
	}

	return enc
}
