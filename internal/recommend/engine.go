// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anirec/anirec/internal/mal"
	"github.com/anirec/anirec/internal/metrics"
)

// HistoryFetcher retrieves a user's full animelist. Implemented by the
// MyAnimeList client; the interface keeps the engine testable without
// a network.
type HistoryFetcher interface {
	GetUserAnimeList(ctx context.Context, username string) ([]mal.ListEntry, error)
}

// IDScore is one (anime ID, normalized score) pair of a ranked list.
// The full ranked list is returned to the caller as an opaque token
// and echoed back for filtering; nothing is kept server-side.
type IDScore struct {
	AnimeID string  `json:"anime_id"`
	Score   float64 `json:"score"`
}

// Result is the output of one personalization run.
type Result struct {
	// Recommendations is the ranked list truncated to TopN.
	Recommendations []IDScore

	// Ranked is the full ranked list after exclusions, descending by
	// score.
	Ranked []IDScore

	// Stats is the descriptive history aggregate.
	Stats *UserStats

	// History is the normalized fetched list, returned so the caller
	// can render it without a second fetch.
	History []mal.ListEntry
}

// Engine runs the personalization pipeline: fetch, encode, clone the
// base model, incremental fit, score, normalize, exclude, rank.
// Safe for concurrent use: the shared base model is read-only and
// every request fits against its own deep copy.
type Engine struct {
	cfg     *Config
	base    *Model
	maps    *IdentifierMap
	fetcher HistoryFetcher
	logger  zerolog.Logger
}

// NewEngine creates a personalization engine over a loaded base model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, base *Model, maps *IdentifierMap, fetcher HistoryFetcher, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if base == nil || maps == nil {
		return nil, fmt.Errorf("engine requires a loaded model and identifier map")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("engine requires a history fetcher")
	}

	return &Engine{
		cfg:     cfg,
		base:    base,
		maps:    maps,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Personalize produces a ranked recommendation list for a username.
//
// Zero usable history entries resolve to ErrEmptyHistory: the list may
// exist upstream yet give the fit nothing to learn from, and callers
// treat that as a client-facing rejection rather than falling back to
// the model's unpersonalized prior.
func (e *Engine) Personalize(ctx context.Context, username string) (*Result, error) {
	requestID := uuid.NewString()
	logger := e.logger.With().Str("request_id", requestID).Str("user", username).Logger()

	history, err := e.fetcher.GetUserAnimeList(ctx, username)
	if err != nil {
		metrics.PersonalizeOutcomes.WithLabelValues("fetch_error").Inc()
		return nil, err
	}
	if len(history) == 0 {
		metrics.PersonalizeOutcomes.WithLabelValues("empty_history").Inc()
		return nil, ErrEmptyHistory
	}

	enc := Encode(e.maps, history)
	if len(enc.Interactions) == 0 {
		logger.Warn().Int("history", len(history)).Msg("no history entry resolved to the model index space")
		metrics.PersonalizeOutcomes.WithLabelValues("empty_history").Inc()
		return nil, ErrEmptyHistory
	}

	private := e.base.Clone()

	fitStart := time.Now()
	row, err := fitUserRow(ctx, private, enc, e.cfg)
	if err != nil {
		metrics.PersonalizeOutcomes.WithLabelValues("canceled").Inc()
		return nil, fmt.Errorf("incremental fit: %w", err)
	}
	metrics.FitDuration.Observe(time.Since(fitStart).Seconds())

	scoreStart := time.Now()
	scores := scoreAll(private, row)
	normalizeScores(scores)
	ranked := e.rank(scores, enc.Seen, logger)
	metrics.ScoreDuration.Observe(time.Since(scoreStart).Seconds())

	topN := e.cfg.TopN
	if topN > len(ranked) {
		topN = len(ranked)
	}

	logger.Info().
		Int("history", len(history)).
		Int("interactions", len(enc.Interactions)).
		Int("ranked", len(ranked)).
		Int("top_n", topN).
		Msg("personalization complete")
	metrics.PersonalizeOutcomes.WithLabelValues("ok").Inc()

	return &Result{
		Recommendations: ranked[:topN],
		Ranked:          ranked,
		Stats:           ComputeStats(history),
		History:         history,
	}, nil
}

// rank excludes seen and blacklisted items, then sorts the rest
// descending by normalized score. The sort is stable with internal
// index order as the insertion order, so ties keep a fixed order.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) rank(scores []float64, seen map[int]struct{}, logger zerolog.Logger) []IDScore {
	ranked := make([]IDScore, 0, len(scores))
	excluded := 0
	for idx, score := range scores {
		if _, ok := seen[idx]; ok {
			excluded++
			continue
		}
		id, ok := e.maps.ItemID(idx)
		if !ok {
			// Mapping and model were validated against each other at
			// load time, so this indicates artifact corruption.
			logger.Error().Int("index", idx).Msg("score index missing from item mapping")
			continue
		}
		if Blacklisted(id) {
			excluded++
			continue
		}
		ranked = append(ranked, IDScore{AnimeID: id, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	logger.Debug().Int("excluded", excluded).Int("ranked", len(ranked)).Msg("ranking complete")
	return ranked
}
