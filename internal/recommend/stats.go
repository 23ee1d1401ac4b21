// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import "github.com/anirec/anirec/internal/mal"

// UserStats is the descriptive aggregate of one fetched history. Pure
// derivation, no model or network dependency.
type UserStats struct {
	// GenrePreferences maps genre name to preference weight in [0, 1].
	GenrePreferences map[string]float64 `json:"genre_preferences"`

	// ScoreDistribution is the score histogram over 1-10. Unscored and
	// out-of-range values are excluded.
	ScoreDistribution map[int]int `json:"score_distribution"`

	// StatusDistribution counts entries per normalized list status.
	StatusDistribution map[string]int `json:"status_distribution"`

	// TotalAnime is the history length.
	TotalAnime int `json:"total_anime"`

	// ScoredAnime counts entries with a score in 1-10.
	ScoredAnime int `json:"scored_anime"`

	// CompletedAnime counts entries with completed status.
	CompletedAnime int `json:"completed_anime"`

	// AverageScore is the mean over scored entries, 0 when none.
	AverageScore float64 `json:"average_score"`

	// CompletionRate is CompletedAnime / TotalAnime, 0 for an empty
	// history.
	CompletionRate float64 `json:"completion_rate"`
}

// ComputeStats aggregates a history into UserStats. Handles an empty
// history and malformed scores without error.
func ComputeStats(history []mal.ListEntry) *UserStats {
	stats := &UserStats{
		GenrePreferences:   GenrePreferences(history),
		ScoreDistribution:  make(map[int]int),
		StatusDistribution: make(map[string]int),
		TotalAnime:         len(history),
	}

	scoreSum := 0
	for i := range history {
		entry := &history[i]
		stats.StatusDistribution[string(entry.Status)]++

		if entry.Status == mal.StatusCompleted {
			stats.CompletedAnime++
		}
		if entry.Score >= 1 && entry.Score <= 10 {
			stats.ScoreDistribution[entry.Score]++
			stats.ScoredAnime++
			scoreSum += entry.Score
		}
	}

	if stats.ScoredAnime > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.ScoredAnime)
	}
	if stats.TotalAnime > 0 {
		stats.CompletionRate = float64(stats.CompletedAnime) / float64(stats.TotalAnime)
	}
	return stats
}
