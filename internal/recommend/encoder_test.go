// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import (
	"testing"

	"github.com/anirec/anirec/internal/mal"
)

func TestInteractionWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status mal.Status
		score  int
		want   float64
	}{
		{name: "completed unscored", status: mal.StatusCompleted, score: 0, want: 0.5},
		{name: "completed 10", status: mal.StatusCompleted, score: 10, want: 1.0},
		{name: "completed 9", status: mal.StatusCompleted, score: 9, want: 0.9},
		{name: "completed 8", status: mal.StatusCompleted, score: 8, want: 0.8},
		{name: "completed 7", status: mal.StatusCompleted, score: 7, want: 0.6},
		{name: "completed 6", status: mal.StatusCompleted, score: 6, want: 0.4},
		{name: "completed 5", status: mal.StatusCompleted, score: 5, want: 0.2},
		{name: "completed 4", status: mal.StatusCompleted, score: 4, want: 0.1},
		{name: "completed 1", status: mal.StatusCompleted, score: 1, want: 0.1},
		{name: "watching unscored", status: mal.StatusWatching, score: 0, want: 0.5},
		{name: "watching 9", status: mal.StatusWatching, score: 9, want: 0.9},
		{name: "plan to watch unscored", status: mal.StatusPlanToWatch, score: 0, want: 0.7},
		{name: "plan to watch scored", status: mal.StatusPlanToWatch, score: 9, want: 0.7},
		{name: "dropped scored high", status: mal.StatusDropped, score: 7, want: 0.0},
		{name: "dropped unscored", status: mal.StatusDropped, score: 0, want: 0.0},
		{name: "on hold unscored", status: mal.StatusOnHold, score: 0, want: 0.2},
		{name: "on hold scored", status: mal.StatusOnHold, score: 10, want: 0.2},
		{name: "unrecognized status", status: mal.Status("rewatching"), score: 3, want: 1.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InteractionWeight(tt.status, tt.score); got != tt.want {
				t.Errorf("InteractionWeight(%q, %d) = %v, want %v", tt.status, tt.score, got, tt.want)
			}
		})
	}
}

func TestGenrePreferences(t *testing.T) {
	t.Parallel()

	history := []mal.ListEntry{
		{AnimeID: "1", Genres: []string{"Action", "Drama", "Shounen"}},
		{AnimeID: "2", Genres: []string{"Action", "Action", "Comedy"}},
		{AnimeID: "3", Genres: []string{"Drama", "Award Winning"}},
		{AnimeID: "4", Genres: nil},
	}

	prefs := GenrePreferences(history)

	want := map[string]float64{
		"Action": 0.5,
		"Drama":  0.5,
		"Comedy": 0.25,
	}
	if len(prefs) != len(want) {
		t.Fatalf("preferences = %v, want %v", prefs, want)
	}
	for genre, weight := range want {
		if got := prefs[genre]; got != weight {
			t.Errorf("prefs[%s] = %v, want %v", genre, got, weight)
		}
	}
	if _, ok := prefs["Shounen"]; ok {
		t.Error("demographic tag Shounen must not appear in preferences")
	}
	if _, ok := prefs["Award Winning"]; ok {
		t.Error("demographic tag Award Winning must not appear in preferences")
	}
}

func TestGenrePreferencesEmptyHistory(t *testing.T) {
	t.Parallel()

	prefs := GenrePreferences(nil)
	if prefs == nil {
		t.Fatal("empty history must yield an empty map, not nil")
	}
	if len(prefs) != 0 {
		t.Errorf("preferences = %v, want empty", prefs)
	}
}

func TestGenrePreferencesWeightsInRange(t *testing.T) {
	t.Parallel()

	history := []mal.ListEntry{
		{AnimeID: "1", Genres: []string{"Action"}},
		{AnimeID: "2", Genres: []string{"Action"}},
		{AnimeID: "3", Genres: []string{"Action", "Comedy"}},
	}
	for genre, weight := range GenrePreferences(history) {
		if weight < 0 || weight > 1 {
			t.Errorf("prefs[%s] = %v, out of [0, 1]", genre, weight)
		}
	}
}

func TestEncodeDropsUnmappedEntries(t *testing.T) {
	t.Parallel()

	maps := testMaps(t)
	history := []mal.ListEntry{
		{AnimeID: "1", Status: mal.StatusCompleted, Score: 9, Genres: []string{"Action"}},
		{AnimeID: "999999", Status: mal.StatusCompleted, Score: 10, Genres: []string{"Basketweaving"}},
		{AnimeID: "2", Status: mal.StatusDropped, Genres: []string{"Comedy"}},
	}

	enc := Encode(maps, history)

	if len(enc.Interactions) != 2 {
		t.Errorf("interactions = %v, want 2 resolvable entries", enc.Interactions)
	}
	if len(enc.Seen) != 2 {
		t.Errorf("seen = %v, want 2 resolvable entries", enc.Seen)
	}

	idx1, _ := maps.ItemIndex("1")
	if got := enc.Interactions[idx1]; got != 0.9 {
		t.Errorf("interaction weight for item 1 = %v, want 0.9", got)
	}
	idx2, _ := maps.ItemIndex("2")
	if got := enc.Interactions[idx2]; got != 0.0 {
		t.Errorf("interaction weight for item 2 = %v, want 0.0", got)
	}

	// The unmapped genre is kept in the name-keyed preferences but
	// dropped from the index-keyed feature vector.
	if _, ok := enc.Preferences["Basketweaving"]; !ok {
		t.Error("unmapped genre missing from name-keyed preferences")
	}
	actionIdx, _ := maps.FeatureIndex("Action")
	if _, ok := enc.Features[actionIdx]; !ok {
		t.Error("mapped genre Action missing from feature vector")
	}
	if len(enc.Features) != 2 {
		t.Errorf("features = %v, want Action and Comedy only", enc.Features)
	}
}
