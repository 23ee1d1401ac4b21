// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/anirec/anirec/internal/mal"
)

// testMaps builds a small identifier map: five live items, one
// blacklisted item, three genre features.
func testMaps(t *testing.T) *IdentifierMap {
	t.Helper()

	maps, err := newIdentifierMap(
		map[string]int{"u1": 0},
		map[string]int{"Action": 0, "Comedy": 1, "Drama": 2},
		map[string]int{"1": 0, "2": 1, "3": 2, "4": 3, "5": 4, "34866": 5},
		map[string]int{"tv": 0},
	)
	if err != nil {
		t.Fatalf("newIdentifierMap: %v", err)
	}
	return maps
}

// testModel builds a two-component model matching testMaps.
func testModel(t *testing.T) *Model {
	t.Helper()

	m := &Model{
		Components: 2,
		ItemFactors: [][]float64{
			{0.9, 0.1},
			{0.2, 0.8},
			{0.5, 0.5},
			{-0.3, 0.7},
			{0.1, -0.6},
			{0.4, 0.4},
		},
		ItemBiases: []float64{0.3, 0.1, -0.2, 0.0, 0.2, -0.1},
		FeatureFactors: [][]float64{
			{0.7, -0.1},
			{-0.2, 0.6},
			{0.3, 0.3},
		},
		FeatureBiases: []float64{0.1, -0.1, 0.0},
	}
	if err := m.validate(testMaps(t)); err != nil {
		t.Fatalf("test model invalid: %v", err)
	}
	return m
}

// stubFetcher returns a fixed history without a network.
type stubFetcher struct {
	entries []mal.ListEntry
	err     error
}

func (s *stubFetcher) GetUserAnimeList(_ context.Context, _ string) ([]mal.ListEntry, error) {
	return s.entries, s.err
}

func testEngine(t *testing.T, base *Model, fetcher HistoryFetcher, cfg *Config) *Engine {
	t.Helper()

	eng, err := NewEngine(cfg, base, testMaps(t), fetcher, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func sampleHistory() []mal.ListEntry {
	return []mal.ListEntry{
		{AnimeID: "1", Status: mal.StatusCompleted, Score: 9, Genres: []string{"Action", "Drama"}},
		{AnimeID: "2", Status: mal.StatusWatching, Score: 0, Genres: []string{"Comedy"}},
		{AnimeID: "3", Status: mal.StatusDropped, Score: 4, Genres: []string{"Drama"}},
	}
}

func TestPersonalizeRanksAndExcludes(t *testing.T) {
	t.Parallel()

	eng := testEngine(t, testModel(t), &stubFetcher{entries: sampleHistory()}, nil)
	result, err := eng.Personalize(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}

	// Six model items minus three seen minus one blacklisted.
	if len(result.Ranked) != 2 {
		t.Fatalf("ranked = %v, want 2 items", result.Ranked)
	}
	for _, rec := range result.Ranked {
		switch rec.AnimeID {
		case "1", "2", "3":
			t.Errorf("seen item %s in ranked output", rec.AnimeID)
		case "34866":
			t.Errorf("blacklisted item in ranked output")
		}
		if rec.Score < 0 || rec.Score > 1 {
			t.Errorf("score %v out of [0, 1]", rec.Score)
		}
	}
	for i := 1; i < len(result.Ranked); i++ {
		if result.Ranked[i].Score > result.Ranked[i-1].Score {
			t.Errorf("ranked list not descending at %d", i)
		}
	}

	if result.Stats == nil || result.Stats.TotalAnime != 3 {
		t.Errorf("stats = %+v, want aggregate over 3 entries", result.Stats)
	}
	if len(result.History) != 3 {
		t.Errorf("history = %d entries, want 3", len(result.History))
	}
}

func TestPersonalizeDeterministic(t *testing.T) {
	t.Parallel()

	eng := testEngine(t, testModel(t), &stubFetcher{entries: sampleHistory()}, nil)

	first, err := eng.Personalize(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first Personalize: %v", err)
	}
	second, err := eng.Personalize(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second Personalize: %v", err)
	}

	if !reflect.DeepEqual(first.Ranked, second.Ranked) {
		t.Errorf("repeated runs diverged:\n%v\n%v", first.Ranked, second.Ranked)
	}
}

func TestPersonalizeLeavesBaseModelUntouched(t *testing.T) {
	t.Parallel()

	base := testModel(t)
	snapshot := base.Clone()
	eng := testEngine(t, base, &stubFetcher{entries: sampleHistory()}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := eng.Personalize(context.Background(), "u1"); err != nil {
				t.Errorf("Personalize: %v", err)
			}
		}()
	}
	wg.Wait()

	if !reflect.DeepEqual(base, snapshot) {
		t.Error("base model mutated by concurrent personalization")
	}
}

func TestPersonalizeEmptyHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []mal.ListEntry
	}{
		{name: "no entries", entries: nil},
		{
			name: "nothing resolvable",
			entries: []mal.ListEntry{
				{AnimeID: "999999", Status: mal.StatusCompleted, Score: 8},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eng := testEngine(t, testModel(t), &stubFetcher{entries: tt.entries}, nil)
			_, err := eng.Personalize(context.Background(), "u1")
			if !errors.Is(err, ErrEmptyHistory) {
				t.Fatalf("err = %v, want ErrEmptyHistory", err)
			}
		})
	}
}

func TestPersonalizeFetchErrorPassthrough(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("upstream exploded")
	eng := testEngine(t, testModel(t), &stubFetcher{err: fetchErr}, nil)

	_, err := eng.Personalize(context.Background(), "u1")
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want fetch error passed through", err)
	}
}

func TestPersonalizeTopNTruncation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TopN = 1
	history := []mal.ListEntry{
		{AnimeID: "1", Status: mal.StatusCompleted, Score: 9, Genres: []string{"Action"}},
	}
	eng := testEngine(t, testModel(t), &stubFetcher{entries: history}, cfg)

	result, err := eng.Personalize(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("recommendations = %d, want 1", len(result.Recommendations))
	}
	if len(result.Ranked) != 4 {
		t.Errorf("ranked = %d, want full list of 4", len(result.Ranked))
	}
	if result.Recommendations[0] != result.Ranked[0] {
		t.Error("recommendations must be the head of the ranked list")
	}
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	base := testModel(t)
	maps := testMaps(t)
	fetcher := &stubFetcher{}

	if _, err := NewEngine(nil, base, maps, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil fetcher")
	}
	if _, err := NewEngine(nil, nil, maps, fetcher, zerolog.Nop()); err == nil {
		t.Error("expected error for nil model")
	}

	bad := DefaultConfig()
	bad.Epochs = 0
	if _, err := NewEngine(bad, base, maps, fetcher, zerolog.Nop()); err == nil {
		t.Error("expected error for invalid config")
	}
}
