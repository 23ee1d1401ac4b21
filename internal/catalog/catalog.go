// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package catalog provides the read-only anime catalog.
//
// The catalog is loaded once at startup from a CSV snapshot and never
// mutated afterwards, so lookups need no locking. Items are keyed by
// their external MyAnimeList ID (kept as a string to match the trained
// model's identifier space).
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anirec/anirec/internal/logging"
)

// Item is one catalog entry. Immutable reference data.
type Item struct {
	// ID is the external anime identifier.
	ID string `json:"anime_id"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres is the comma-joined genre string as stored in the snapshot.
	Genres string `json:"genres"`

	// MediaType is tv, ova, movie, special, ona or music.
	MediaType string `json:"media_type"`

	// Mean is the community mean rating (0 when unrated).
	Mean float64 `json:"mean"`

	// NumListUsers is the audience size (how many users list this anime).
	NumListUsers int `json:"num_list_users"`

	// Synopsis is the plot summary.
	Synopsis string `json:"synopsis"`

	// ImageURL is the cover image.
	ImageURL string `json:"image_url"`
}

// GenreList splits the comma-joined genre string into trimmed names.
// Returns nil for an empty or unreadable genre field.
func (it *Item) GenreList() []string {
	if it.Genres == "" {
		return nil
	}
	parts := strings.Split(it.Genres, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return nil
	}
	return genres
}

// Store holds the full catalog keyed by external ID.
type Store struct {
	items map[string]*Item
}

// NewStore builds a store from items directly. Later duplicates of an
// ID are dropped, matching the CSV loader's policy.
func NewStore(items ...*Item) *Store {
	s := &Store{items: make(map[string]*Item, len(items))}
	for _, it := range items {
		if it == nil || it.ID == "" {
			continue
		}
		if _, dup := s.items[it.ID]; dup {
			continue
		}
		s.items[it.ID] = it
	}
	return s
}

// requiredColumns are the CSV columns the loader needs. Extra columns
// are ignored.
var requiredColumns = []string{"anime_id", "title", "genres", "media_type", "mean", "num_list_users", "synopsis", "image_url"}

// Load reads the catalog snapshot from a CSV file.
// Rows with a missing or duplicate anime_id are skipped with a warning;
// malformed numeric fields degrade to zero rather than failing the load.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	store, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	logging.Info().Str("path", path).Int("items", store.Len()).Msg("catalog loaded")
	return store, nil
}

// parse reads CSV rows into a Store. The first row must be a header
// containing all required columns.
func parse(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validated per row below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	store := &Store{items: make(map[string]*Item)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		item, ok := rowToItem(record, col)
		if !ok {
			logging.Warn().Int("line", line).Msg("skipping catalog row with missing anime_id")
			continue
		}
		if _, dup := store.items[item.ID]; dup {
			logging.Warn().Str("anime_id", item.ID).Int("line", line).Msg("skipping duplicate catalog row")
			continue
		}
		store.items[item.ID] = item
	}

	return store, nil
}

// rowToItem converts one CSV record into an Item.
func rowToItem(record []string, col map[string]int) (*Item, bool) {
	field := func(name string) string {
		idx := col[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	id := field("anime_id")
	if id == "" {
		return nil, false
	}

	mean, _ := strconv.ParseFloat(field("mean"), 64)
	numUsers, _ := strconv.Atoi(field("num_list_users"))

	return &Item{
		ID:           id,
		Title:        field("title"),
		Genres:       field("genres"),
		MediaType:    strings.ToLower(field("media_type")),
		Mean:         mean,
		NumListUsers: numUsers,
		Synopsis:     field("synopsis"),
		ImageURL:     field("image_url"),
	}, true
}

// Get returns the item for an external ID, or nil when absent.
func (s *Store) Get(id string) *Item {
	return s.items[id]
}

// Len returns the number of catalog items.
func (s *Store) Len() int {
	return len(s.items)
}
