// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `anime_id,title,genres,media_type,mean,num_list_users,synopsis,image_url
5114,"Fullmetal Alchemist: Brotherhood","Action, Adventure, Drama, Fantasy",tv,9.1,3300000,"Two brothers search for a Philosopher's Stone.",https://cdn.example/5114.jpg
9253,"Steins;Gate","Drama, Sci-Fi, Suspense",tv,9.07,2600000,"A self-proclaimed mad scientist discovers time travel.",https://cdn.example/9253.jpg
199,"Sen to Chihiro no Kamikakushi","Adventure, Award Winning, Supernatural",movie,8.77,1800000,"A girl enters a world of spirits.",https://cdn.example/199.jpg
,"No ID Row","Action",tv,7.0,1000,"broken row",
5114,"Duplicate Row","Action",tv,1.0,1,"dup",
`

func loadSample(t *testing.T) *Store {
	t.Helper()
	store, err := parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return store
}

func TestParseSkipsBadRows(t *testing.T) {
	t.Parallel()

	store := loadSample(t)
	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (missing-ID and duplicate rows skipped)", store.Len())
	}

	item := store.Get("5114")
	if item == nil {
		t.Fatal("Get(5114) = nil")
	}
	if item.Title != "Fullmetal Alchemist: Brotherhood" {
		t.Errorf("duplicate row overwrote original: %s", item.Title)
	}
	if item.MediaType != "tv" {
		t.Errorf("MediaType = %s, want tv", item.MediaType)
	}
	if item.NumListUsers != 3300000 {
		t.Errorf("NumListUsers = %d, want 3300000", item.NumListUsers)
	}
}

func TestParseMissingColumn(t *testing.T) {
	t.Parallel()

	_, err := parse(strings.NewReader("anime_id,title\n1,x\n"))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()

	store := loadSample(t)
	if got := store.Get("99999"); got != nil {
		t.Errorf("Get(unknown) = %+v, want nil", got)
	}
}

func TestGenreList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		genres string
		want   int
	}{
		{name: "multiple genres", genres: "Action, Adventure, Drama", want: 3},
		{name: "empty string", genres: "", want: 0},
		{name: "only separators", genres: " , , ", want: 0},
		{name: "single genre", genres: "Comedy", want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item := &Item{Genres: tt.genres}
			got := item.GenreList()
			if len(got) != tt.want {
				t.Errorf("GenreList() = %v, want %d entries", got, tt.want)
			}
		})
	}
}
