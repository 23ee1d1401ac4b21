// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package mal

import "strings"

// Status is a normalized MyAnimeList list status.
type Status string

// Normalized list statuses. The v2 API already returns snake_case
// tokens; NormalizeStatus also accepts the display forms seen in older
// exports ("Plan to Watch", "On-Hold").
const (
	StatusWatching    Status = "watching"
	StatusCompleted   Status = "completed"
	StatusOnHold      Status = "on_hold"
	StatusDropped     Status = "dropped"
	StatusPlanToWatch Status = "plan_to_watch"
)

// NormalizeStatus maps any known status spelling to its canonical
// token. Unknown statuses are lowercased and kept as-is so the weight
// heuristic can apply its default branch.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	switch s {
	case "watching", "completed", "dropped":
		return Status(s)
	case "on_hold":
		return StatusOnHold
	case "plan_to_watch", "plantowatch":
		return StatusPlanToWatch
	default:
		return Status(s)
	}
}

// ListEntry is one normalized (user, anime) observation from a fetched
// animelist. Collected per request, never persisted.
type ListEntry struct {
	// AnimeID is the external anime identifier, stringified to match
	// the trained model's identifier space.
	AnimeID string `json:"anime_id"`

	// Title is the display title.
	Title string `json:"title"`

	// Status is the normalized list status.
	Status Status `json:"status"`

	// Score is 0 when unscored, otherwise 1-10.
	Score int `json:"score"`

	// Genres are the genre tag names attached to the anime.
	Genres []string `json:"genres"`

	// MediaType is tv, ova, movie, special, ona or music.
	MediaType string `json:"media_type,omitempty"`

	// ImageURL is the cover image, when present.
	ImageURL string `json:"image_url,omitempty"`

	// StartDate and FinishDate are the user's watch dates (YYYY-MM-DD),
	// empty when unset.
	StartDate  string `json:"start_date,omitempty"`
	FinishDate string `json:"finish_date,omitempty"`
}

// FetchState tracks the terminal state of one paginated list fetch.
type FetchState int

const (
	// StateFetching means the cursor chain is still being followed.
	StateFetching FetchState = iota
	// StateDone means the cursor was exhausted normally.
	StateDone
	// StateAbortedAuth means the upstream rejected the user (401/403/404).
	StateAbortedAuth
	// StateAbortedTimeout means the overall deadline or page bound was hit.
	StateAbortedTimeout
)

// String returns a metric-friendly name for the state.
func (s FetchState) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateDone:
		return "done"
	case StateAbortedAuth:
		return "aborted_auth"
	case StateAbortedTimeout:
		return "aborted_timeout"
	default:
		return "unknown"
	}
}

// Wire types for the MyAnimeList v2 animelist endpoint.

// listResponse is the top-level page payload.
type listResponse struct {
	Data   []listItem `json:"data"`
	Paging paging     `json:"paging"`
}

// paging carries the server-supplied next-page cursor URL.
type paging struct {
	Next string `json:"next"`
}

// listItem pairs an anime node with the user's list status.
type listItem struct {
	Node       animeNode  `json:"node"`
	ListStatus listStatus `json:"list_status"`
}

// animeNode is the anime metadata subset requested via the fields param.
type animeNode struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Genres      []genreTag  `json:"genres"`
	MediaType   string      `json:"media_type"`
	MainPicture mainPicture `json:"main_picture"`
}

// genreTag is one genre entry on an anime node.
type genreTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// mainPicture holds the cover image URLs.
type mainPicture struct {
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// listStatus is the user's per-anime list state.
type listStatus struct {
	Status     string `json:"status"`
	Score      int    `json:"score"`
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date"`
}
