// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package api

import "github.com/anirec/anirec/internal/recommend"

// PredictRequest asks for personalized recommendations.
type PredictRequest struct {
	// Username is the MyAnimeList username (2-16 characters).
	Username string `json:"username" validate:"required,min=2,max=16"`
}

// FilterRequest filters and paginates a ranked list returned by a
// previous predict call.
type FilterRequest struct {
	// IDScorePairs is the full ranked list echoed back from predict.
	IDScorePairs []recommend.IDScore `json:"id_score_pairs" validate:"required,min=1"`

	// Genres must all be present on a result (AND semantics).
	Genres []string `json:"genres"`

	// MediaTypes restricts results to these media types.
	MediaTypes []string `json:"media_types"`

	// MinUsers and MaxUsers bound the audience size inclusively.
	MinUsers int `json:"min_users" validate:"min=0"`
	MaxUsers int `json:"max_users" validate:"min=0"`

	// Page is the 1-based result page (20 results per page).
	Page int `json:"page" validate:"min=1"`
}
