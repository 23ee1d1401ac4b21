// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import "errors"

// Sentinel errors for the personalization pipeline.
var (
	// ErrEmptyHistory means the fetched list contained zero usable
	// entries. Distinct from an unresolvable user: the account exists
	// but there is nothing to personalize on.
	ErrEmptyHistory = errors.New("history is empty, cannot personalize")

	// ErrInvalidArtifact means the model artifact failed structural
	// validation at load time (dimension mismatch, broken mapping).
	ErrInvalidArtifact = errors.New("invalid model artifact")
)
