// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package recommend implements per-request personalization over a
// pre-trained latent-factor model.
//
// The base model and its identifier mappings are loaded once at
// startup and shared read-only. A request fetches the user's list,
// encodes it into genre preference and interaction vectors over the
// model's internal index space, deep-copies the base model, learns
// only the new user's latent row with a bounded seeded SGD pass,
// scores the full catalog, min-max normalizes, excludes seen and
// blacklisted items, and returns the ranked list. Nothing about a
// request survives it: the private model copy and the ranked list are
// request-scoped, and the caller echoes the ranked list back for
// later filtering.
//
// The (status, score) interaction weight table is a fixed heuristic
// shared by the offline training pipeline; see InteractionWeight.
package recommend
