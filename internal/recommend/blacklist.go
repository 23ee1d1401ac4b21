// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

// blacklistedIDs are anime IDs present in the trained model's index
// space but retired from the current catalog. They are excluded from
// every ranking regardless of the user's history.
var blacklistedIDs = map[string]struct{}{
	"34866": {},
	"38413": {},
	"40834": {},
	"48466": {},
}

// Blacklisted reports whether an external anime ID is retired.
func Blacklisted(id string) bool {
	_, ok := blacklistedIDs[id]
	return ok
}
