// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import "fmt"

// IdentifierMap holds the four frozen bijections produced alongside the
// trained model: external user IDs, user feature tokens (genre names),
// external item IDs and item feature tokens, each mapped to the dense
// internal indices the factorization parameters are laid out in.
//
// Built once at load time and never mutated, so lookups are safe for
// concurrent use without locking. Lookups fail closed: a miss returns
// ok=false and the caller drops the entry, it is never coerced to
// index 0.
type IdentifierMap struct {
	userIndex    map[string]int
	featureIndex map[string]int
	itemIndex    map[string]int
	itemFeatIdx  map[string]int

	indexToUser    []string
	indexToFeature []string
	indexToItem    []string
	indexToItemFt  []string
}

// newIdentifierMap builds the reverse arrays from the four forward maps
// and verifies each is a dense bijection over [0, n).
func newIdentifierMap(users, features, items, itemFeatures map[string]int) (*IdentifierMap, error) {
	m := &IdentifierMap{
		userIndex:    users,
		featureIndex: features,
		itemIndex:    items,
		itemFeatIdx:  itemFeatures,
	}

	var err error
	if m.indexToUser, err = invert("user", users); err != nil {
		return nil, err
	}
	if m.indexToFeature, err = invert("user_feature", features); err != nil {
		return nil, err
	}
	if m.indexToItem, err = invert("item", items); err != nil {
		return nil, err
	}
	if m.indexToItemFt, err = invert("item_feature", itemFeatures); err != nil {
		return nil, err
	}
	return m, nil
}

// invert turns an external→internal map into an internal→external
// array, rejecting gaps and duplicate indices.
func invert(kind string, forward map[string]int) ([]string, error) {
	reverse := make([]string, len(forward))
	seen := make([]bool, len(forward))
	for ext, idx := range forward {
		if idx < 0 || idx >= len(forward) {
			return nil, fmt.Errorf("%w: %s index %d out of range [0, %d)", ErrInvalidArtifact, kind, idx, len(forward))
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: duplicate %s index %d", ErrInvalidArtifact, kind, idx)
		}
		seen[idx] = true
		reverse[idx] = ext
	}
	return reverse, nil
}

// FeatureIndex resolves a user feature token (genre name) to its
// internal feature index.
func (m *IdentifierMap) FeatureIndex(token string) (int, bool) {
	idx, ok := m.featureIndex[token]
	return idx, ok
}

// FeatureToken is the inverse of FeatureIndex.
func (m *IdentifierMap) FeatureToken(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.indexToFeature) {
		return "", false
	}
	return m.indexToFeature[idx], true
}

// ItemIndex resolves an external anime ID to its internal item index.
func (m *IdentifierMap) ItemIndex(id string) (int, bool) {
	idx, ok := m.itemIndex[id]
	return idx, ok
}

// ItemID is the inverse of ItemIndex.
func (m *IdentifierMap) ItemID(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.indexToItem) {
		return "", false
	}
	return m.indexToItem[idx], true
}

// UserIndex resolves an external user ID from the training corpus.
// New users personalized at serve time are not expected to resolve.
func (m *IdentifierMap) UserIndex(id string) (int, bool) {
	idx, ok := m.userIndex[id]
	return idx, ok
}

// NumFeatures returns the user feature vocabulary size.
func (m *IdentifierMap) NumFeatures() int { return len(m.indexToFeature) }

// NumItems returns the item vocabulary size.
func (m *IdentifierMap) NumItems() int { return len(m.indexToItem) }

// NumUsers returns the training-corpus user count.
func (m *IdentifierMap) NumUsers() int { return len(m.indexToUser) }
