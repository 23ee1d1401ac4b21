// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/anirec/anirec/internal/logging"
)

// Model holds the pre-trained latent-factor parameters. A user is
// represented through their feature tokens: the effective user vector
// is the sum of the feature embedding rows weighted by the user's
// feature values, plus a per-user latent row learned at serve time.
//
// The instance loaded at startup is shared and read-only for the
// process lifetime. Every personalization request works on a deep copy
// obtained via Clone, never on the shared instance.
type Model struct {
	// Components is the latent dimensionality.
	Components int `json:"components"`

	// ItemFactors is the item latent matrix (numItems x Components).
	ItemFactors [][]float64 `json:"item_factors"`

	// ItemBiases is the per-item bias vector (numItems).
	ItemBiases []float64 `json:"item_biases"`

	// FeatureFactors is the user-feature embedding matrix
	// (numFeatures x Components).
	FeatureFactors [][]float64 `json:"feature_factors"`

	// FeatureBiases is the per-feature bias vector (numFeatures).
	FeatureBiases []float64 `json:"feature_biases"`
}

// artifact is the on-disk shape: model parameters plus the four
// identifier mappings frozen when the model was trained.
type artifact struct {
	Model        Model          `json:"model"`
	UserIDs      map[string]int `json:"user_ids"`
	UserFeatures map[string]int `json:"user_features"`
	ItemIDs      map[string]int `json:"item_ids"`
	ItemFeatures map[string]int `json:"item_features"`
}

// LoadArtifact reads the model artifact from a JSON file and validates
// its dimensions against the embedded identifier mappings.
func LoadArtifact(path string) (*Model, *IdentifierMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	maps, err := newIdentifierMap(art.UserIDs, art.UserFeatures, art.ItemIDs, art.ItemFeatures)
	if err != nil {
		return nil, nil, err
	}

	if err := art.Model.validate(maps); err != nil {
		return nil, nil, err
	}

	logging.Info().
		Str("path", path).
		Int("components", art.Model.Components).
		Int("items", maps.NumItems()).
		Int("features", maps.NumFeatures()).
		Msg("model artifact loaded")

	return &art.Model, maps, nil
}

// validate checks every parameter block against the mapping sizes and
// the declared component count.
func (m *Model) validate(maps *IdentifierMap) error {
	if m.Components <= 0 {
		return fmt.Errorf("%w: components must be positive, got %d", ErrInvalidArtifact, m.Components)
	}
	if len(m.ItemFactors) != maps.NumItems() {
		return fmt.Errorf("%w: item_factors rows %d, mapping has %d items", ErrInvalidArtifact, len(m.ItemFactors), maps.NumItems())
	}
	if len(m.ItemBiases) != maps.NumItems() {
		return fmt.Errorf("%w: item_biases length %d, mapping has %d items", ErrInvalidArtifact, len(m.ItemBiases), maps.NumItems())
	}
	if len(m.FeatureFactors) != maps.NumFeatures() {
		return fmt.Errorf("%w: feature_factors rows %d, mapping has %d features", ErrInvalidArtifact, len(m.FeatureFactors), maps.NumFeatures())
	}
	if len(m.FeatureBiases) != maps.NumFeatures() {
		return fmt.Errorf("%w: feature_biases length %d, mapping has %d features", ErrInvalidArtifact, len(m.FeatureBiases), maps.NumFeatures())
	}
	for i, row := range m.ItemFactors {
		if len(row) != m.Components {
			return fmt.Errorf("%w: item_factors[%d] has %d components, want %d", ErrInvalidArtifact, i, len(row), m.Components)
		}
	}
	for i, row := range m.FeatureFactors {
		if len(row) != m.Components {
			return fmt.Errorf("%w: feature_factors[%d] has %d components, want %d", ErrInvalidArtifact, i, len(row), m.Components)
		}
	}
	return nil
}

// NumItems returns the item count the model was trained with.
func (m *Model) NumItems() int { return len(m.ItemFactors) }

// NumFeatures returns the user feature count the model was trained with.
func (m *Model) NumFeatures() int { return len(m.FeatureFactors) }

// Clone returns a full deep copy. The receiver is never referenced by
// the copy, so mutating the copy cannot touch the shared base model.
func (m *Model) Clone() *Model {
	return &Model{
		Components:     m.Components,
		ItemFactors:    cloneMatrix(m.ItemFactors),
		ItemBiases:     cloneVector(m.ItemBiases),
		FeatureFactors: cloneMatrix(m.FeatureFactors),
		FeatureBiases:  cloneVector(m.FeatureBiases),
	}
}

func cloneMatrix(src [][]float64) [][]float64 {
	if src == nil {
		return nil
	}
	dst := make([][]float64, len(src))
	for i := range src {
		dst[i] = make([]float64, len(src[i]))
		copy(dst[i], src[i])
	}
	return dst
}

func cloneVector(src []float64) []float64 {
	if src == nil {
		return nil
	}
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
