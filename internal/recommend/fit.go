// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import (
	"context"
	"math"
	"math/rand"
	"sort"
)

// userRow is the serve-time user representation learned by the
// incremental fit: a private latent row plus bias, combined with the
// fixed feature representation derived from the user's genre
// preferences.
type userRow struct {
	// latent is the learned per-user latent row (Components).
	latent []float64

	// bias is the learned per-user bias.
	bias float64

	// featureRepr is the fixed weighted sum of feature embedding rows,
	// not updated during the fit.
	featureRepr []float64

	// featureBias is the fixed weighted sum of feature biases.
	featureBias float64
}

// buildFeatureRepr folds the user's feature weights into a dense
// representation against the model's feature embeddings.
func buildFeatureRepr(m *Model, features map[int]float64) ([]float64, float64) {
	repr := make([]float64, m.Components)
	var bias float64
	for idx, weight := range features {
		row := m.FeatureFactors[idx]
		for f := 0; f < m.Components; f++ {
			repr[f] += weight * row[f]
		}
		bias += weight * m.FeatureBiases[idx]
	}
	return repr, bias
}

// fitUserRow learns the new user's latent row and bias against the
// model's fixed item embeddings using seeded SGD over the interaction
// vector. Only the user row moves; item and feature parameters stay
// frozen, so personalization cannot leak between requests even on a
// shared model.
//
// The loss is squared error through a sigmoid: for each interaction
// (i, w), p = sigmoid(u·q_i + b_u + b_i) is pulled toward w. The
// per-epoch visit order is shuffled with the pinned seed, making the
// fit deterministic for identical inputs.
func fitUserRow(ctx context.Context, m *Model, enc *Encoding, cfg *Config) (*userRow, error) {
	featureRepr, featureBias := buildFeatureRepr(m, enc.Features)
	row := &userRow{
		latent:      make([]float64, m.Components),
		featureRepr: featureRepr,
		featureBias: featureBias,
	}

	if len(enc.Interactions) == 0 {
		return row, nil
	}

	// Stable visit base order so the seeded shuffle is reproducible
	// regardless of map iteration order.
	items := make([]int, 0, len(enc.Interactions))
	for idx := range enc.Interactions {
		items = append(items, idx)
	}
	sort.Ints(items)

	//nolint:gosec // G404: math/rand is acceptable for SGD sampling (not security)
	rng := rand.New(rand.NewSource(cfg.Seed))
	lr := cfg.LearningRate
	reg := cfg.Regularization

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})

		for _, i := range items {
			target := enc.Interactions[i]
			itemVec := m.ItemFactors[i]

			raw := row.bias + row.featureBias + m.ItemBiases[i]
			for f := 0; f < m.Components; f++ {
				raw += (row.latent[f] + row.featureRepr[f]) * itemVec[f]
			}

			p := sigmoid(raw)
			grad := (p - target) * p * (1 - p)

			for f := 0; f < m.Components; f++ {
				row.latent[f] -= lr * (grad*itemVec[f] + reg*row.latent[f])
			}
			row.bias -= lr * grad
		}
	}

	return row, nil
}

// scoreAll computes one raw affinity score per model item for the
// fitted user row.
func scoreAll(m *Model, row *userRow) []float64 {
	scores := make([]float64, m.NumItems())
	userVec := make([]float64, m.Components)
	for f := 0; f < m.Components; f++ {
		userVec[f] = row.latent[f] + row.featureRepr[f]
	}
	base := row.bias + row.featureBias

	for i := range scores {
		itemVec := m.ItemFactors[i]
		s := base + m.ItemBiases[i]
		for f := 0; f < m.Components; f++ {
			s += userVec[f] * itemVec[f]
		}
		scores[i] = s
	}
	return scores
}

// normalizeScores min-max scales scores into [0, 1] in place. When
// every score is equal the scale is undefined; every item maps to 0.5
// rather than dividing by zero.
func normalizeScores(scores []float64) {
	if len(scores) == 0 {
		return
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	spread := maxScore - minScore
	if spread == 0 {
		for i := range scores {
			scores[i] = 0.5
		}
		return
	}

	for i := range scores {
		scores[i] = (scores[i] - minScore) / spread
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
