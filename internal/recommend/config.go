// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package recommend

import "fmt"

// Config contains the personalization parameters.
type Config struct {
	// Epochs is the number of incremental-fit passes over the user's
	// interactions.
	// Default: 10.
	Epochs int `json:"epochs"`

	// LearningRate is the SGD step size.
	// Default: 0.05.
	LearningRate float64 `json:"learning_rate"`

	// Regularization is the L2 regularization on the learned user row.
	// Default: 0.001.
	Regularization float64 `json:"regularization"`

	// Seed drives the per-epoch interaction shuffle. Pinned so that two
	// runs over the same history rank identically.
	// Default: 42.
	Seed int64 `json:"seed"`

	// TopN is the number of recommendations surfaced to the caller.
	// The full ranked list is always returned alongside.
	// Default: 50.
	TopN int `json:"top_n"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Epochs:         10,
		LearningRate:   0.05,
		Regularization: 0.001,
		Seed:           42,
		TopN:           50,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Epochs < 1 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %f", c.LearningRate)
	}
	if c.Regularization < 0 {
		return fmt.Errorf("regularization must be non-negative, got %f", c.Regularization)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	return nil
}
