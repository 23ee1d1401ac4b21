// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package config provides application configuration loaded with koanf.
//
// Configuration is resolved in three layers, later layers overriding
// earlier ones:
//
//  1. Struct defaults (defaultConfig)
//  2. YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (ANIREC_ prefix, e.g. ANIREC_MAL_CLIENT_ID)
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	MAL     MALConfig     `koanf:"mal"`
	Catalog CatalogConfig `koanf:"catalog"`
	Model   ModelConfig   `koanf:"model"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`             // Listen address (default 0.0.0.0)
	Port            int           `koanf:"port"`             // Listen port (default 8000)
	ReadTimeout     time.Duration `koanf:"read_timeout"`     // Per-request read timeout
	WriteTimeout    time.Duration `koanf:"write_timeout"`    // Per-request write timeout; must cover a full personalization run
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Graceful shutdown deadline
	CORSOrigins     []string      `koanf:"cors_origins"`     // Allowed frontend origins
	RateLimit       int           `koanf:"rate_limit"`       // Requests per minute per client IP
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // Include caller file:line
}

// MALConfig controls the MyAnimeList API client.
type MALConfig struct {
	BaseURL        string        `koanf:"base_url"`        // API root (default https://api.myanimelist.net/v2)
	ClientID       string        `koanf:"client_id"`       // X-MAL-CLIENT-ID credential (required)
	PageLimit      int           `koanf:"page_limit"`      // Entries per page (default 1000, the API maximum)
	MaxPages       int           `koanf:"max_pages"`       // Upper bound on cursor follows per fetch
	MaxRetries     int           `koanf:"max_retries"`     // Retry bound for retryable HTTP errors
	RequestTimeout time.Duration `koanf:"request_timeout"` // Per-page HTTP timeout
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`   // Overall deadline for a full list fetch
	RatePerSecond  float64       `koanf:"rate_per_second"` // Client-side request rate limit
}

// CatalogConfig locates the anime catalog snapshot.
type CatalogConfig struct {
	Path string `koanf:"path"` // CSV file path (default ./data/anime_data.csv)
}

// ModelConfig locates the pre-trained model artifact and sets
// personalization parameters.
type ModelConfig struct {
	Path           string  `koanf:"path"`            // Model artifact path (default ./model_files/anirec_model.json)
	Epochs         int     `koanf:"epochs"`          // Incremental fit passes per request
	LearningRate   float64 `koanf:"learning_rate"`   // SGD step size
	Regularization float64 `koanf:"regularization"`  // L2 regularization on the learned user row
	Seed           int64   `koanf:"seed"`            // RNG seed; pinned for deterministic fits
	TopN           int     `koanf:"top_n"`           // Recommendations returned in the predict response
}

// defaultConfig returns a Config with all default values. These are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimit:       120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		MAL: MALConfig{
			BaseURL:        "https://api.myanimelist.net/v2",
			ClientID:       "",
			PageLimit:      1000,
			MaxPages:       50,
			MaxRetries:     3,
			RequestTimeout: 30 * time.Second,
			FetchTimeout:   90 * time.Second,
			RatePerSecond:  4,
		},
		Catalog: CatalogConfig{
			Path: "./data/anime_data.csv",
		},
		Model: ModelConfig{
			Path:           "./model_files/anirec_model.json",
			Epochs:         10,
			LearningRate:   0.05,
			Regularization: 0.001,
			Seed:           42,
			TopN:           50,
		},
	}
}

// Validate checks the configuration for values that would make the
// service inoperable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.MAL.ClientID == "" {
		return fmt.Errorf("mal.client_id is required (set ANIREC_MAL_CLIENT_ID)")
	}
	if c.MAL.PageLimit <= 0 {
		return fmt.Errorf("mal.page_limit must be positive: %d", c.MAL.PageLimit)
	}
	if c.MAL.MaxPages <= 0 {
		return fmt.Errorf("mal.max_pages must be positive: %d", c.MAL.MaxPages)
	}
	if c.MAL.MaxRetries < 0 {
		return fmt.Errorf("mal.max_retries must not be negative: %d", c.MAL.MaxRetries)
	}
	if c.Model.Epochs <= 0 {
		return fmt.Errorf("model.epochs must be positive: %d", c.Model.Epochs)
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive: %f", c.Model.LearningRate)
	}
	if c.Model.TopN <= 0 {
		return fmt.Errorf("model.top_n must be positive: %d", c.Model.TopN)
	}
	return nil
}
