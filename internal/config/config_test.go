// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package config

import (
	"testing"
)

func TestDefaultConfigIsValidWithCredential(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.MAL.ClientID = "test-client-id"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing client id", mutate: func(c *Config) { c.MAL.ClientID = "" }},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero page limit", mutate: func(c *Config) { c.MAL.PageLimit = 0 }},
		{name: "zero max pages", mutate: func(c *Config) { c.MAL.MaxPages = 0 }},
		{name: "negative retries", mutate: func(c *Config) { c.MAL.MaxRetries = -1 }},
		{name: "zero epochs", mutate: func(c *Config) { c.Model.Epochs = 0 }},
		{name: "zero learning rate", mutate: func(c *Config) { c.Model.LearningRate = 0 }},
		{name: "zero top n", mutate: func(c *Config) { c.Model.TopN = 0 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			cfg.MAL.ClientID = "test-client-id"
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "ANIREC_MAL_CLIENT_ID", want: "mal.client_id"},
		{in: "ANIREC_SERVER_PORT", want: "server.port"},
		{in: "ANIREC_MODEL_LEARNING_RATE", want: "model.learning_rate"},
		{in: "ANIREC_LOGGING_LEVEL", want: "logging.level"},
	}

	for _, tt := range tests {
		tt := tt
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
