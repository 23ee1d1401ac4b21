// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logDebug  bool
		wantEmpty bool
	}{
		{name: "info suppresses debug", level: "info", logDebug: true, wantEmpty: true},
		{name: "debug emits debug", level: "debug", logDebug: true, wantEmpty: false},
		{name: "unknown level falls back to info", level: "bogus", logDebug: false, wantEmpty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Init(Config{Level: tt.level, Format: "json", Output: &buf})

			if tt.logDebug {
				Debug().Msg("debug message")
			} else {
				Info().Msg("info message")
			}

			got := buf.String()
			if tt.wantEmpty && got != "" {
				t.Errorf("expected no output, got %q", got)
			}
			if !tt.wantEmpty && got == "" {
				t.Error("expected output, got none")
			}
		})
	}

	// Restore defaults for other tests.
	Init(DefaultConfig())
}

func TestStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})

	Info().Str("user", "testuser").Int("pages", 3).Msg("history fetched")

	out := buf.String()
	for _, want := range []string{`"user":"testuser"`, `"pages":3`, `"history fetched"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}

	Init(DefaultConfig())
}
