package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf, "debug", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Str("feed", "coindesk").Msg("fetched")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["feed"] != "coindesk" || entry["service"] != "news-pulse" || entry["message"] != "fetched" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf, "warn", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := InitWithWriter(&bytes.Buffer{}, "loud", "json"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
