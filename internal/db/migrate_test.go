package db

import (
	"testing"
	"testing/fstest"
)

func TestLoadEmbeddedMigrations(t *testing.T) {
	migrations, err := LoadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	for i, m := range migrations {
		if m.Version != int64(i+1) {
			t.Fatalf("expected version %d, got %d", i+1, m.Version)
		}
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Fatalf("migration %d missing up or down sql", m.Version)
		}
	}
	if migrations[0].Name != "create_articles" {
		t.Fatalf("unexpected first migration name %s", migrations[0].Name)
	}
}

func TestLoadMigrationsRejectsBadSets(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"missing down": {
			"migrations/000001_a.up.sql": {Data: []byte("SELECT 1")},
		},
		"bad name": {
			"migrations/one.up.sql": {Data: []byte("SELECT 1")},
		},
		"empty": {
			"migrations/000001_a.up.sql":   {Data: []byte(" ")},
			"migrations/000001_a.down.sql": {Data: []byte("SELECT 1")},
		},
		"conflict": {
			"migrations/000001_a.up.sql":   {Data: []byte("SELECT 1")},
			"migrations/000001_b.down.sql": {Data: []byte("SELECT 1")},
		},
		"none": {},
	}
	for name, fsys := range cases {
		if _, err := LoadMigrations(fsys); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
