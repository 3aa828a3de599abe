package database

import (
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestEmbeddedMigrations(t *testing.T) {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	ms, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("CollectMigrations: %v", err)
	}
	if len(ms) != 1 || ms[0].Version != 1 {
		t.Fatalf("migrations = %v", ms)
	}

	src, err := migrations.ReadFile("migrations/00001_create_users.sql")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "login      TEXT NOT NULL UNIQUE"} {
		if !strings.Contains(string(src), want) {
			t.Errorf("users migration misses %q", want)
		}
	}
}
