package database

import (
	"context"
	"embed"
	"testing"
	"time"
)

// testMigrationsDir is the directory containing test migration files.
const testMigrationsDir = "testdata"

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// withTestMigrations swaps the package migration source for the test's.
func withTestMigrations(t *testing.T) {
	t.Helper()

	origFS := MigrationsFS
	origDir := MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})

	MigrationsFS = testMigrationsFS
	MigrationsDir = testMigrationsDir
}

func TestMigrate(t *testing.T) {
	withTestMigrations(t)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Verify table was created
	var tableName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='test_entries'",
	).Scan(&tableName)
	if err != nil {
		t.Fatalf("table test_entries not created: %v", err)
	}

	// Verify migration was recorded
	applied, err := db.appliedVersions(ctx)
	if err != nil {
		t.Fatalf("appliedVersions() error = %v", err)
	}
	if !applied["20260801_120000"] {
		t.Error("expected migration 20260801_120000 to be recorded")
	}

	// Running again should be idempotent
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantOK      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20260801_120000_initial_schema.up.sql",
			wantVersion: "20260801_120000",
			wantOK:      true,
		},
		{
			name:     "down migration ignored",
			filename: "20260801_120000_initial_schema.down.sql",
			wantOK:   false,
		},
		{
			name:     "not a sql file",
			filename: "README.md",
			wantOK:   false,
		},
		{
			name:     "missing version parts",
			filename: "schema.up.sql",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("parseMigrationFilename(%q) ok = %v, expected %v", tt.filename, ok, tt.wantOK)
			}
			if ok && version != tt.wantVersion {
				t.Errorf("parseMigrationFilename(%q) version = %q, expected %q", tt.filename, version, tt.wantVersion)
			}
		})
	}
}

func TestExtractMigrationName(t *testing.T) {
	if got := extractMigrationName("20260801_120000_initial_schema.up.sql"); got != "initial_schema" {
		t.Errorf("extractMigrationName = %q, expected initial_schema", got)
	}
}
