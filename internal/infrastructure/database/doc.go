// Package database provides SQLite connectivity for EcoHub Core.
//
// The database backs the telemetry history store: a queryable local
// mirror of the snapshots the persistence worker appends to the NDJSON
// log. It is not on the hot path — the log file remains the primary
// record.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// # Migrations
//
// Schema migrations are .up.sql files embedded by the top-level
// migrations package (filename format YYYYMMDD_HHMMSS_description.up.sql).
// Migrate applies pending migrations in version order, each in its own
// transaction, and records them in schema_migrations.
package database
