// Package database provides SQLite connectivity for the generator's run
// snapshots.
//
// This package manages:
//   - Database connection with WAL mode and foreign keys enabled
//   - Schema migrations read from an fs.FS (usually embedded)
//   - Transaction helpers
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//   - Secret values are never written; snapshots hold identifiers only
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database, database.WithMigrations(migrations.FS))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with a
// matching .down.sql, and are additive-only.
package database
