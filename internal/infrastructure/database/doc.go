// Package database provides the SQLite connection used by the bridge's
// host store.
//
// This package manages:
//   - The connection, with optional WAL mode and a busy timeout
//   - Versioned schema migrations read from an fs.FS
//
// A Path of ":memory:" opens a private in-memory database, used by tests.
// The pool is limited to one connection, so every statement sees the same
// in-memory database.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql. Each migration runs in its own transaction.
package database
