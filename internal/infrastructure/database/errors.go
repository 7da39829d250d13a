package database

import "errors"

// Domain errors for the database package.
var (
	// ErrNoPath is returned by Open when no database path is configured.
	ErrNoPath = errors.New("database: path is required")

	// ErrMigrationNotFound is returned by MigrateDown when the latest
	// applied migration has no file.
	ErrMigrationNotFound = errors.New("database: migration not found")

	// ErrNoDownMigration is returned by MigrateDown when the latest
	// migration cannot be rolled back.
	ErrNoDownMigration = errors.New("database: migration has no down SQL")
)
