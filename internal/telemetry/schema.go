package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// initSchema initializes the database schema for sample storage
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            timestamp_ns INTEGER PRIMARY KEY,
            temp_mc INTEGER NOT NULL,
            flags INTEGER NOT NULL
        )
    `)
	if err != nil {
		errFactory := errors.New()
		return errFactory.Wrap(ErrStorageInit, err)
	}

	return nil
}
