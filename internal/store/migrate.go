package store

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"stcall/internal/errors"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration not yet in schema_migrations,
// each in its own transaction, in file-name order.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	entries, err := migrations.ReadDir("sqlite/migrations")
	if err != nil {
		return errors.Wrap(err, "read migrations")
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, name := range files {
		version := strings.Split(name, "_")[0]

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version).Scan(&exists)
		if err != nil {
			// only 000 may run before the table exists
			if version != "000" {
				return errors.Newf("schema_migrations table missing, but migration is not 000: %s", name)
			}
		} else if exists {
			continue
		}

		body, err := migrations.ReadFile(path.Join("sqlite/migrations", name))
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		if logger != nil {
			logger.Debugw("Applying migration", "migration", name, "version", version)
		}

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "begin tx for %s", name)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "execute %s", name)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "record %s", name)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit %s", name)
		}
		applied++
	}

	if logger != nil && applied > 0 {
		logger.Infow("Ledger migrations applied", "applied", applied, "total", len(files))
	}
	return nil
}
