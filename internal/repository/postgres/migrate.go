package postgres

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/migrations"
)

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// MigrationState is one schema file and whether it has been applied.
type MigrationState struct {
	Version string
	Applied bool
}

// RunMigrations applies every pending migration for the connection's driver,
// each in its own transaction.
func RunMigrations(db *sqlx.DB, log *logger.Logger) error {
	files, err := migrations.GetFS(db.DriverName())
	if err != nil {
		return err
	}
	return applyPending(db, files, log)
}

// MigrationStatus lists every known migration in apply order.
func MigrationStatus(db *sqlx.DB) ([]MigrationState, error) {
	files, err := migrations.GetFS(db.DriverName())
	if err != nil {
		return nil, err
	}
	return migrationStates(db, files)
}

func migrationStates(db *sqlx.DB, files fs.FS) ([]MigrationState, error) {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	var done []string
	if err := db.Select(&done, "SELECT version FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)
	states := make([]MigrationState, len(names))
	for i, n := range names {
		states[i] = MigrationState{Version: path.Base(n), Applied: applied[n]}
	}
	return states, nil
}

func applyPending(db *sqlx.DB, files fs.FS, log *logger.Logger) error {
	states, err := migrationStates(db, files)
	if err != nil {
		return err
	}
	count := 0
	for _, st := range states {
		if st.Applied {
			continue
		}
		if err := applyOne(db, files, st.Version); err != nil {
			return err
		}
		log.With("migration", st.Version).Info("Applied migration")
		count++
	}
	if count > 0 {
		log.Infof("Applied %d migration(s)", count)
	}
	return nil
}

func applyOne(db *sqlx.DB, files fs.FS, version string) (err error) {
	script, err := fs.ReadFile(files, version)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", version, err)
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction for %s: %w", version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.Exec(string(script)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", version, err)
	}
	if _, err = tx.Exec(tx.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", version, err)
	}
	return nil
}
