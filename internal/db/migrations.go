package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/tandem/migrations"
	"gorm.io/gorm"
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)

type schemaMigration struct {
	version int
	name    string
	sql     string
}

// MigrationState describes one embedded migration and whether the database
// has recorded it.
type MigrationState struct {
	Version   int
	Name      string
	AppliedAt *time.Time
}

func (state MigrationState) Applied() bool {
	return state.AppliedAt != nil
}

// ApplyMigrations runs every embedded migration the database has not seen yet,
// each in its own transaction, and returns the names it applied.
func ApplyMigrations(database *gorm.DB) ([]string, error) {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return nil, err
	}

	pending, err := pendingMigrations(database)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, migration := range pending {
		if err := applyMigration(database, migration); err != nil {
			return applied, err
		}
		applied = append(applied, migration.name)
	}
	return applied, nil
}

// MigrationStatus lists embedded migrations in order with their applied time.
func MigrationStatus(database *gorm.DB) ([]MigrationState, error) {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return nil, err
	}

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		return nil, err
	}
	appliedAt, err := loadAppliedMigrations(database)
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(migrations))
	for _, migration := range migrations {
		state := MigrationState{Version: migration.version, Name: migration.name}
		if at, ok := appliedAt[migration.version]; ok {
			at := at
			state.AppliedAt = &at
		}
		states = append(states, state)
	}
	return states, nil
}

func ensureSchemaMigrationsTable(database *gorm.DB) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func pendingMigrations(database *gorm.DB) ([]schemaMigration, error) {
	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		return nil, err
	}
	appliedAt, err := loadAppliedMigrations(database)
	if err != nil {
		return nil, err
	}

	pending := make([]schemaMigration, 0, len(migrations))
	for _, migration := range migrations {
		if _, ok := appliedAt[migration.version]; ok {
			continue
		}
		pending = append(pending, migration)
	}
	return pending, nil
}

func loadEmbeddedMigrations() ([]schemaMigration, error) {
	entries, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	byVersion := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		if existing, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, existing, entry.Name())
		}
		byVersion[version] = entry.Name()

		rawSQL, err := fs.ReadFile(embeddedmigrations.Files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, schemaMigration{version: version, name: entry.Name(), sql: string(rawSQL)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

type appliedMigrationRow struct {
	Version   string    `gorm:"column:version"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func loadAppliedMigrations(database *gorm.DB) (map[int]time.Time, error) {
	rows := make([]appliedMigrationRow, 0)
	if err := database.Raw(`SELECT version, applied_at FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	applied := make(map[int]time.Time, len(rows))
	for _, row := range rows {
		version, err := strconv.Atoi(strings.TrimSpace(row.Version))
		if err != nil {
			return nil, fmt.Errorf("parse recorded migration version %q: %w", row.Version, err)
		}
		applied[version] = row.AppliedAt
	}
	return applied, nil
}

func applyMigration(database *gorm.DB, migration schemaMigration) error {
	return database.Transaction(func(tx *gorm.DB) error {
		statements := splitSQLStatements(migration.sql)
		if len(statements) == 0 {
			return errors.New("migration has no SQL statements")
		}

		for _, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.name, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			fmt.Sprintf("%04d", migration.version),
			migration.name,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.name, err)
		}
		return nil
	})
}

func splitSQLStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
