package postgres

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/junction"
	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(m.Executor)
}

// MigrateUp runs every migration in migrations not yet recorded in schema's migrations table,
// recording each one as it succeeds.
// MigrateUp stops at the first failing migration.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := ensureSchema(db, schema); err != nil {
		return err
	}

	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	toRun, err := determineMigrationsToRun(db, migrations)
	if err != nil {
		return err
	}

	for _, m := range toRun {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s: %s", junction.ErrUnexpected, m.Key, err)
		}

		if err := createMigrationRecord(db, m.Key); err != nil {
			return err
		}
	}

	return nil
}

func ensureSchema(db *gorm.DB, schema string) error {
	err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error
	if err != nil {
		return fmt.Errorf("%w: creating %s schema: %s", junction.ErrUnexpected, schema, err)
	}
	return nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", junction.ErrUnexpected, err)
	}
	return nil
}

type migrationKeyCol struct {
	Key string
}

func determineMigrationsToRun(db *gorm.DB, all []Migration) ([]Migration, error) {
	var ran []migrationKeyCol
	if err := db.Raw("SELECT key FROM migrations;").Scan(&ran).Error; err != nil {
		return nil, fmt.Errorf("%w: fetching ran migrations: %s", junction.ErrUnexpected, err)
	}

	done := make(map[string]bool, len(ran))
	for _, r := range ran {
		done[r.Key] = true
	}

	toRun := make([]Migration, 0, len(all))
	for _, m := range all {
		if !done[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun, nil
}

func createMigrationRecord(db *gorm.DB, key string) error {
	err := db.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, key, time.Now().Unix()).Error
	if err != nil {
		return fmt.Errorf("%w: recording migration %s: %s", junction.ErrUnexpected, key, err)
	}
	return nil
}

// Migrations lists the migrations creating the tables HistoryStore uses.
func Migrations() []Migration {
	return []Migration{
		{
			Key: "20261019_create_navigation_entries",
			Executor: func(tx *gorm.DB) error {
				return tx.Exec(`
					CREATE TABLE navigation_entries (
						id SERIAL PRIMARY KEY,
						history_key text NOT NULL,
						position integer NOT NULL,
						name text NOT NULL DEFAULT '',
						route_method text NOT NULL,
						uri text NOT NULL,
						parameters jsonb NOT NULL DEFAULT '{}',
						created_at timestamptz NOT NULL DEFAULT now(),
						CONSTRAINT navigation_entries_position UNIQUE (history_key, position)
					)
				`).Error
			},
		},
	}
}
