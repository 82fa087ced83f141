package db

import (
	"context"
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// Schema SQL for version 1
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Managed spaces
CREATE TABLE IF NOT EXISTS rooms (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL UNIQUE,
    last_coordinated_at  TEXT NOT NULL DEFAULT '',
    last_coordination    TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Controllable devices
CREATE TABLE IF NOT EXISTS devices (
    id                  TEXT PRIMARY KEY,
    room_id             INTEGER NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
    name                TEXT NOT NULL,
    type                TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL DEFAULT 'OFF',
    brightness          REAL NOT NULL DEFAULT 0,
    target_temperature  REAL NOT NULL DEFAULT 0,
    created_at          TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at          TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Service-level objectives
CREATE TABLE IF NOT EXISTS slos (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL UNIQUE,
    description   TEXT NOT NULL DEFAULT '',
    metric        TEXT NOT NULL,
    target_value  REAL NOT NULL DEFAULT 0,
    weight        REAL NOT NULL DEFAULT 0,
    active        INTEGER NOT NULL DEFAULT 1,
    config        TEXT NOT NULL DEFAULT '{}',
    created_by    TEXT NOT NULL DEFAULT '',
    is_system     INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Sensor readings, append-only
CREATE TABLE IF NOT EXISTS sensor_readings (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    room_id      INTEGER NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
    temperature  REAL NOT NULL DEFAULT 0,
    humidity     REAL NOT NULL DEFAULT 0,
    co2          REAL NOT NULL DEFAULT 0,
    occupancy    INTEGER NOT NULL DEFAULT 0,
    light_level  REAL NOT NULL DEFAULT 0,
    recorded_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Per-agent decision audit trail, append-only
CREATE TABLE IF NOT EXISTS decision_log (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    room_id         INTEGER NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
    plan_id         TEXT NOT NULL DEFAULT '',
    agent_id        TEXT NOT NULL,
    category        TEXT NOT NULL DEFAULT '',
    reasoning       TEXT NOT NULL DEFAULT '',
    comfort_score   REAL NOT NULL DEFAULT 0,
    energy_score    REAL NOT NULL DEFAULT 0,
    security_score  REAL NOT NULL DEFAULT 0,
    confidence      REAL NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Runtime settings, single row
CREATE TABLE IF NOT EXISTS settings (
    id                       INTEGER PRIMARY KEY CHECK (id = 1),
    host                     TEXT NOT NULL DEFAULT '0.0.0.0',
    port                     INTEGER NOT NULL DEFAULT 8080,
    scheduler_interval_secs  INTEGER NOT NULL DEFAULT 300,
    created_at               TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at               TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Create indexes for common queries
CREATE INDEX IF NOT EXISTS idx_devices_room ON devices(room_id);
CREATE INDEX IF NOT EXISTS idx_devices_type ON devices(type);
CREATE INDEX IF NOT EXISTS idx_slos_active ON slos(active);
CREATE INDEX IF NOT EXISTS idx_readings_room_time ON sensor_readings(room_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_decision_log_room ON decision_log(room_id, created_at);
`

// Migrate runs database migrations to bring the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	version, err := db.getSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil // Already up to date
	}

	if version < 1 {
		if err := db.applySchemaV1(ctx); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if no schema exists.
func (db *DB) getSchemaVersion(ctx context.Context) (int, error) {
	// Check if schema_version table exists
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// applySchemaV1 applies the initial schema.
func (db *DB) applySchemaV1(ctx context.Context) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}

		return nil
	})
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return db.getSchemaVersion(ctx)
}
