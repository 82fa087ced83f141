package db

import (
	"context"
	"fmt"
	"time"
)

// Settings is the runtime configuration stored in the database: where the
// API listens and how often the scheduler runs coordination.
type Settings struct {
	Host              string
	Port              int
	SchedulerInterval time.Duration
}

// Address returns the API server listen address (host:port).
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadSettings reads the settings row, which Bootstrap guarantees exists.
func (db *DB) LoadSettings(ctx context.Context) (*Settings, error) {
	s := &Settings{}
	var intervalSecs int
	err := db.QueryRowContext(ctx, `
		SELECT host, port, scheduler_interval_secs FROM settings WHERE id = 1
	`).Scan(&s.Host, &s.Port, &intervalSecs)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	s.SchedulerInterval = time.Duration(intervalSecs) * time.Second
	return s, nil
}

// SaveSettings persists the settings row.
func (db *DB) SaveSettings(ctx context.Context, s *Settings) error {
	_, err := db.ExecContext(ctx, `
		UPDATE settings SET host = ?, port = ?, scheduler_interval_secs = ?, updated_at = datetime('now')
		WHERE id = 1
	`, s.Host, s.Port, int(s.SchedulerInterval/time.Second))
	return err
}
