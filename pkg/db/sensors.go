package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/buildsense/buildsense/pkg/building"
)

var ErrNoReadings = errors.New("no sensor readings recorded")

// SensorStore persists the append-only stream of room sensor readings.
type SensorStore interface {
	Record(ctx context.Context, roomID int64, r building.SensorReadings) error
	// Latest returns the most recent readings for a room, or ErrNoReadings
	// when none have been recorded yet.
	Latest(ctx context.Context, roomID int64) (building.SensorReadings, error)
}

// Sensors returns a SensorStore for this database.
func (db *DB) Sensors() SensorStore {
	return &sensorStore{db: db}
}

type sensorStore struct {
	db *DB
}

func (s *sensorStore) Record(ctx context.Context, roomID int64, r building.SensorReadings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sensor_readings (room_id, temperature, humidity, co2, occupancy, light_level)
		VALUES (?, ?, ?, ?, ?, ?)
	`, roomID, r.Temperature, r.Humidity, r.CO2, r.Occupancy, r.LightLevel)
	if err != nil {
		return fmt.Errorf("failed to record readings: %w", err)
	}
	return nil
}

func (s *sensorStore) Latest(ctx context.Context, roomID int64) (building.SensorReadings, error) {
	var r building.SensorReadings
	err := s.db.QueryRowContext(ctx, `
		SELECT temperature, humidity, co2, occupancy, light_level
		FROM sensor_readings WHERE room_id = ?
		ORDER BY id DESC LIMIT 1
	`, roomID).Scan(&r.Temperature, &r.Humidity, &r.CO2, &r.Occupancy, &r.LightLevel)
	if err == sql.ErrNoRows {
		return building.SensorReadings{}, ErrNoReadings
	}
	if err != nil {
		return building.SensorReadings{}, err
	}
	return r, nil
}
