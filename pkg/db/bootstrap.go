package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

// seedRoom describes one room created on first run, with its initial
// sensor readings.
type seedRoom struct {
	name     string
	readings building.SensorReadings
}

var seedRooms = []seedRoom{
	{"Conference Room A", building.SensorReadings{Temperature: 24, Humidity: 48, CO2: 620, Occupancy: 5, LightLevel: 320}},
	{"Conference Room B", building.SensorReadings{Temperature: 26, Humidity: 55, CO2: 710, Occupancy: 3, LightLevel: 280}},
	{"Office Space", building.SensorReadings{Temperature: 23, Humidity: 45, CO2: 540, Occupancy: 8, LightLevel: 400}},
	{"Lab Room", building.SensorReadings{Temperature: 27, Humidity: 60, CO2: 790, Occupancy: 2, LightLevel: 250}},
}

// Every room starts with the same four devices, all powered on.
var seedDevices = []struct {
	slug string
	name string
	typ  string
}{
	{"hvac", "AC", building.DeviceTypeHVAC},
	{"light", "Light", building.DeviceTypeLighting},
	{"fan", "Fan", building.DeviceTypeAirFlow},
	{"camera", "Camera", building.DeviceTypeSecurity},
}

// Bootstrap initializes the database with default data if it's empty.
// This is called after migrations and handles first-run setup: the sample
// rooms with their devices and initial readings, the system SLOs and the
// default runtime settings.
func (db *DB) Bootstrap(ctx context.Context) error {
	needed, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check rooms: %w", err)
	}
	if !needed {
		return nil // Already bootstrapped
	}

	return db.Tx(ctx, func(tx *sql.Tx) error {
		for _, r := range seedRooms {
			result, err := tx.ExecContext(ctx, `INSERT INTO rooms (name) VALUES (?)`, r.name)
			if err != nil {
				return fmt.Errorf("failed to create room %q: %w", r.name, err)
			}
			roomID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get room ID: %w", err)
			}

			for _, d := range seedDevices {
				deviceID := fmt.Sprintf("%s-%d", d.slug, roomID)
				_, err := tx.ExecContext(ctx, `
					INSERT INTO devices (id, room_id, name, type, status)
					VALUES (?, ?, ?, ?, ?)
				`, deviceID, roomID, d.name, d.typ, building.StatusOn)
				if err != nil {
					return fmt.Errorf("failed to create device %q: %w", deviceID, err)
				}
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO sensor_readings (room_id, temperature, humidity, co2, occupancy, light_level)
				VALUES (?, ?, ?, ?, ?, ?)
			`, roomID, r.readings.Temperature, r.readings.Humidity, r.readings.CO2, r.readings.Occupancy, r.readings.LightLevel)
			if err != nil {
				return fmt.Errorf("failed to seed readings for room %q: %w", r.name, err)
			}
		}

		for _, s := range slo.Defaults("system") {
			config, err := json.Marshal(s.Config)
			if err != nil {
				return fmt.Errorf("failed to encode SLO config: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO slos (name, description, metric, target_value, weight, active, config, created_by, is_system)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, s.Name, s.Description, s.Metric, s.TargetValue, s.Weight, s.Active, string(config), s.CreatedBy, s.System)
			if err != nil {
				return fmt.Errorf("failed to create SLO %q: %w", s.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO settings (id) VALUES (1)`); err != nil {
			return fmt.Errorf("failed to create default settings: %w", err)
		}

		return nil
	})
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
