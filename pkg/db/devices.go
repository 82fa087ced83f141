package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/buildsense/buildsense/pkg/building"
)

var ErrDeviceNotFound = errors.New("device not found")

// DeviceStore provides device CRUD and state updates.
type DeviceStore interface {
	Get(ctx context.Context, id string) (*building.Device, error)
	ListByRoom(ctx context.Context, roomID int64) ([]building.Device, error)
	Create(ctx context.Context, roomID int64, d *building.Device) error
	// UpdateState persists the controllable state of a device after an
	// action has been executed against it.
	UpdateState(ctx context.Context, d building.Device) error
	Delete(ctx context.Context, id string) error
	// Type resolves a device ID to its type. Unknown devices resolve to "".
	Type(ctx context.Context, id string) string
}

// Devices returns a DeviceStore for this database.
func (db *DB) Devices() DeviceStore {
	return &deviceStore{db: db}
}

type deviceStore struct {
	db *DB
}

const deviceColumns = `id, name, type, status, brightness, target_temperature`

func scanDevice(row interface{ Scan(...any) error }, d *building.Device) error {
	return row.Scan(&d.ID, &d.Name, &d.Type, &d.Status, &d.Brightness, &d.TargetTemperature)
}

func (s *deviceStore) Get(ctx context.Context, id string) (*building.Device, error) {
	d := &building.Device{}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+deviceColumns+` FROM devices WHERE id = ?
	`, id)
	err := scanDevice(row, d)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *deviceStore) ListByRoom(ctx context.Context, roomID int64) ([]building.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deviceColumns+` FROM devices WHERE room_id = ? ORDER BY id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var devices []building.Device
	for rows.Next() {
		var d building.Device
		if err := scanDevice(rows, &d); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (s *deviceStore) Create(ctx context.Context, roomID int64, d *building.Device) error {
	if d.ID == "" {
		d.ID = fmt.Sprintf("%s-%d", slugify(d.Name), roomID)
	}
	if d.Status == "" {
		d.Status = building.StatusOff
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (id, room_id, name, type, status, brightness, target_temperature)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.ID, roomID, d.Name, d.Type, d.Status, d.Brightness, d.TargetTemperature)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

func (s *deviceStore) UpdateState(ctx context.Context, d building.Device) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE devices SET status = ?, brightness = ?, target_temperature = ?, updated_at = datetime('now')
		WHERE id = ?
	`, d.Status, d.Brightness, d.TargetTemperature, d.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (s *deviceStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (s *deviceStore) Type(ctx context.Context, id string) string {
	var typ string
	err := s.db.QueryRowContext(ctx, `SELECT type FROM devices WHERE id = ?`, id).Scan(&typ)
	if err != nil {
		return ""
	}
	return typ
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
