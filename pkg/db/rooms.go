package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/buildsense/buildsense/pkg/building"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomStore provides room CRUD and snapshot assembly.
type RoomStore interface {
	Get(ctx context.Context, id int64) (*building.Room, error)
	GetByName(ctx context.Context, name string) (*building.Room, error)
	List(ctx context.Context) ([]building.Room, error)
	Create(ctx context.Context, r *building.Room) error
	Delete(ctx context.Context, id int64) error
	// SetLastCoordination stamps the room with the outcome of its most
	// recent coordination round. The summary is stored as opaque JSON.
	SetLastCoordination(ctx context.Context, id int64, summary []byte) error
	// Snapshot assembles the coordination input for one room: the room
	// record, its devices and the latest sensor readings.
	Snapshot(ctx context.Context, id int64) (building.Snapshot, error)
}

// Rooms returns a RoomStore for this database.
func (db *DB) Rooms() RoomStore {
	return &roomStore{db: db}
}

type roomStore struct {
	db *DB
}

const roomColumns = `id, name, last_coordinated_at, last_coordination`

func scanRoom(row interface{ Scan(...any) error }, r *building.Room) error {
	var coordinatedAt, summary string
	if err := row.Scan(&r.ID, &r.Name, &coordinatedAt, &summary); err != nil {
		return err
	}
	if coordinatedAt != "" {
		if t, err := time.Parse(time.RFC3339, coordinatedAt); err == nil {
			r.LastCoordinatedAt = t
		}
	}
	if summary != "" {
		r.LastCoordination = json.RawMessage(summary)
	}
	return nil
}

func (s *roomStore) Get(ctx context.Context, id int64) (*building.Room, error) {
	r := &building.Room{}
	err := scanRoom(s.db.QueryRowContext(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE id = ?
	`, id), r)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *roomStore) GetByName(ctx context.Context, name string) (*building.Room, error) {
	r := &building.Room{}
	err := scanRoom(s.db.QueryRowContext(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE name = ?
	`, name), r)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *roomStore) List(ctx context.Context) ([]building.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var rooms []building.Room
	for rows.Next() {
		var r building.Room
		if err := scanRoom(rows, &r); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *roomStore) Create(ctx context.Context, r *building.Room) error {
	result, err := s.db.ExecContext(ctx, `INSERT INTO rooms (name) VALUES (?)`, r.Name)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *roomStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *roomStore) SetLastCoordination(ctx context.Context, id int64, summary []byte) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET last_coordinated_at = ?, last_coordination = ? WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), string(summary), id)
	if err != nil {
		return fmt.Errorf("failed to record coordination: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *roomStore) Snapshot(ctx context.Context, id int64) (building.Snapshot, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return building.Snapshot{}, err
	}

	devices, err := s.db.Devices().ListByRoom(ctx, id)
	if err != nil {
		return building.Snapshot{}, fmt.Errorf("failed to load devices: %w", err)
	}

	readings, err := s.db.Sensors().Latest(ctx, id)
	if err != nil && !errors.Is(err, ErrNoReadings) {
		return building.Snapshot{}, fmt.Errorf("failed to load readings: %w", err)
	}

	return building.Snapshot{
		Room:    *room,
		Devices: devices,
		Sensors: readings,
		TakenAt: time.Now(),
	}, nil
}
