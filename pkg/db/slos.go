package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buildsense/buildsense/pkg/slo"
)

var (
	ErrSLONotFound = errors.New("slo not found")
	// ErrSystemSLO is returned when deleting a system-defined SLO.
	ErrSystemSLO = errors.New("system-defined slos cannot be deleted")
)

// SLOStore provides SLO CRUD operations. Config maps are stored as JSON text.
type SLOStore interface {
	Get(ctx context.Context, id int64) (*slo.SLO, error)
	List(ctx context.Context, activeOnly bool) ([]slo.SLO, error)
	Create(ctx context.Context, s *slo.SLO) error
	Update(ctx context.Context, s *slo.SLO) error
	Delete(ctx context.Context, id int64) error
}

// SLOs returns an SLOStore for this database.
func (db *DB) SLOs() SLOStore {
	return &sloStore{db: db}
}

type sloStore struct {
	db *DB
}

const sloColumns = `id, name, description, metric, target_value, weight, active, config, created_by, is_system`

func scanSLO(row interface{ Scan(...any) error }, s *slo.SLO) error {
	var config string
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Metric, &s.TargetValue,
		&s.Weight, &s.Active, &config, &s.CreatedBy, &s.System)
	if err != nil {
		return err
	}
	if config != "" {
		if err := json.Unmarshal([]byte(config), &s.Config); err != nil {
			return fmt.Errorf("failed to decode SLO config: %w", err)
		}
	}
	return nil
}

func (s *sloStore) Get(ctx context.Context, id int64) (*slo.SLO, error) {
	out := &slo.SLO{}
	row := s.db.QueryRowContext(ctx, `SELECT `+sloColumns+` FROM slos WHERE id = ?`, id)
	err := scanSLO(row, out)
	if err == sql.ErrNoRows {
		return nil, ErrSLONotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sloStore) List(ctx context.Context, activeOnly bool) ([]slo.SLO, error) {
	query := `SELECT ` + sloColumns + ` FROM slos ORDER BY id`
	if activeOnly {
		query = `SELECT ` + sloColumns + ` FROM slos WHERE active = 1 ORDER BY id`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var slos []slo.SLO
	for rows.Next() {
		var out slo.SLO
		if err := scanSLO(rows, &out); err != nil {
			return nil, err
		}
		slos = append(slos, out)
	}
	return slos, rows.Err()
}

func (s *sloStore) Create(ctx context.Context, in *slo.SLO) error {
	config, err := json.Marshal(in.Config)
	if err != nil {
		return fmt.Errorf("failed to encode SLO config: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO slos (name, description, metric, target_value, weight, active, config, created_by, is_system)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Description, in.Metric, in.TargetValue, in.Weight, in.Active, string(config), in.CreatedBy, in.System)
	if err != nil {
		return fmt.Errorf("failed to create SLO: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	in.ID = id
	return nil
}

func (s *sloStore) Update(ctx context.Context, in *slo.SLO) error {
	config, err := json.Marshal(in.Config)
	if err != nil {
		return fmt.Errorf("failed to encode SLO config: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE slos SET name = ?, description = ?, metric = ?, target_value = ?,
			weight = ?, active = ?, config = ?
		WHERE id = ?
	`, in.Name, in.Description, in.Metric, in.TargetValue, in.Weight, in.Active, string(config), in.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSLONotFound
	}
	return nil
}

func (s *sloStore) Delete(ctx context.Context, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.System {
		return ErrSystemSLO
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM slos WHERE id = ?`, id)
	return err
}
