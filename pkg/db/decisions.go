package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/buildsense/buildsense/pkg/agent"
)

// DecisionLogEntry is one audited agent decision.
type DecisionLogEntry struct {
	ID            int64     `json:"id"`
	RoomID        int64     `json:"room_id"`
	PlanID        string    `json:"plan_id"`
	AgentID       string    `json:"agent_id"`
	Category      string    `json:"category"`
	Reasoning     string    `json:"reasoning"`
	ComfortScore  float64   `json:"comfort_score"`
	EnergyScore   float64   `json:"energy_score"`
	SecurityScore float64   `json:"security_score"`
	Confidence    float64   `json:"confidence"`
	CreatedAt     time.Time `json:"created_at"`
}

// DecisionStore records and queries the per-agent decision audit trail.
type DecisionStore interface {
	// Log appends one entry per decision, all attributed to the same plan.
	Log(ctx context.Context, roomID int64, planID string, decisions []agent.Decision) error
	// ListByRoom returns the most recent entries for a room, newest first.
	ListByRoom(ctx context.Context, roomID int64, limit int) ([]DecisionLogEntry, error)
}

// Decisions returns a DecisionStore for this database.
func (db *DB) Decisions() DecisionStore {
	return &decisionStore{db: db}
}

type decisionStore struct {
	db *DB
}

func (s *decisionStore) Log(ctx context.Context, roomID int64, planID string, decisions []agent.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, d := range decisions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO decision_log (room_id, plan_id, agent_id, category, reasoning,
					comfort_score, energy_score, security_score, confidence)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, roomID, planID, d.AgentID, d.Category, d.Reasoning,
				d.Scores.Comfort, d.Scores.Energy, d.Scores.Security, d.Confidence)
			if err != nil {
				return fmt.Errorf("failed to log decision: %w", err)
			}
		}
		return nil
	})
}

func (s *decisionStore) ListByRoom(ctx context.Context, roomID int64, limit int) ([]DecisionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, plan_id, agent_id, category, reasoning,
			comfort_score, energy_score, security_score, confidence, created_at
		FROM decision_log WHERE room_id = ?
		ORDER BY id DESC LIMIT ?
	`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []DecisionLogEntry
	for rows.Next() {
		var e DecisionLogEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.RoomID, &e.PlanID, &e.AgentID, &e.Category, &e.Reasoning,
			&e.ComfortScore, &e.EnergyScore, &e.SecurityScore, &e.Confidence, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.DateTime, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
