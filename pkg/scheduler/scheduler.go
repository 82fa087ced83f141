// Package scheduler drives the autonomous loop: every interval it runs a
// coordination round for each room and lets the pipeline execute or park the
// winning plan.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/pipeline"
)

// DefaultInterval is used when settings carry no interval.
const DefaultInterval = 5 * time.Minute

// Scheduler periodically coordinates every room.
type Scheduler struct {
	store    *db.DB
	pipe     *pipeline.Pipeline
	interval time.Duration
}

// New builds a Scheduler. A non-positive interval falls back to
// DefaultInterval.
func New(store *db.DB, pipe *pipeline.Pipeline, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{store: store, pipe: pipe, interval: interval}
}

// Run blocks until the context is cancelled, running one sweep per tick.
// The first sweep happens after one full interval, leaving the initial state
// to operators.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("Scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep coordinates every room once. A failing room is logged and skipped so
// one bad room cannot starve the rest.
func (s *Scheduler) sweep(ctx context.Context) {
	rooms, err := s.store.Rooms().List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler cannot list rooms")
		return
	}

	for _, room := range rooms {
		result, err := s.pipe.RunCoordination(ctx, room.ID, nil, true, "scheduler")
		if err != nil {
			log.Error().Err(err).Int64("room", room.ID).Msg("Scheduled coordination failed")
			continue
		}

		event := log.Info().
			Int64("room", room.ID).
			Int("plans", len(result.Plans))
		if result.Execution != nil {
			event = event.
				Str("plan", result.Execution.PlanID).
				Str("status", string(result.Execution.Status))
		}
		event.Msg("Scheduled coordination complete")
	}
}
