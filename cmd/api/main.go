package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/api"
	"github.com/buildsense/buildsense/pkg/building/schema"
	"github.com/buildsense/buildsense/pkg/coordinator"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/execution"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/pipeline"
	"github.com/buildsense/buildsense/pkg/scheduler"
	"github.com/buildsense/buildsense/pkg/ws"

	_ "github.com/buildsense/buildsense/docs"
)

// @title           BuildSense API
// @version         1.0
// @description     REST API for multi-agent decision coordination in smart buildings

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/buildsense/buildsense.db)")
	noScheduler := flag.Bool("no-scheduler", false, "Disable the periodic coordination scheduler")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load settings
	settings, err := database.LoadSettings(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	log.Info().
		Str("api_address", settings.Address()).
		Dur("scheduler_interval", settings.SchedulerInterval).
		Msg("Settings loaded")

	// LLM source for the decision agents; agents fall back to rules when
	// no API key is configured.
	llmCfg := llm.ConfigFromEnv()
	source := llm.NewClient(llmCfg)
	if !source.Available() {
		log.Warn().Msg("No LLM API key configured, agents will use rule-based fallbacks")
	}

	// Assemble the pipeline
	registry := agent.DefaultRegistry(source)
	coord := coordinator.New(registry)
	controller := execution.NewSimulatedController(func(deviceID string) string {
		return database.Devices().Type(ctx, deviceID)
	})
	engine := execution.NewEngine(controller)
	validator := schema.NewValidator()
	hub := ws.NewHub()
	pipe := pipeline.New(database, coord, engine, validator, hub)

	// Periodic coordination
	if !*noScheduler {
		sched := scheduler.New(database, pipe, settings.SchedulerInterval)
		go sched.Run(ctx)
	}

	// Create and start API router
	router := api.NewRouter(database, pipe, hub)

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		cancel()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	addr := settings.Address()
	log.Info().Str("address", addr).Msg("Starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
