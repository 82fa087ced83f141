package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building/schema"
	"github.com/buildsense/buildsense/pkg/coordinator"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/execution"
	"github.com/buildsense/buildsense/pkg/llm"
	buildsensemcp "github.com/buildsense/buildsense/pkg/mcp"
	"github.com/buildsense/buildsense/pkg/pipeline"
)

func main() {
	// Logging must go to stderr — stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/buildsense/buildsense.db)")
	flag.Parse()

	ctx := context.Background()

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

	// Assemble the pipeline; no WebSocket hub over stdio.
	source := llm.NewClient(llm.ConfigFromEnv())
	registry := agent.DefaultRegistry(source)
	coord := coordinator.New(registry)
	controller := execution.NewSimulatedController(func(deviceID string) string {
		return database.Devices().Type(ctx, deviceID)
	})
	engine := execution.NewEngine(controller)
	validator := schema.NewValidator()
	pipe := pipeline.New(database, coord, engine, validator, nil)

	// Create and start MCP server
	mcpServer := buildsensemcp.NewServer(database, pipe)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
