package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/buildsense/buildsense/pkg/api/handlers"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/pipeline"
	"github.com/buildsense/buildsense/pkg/ws"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine *gin.Engine
	store  *db.DB
	pipe   *pipeline.Pipeline
	hub    *ws.Hub
}

// NewRouter creates a new API router
func NewRouter(store *db.DB, pipe *pipeline.Pipeline, hub *ws.Hub) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine: engine,
		store:  store,
		pipe:   pipe,
		hub:    hub,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.store)
	r.engine.GET("/health", healthHandler.Health)

	// Event stream
	if r.hub != nil {
		r.engine.GET("/ws", func(c *gin.Context) {
			r.hub.Serve(c.Writer, c.Request)
		})
	}

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Rooms and coordination
		roomsHandler := handlers.NewRoomsHandler(r.store, r.pipe)
		coordinationHandler := handlers.NewCoordinationHandler(r.pipe)
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", roomsHandler.ListRooms)
			rooms.GET("/:id", roomsHandler.GetRoom)
			rooms.POST("/:id/readings", roomsHandler.RecordReadings)
			rooms.GET("/:id/slo-report", roomsHandler.SLOReport)
			rooms.GET("/:id/decisions", roomsHandler.Decisions)
			rooms.POST("/:id/coordinate", coordinationHandler.Coordinate)
		}

		// SLO management
		slosHandler := handlers.NewSLOsHandler(r.store)
		slos := v1.Group("/slos")
		{
			slos.GET("", slosHandler.List)
			slos.POST("", slosHandler.Create)
			slos.GET("/:id", slosHandler.Get)
			slos.PUT("/:id", slosHandler.Update)
			slos.DELETE("/:id", slosHandler.Delete)
		}

		// Execution lifecycle
		executionsHandler := handlers.NewExecutionsHandler(r.pipe)
		executions := v1.Group("/executions")
		{
			executions.GET("/pending", executionsHandler.Pending)
			executions.GET("/summary", executionsHandler.Summary)
			executions.GET("/:plan_id", executionsHandler.Status)
			executions.POST("/:plan_id/approve", executionsHandler.Approve)
			executions.POST("/:plan_id/cancel", executionsHandler.Cancel)
		}
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
