// Package api exposes the medication tracker over HTTP for companion apps
// and local dashboards.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/adherence"
	"github.com/pillguard/pillguard/internal/assistant"
	"github.com/pillguard/pillguard/internal/config"
	"github.com/pillguard/pillguard/internal/drugdb"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/tracker"
)

// Server handles the HTTP API
type Server struct {
	app       *fiber.App
	config    *config.Config
	meds      *medication.Store
	tracker   *tracker.Tracker
	adherence *adherence.Aggregator
	drugs     *drugdb.Client
	assistant *assistant.Client
	logger    *zap.Logger
}

// New creates a new API server
func New(cfg *config.Config, meds *medication.Store, trk *tracker.Tracker,
	adh *adherence.Aggregator, drugs *drugdb.Client, asst *assistant.Client,
	logger *zap.Logger) *Server {

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:       app,
		config:    cfg,
		meds:      meds,
		tracker:   trk,
		adherence: adh,
		drugs:     drugs,
		assistant: asst,
		logger:    logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New())

	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api/v1")

	api.Get("/medications", s.handleListMedications)
	api.Post("/medications", s.handleCreateMedication)
	api.Get("/medications/:id", s.handleGetMedication)
	api.Put("/medications/:id", s.handleUpdateMedication)
	api.Delete("/medications/:id", s.handleDeleteMedication)
	api.Post("/medications/:id/take", s.handleTakeDose)
	api.Get("/medications/:id/next", s.handleNextDose)

	api.Get("/stats/adherence", s.handleAdherence)
	api.Get("/stats/inventory", s.handleInventory)
	api.Get("/metrics", s.handleMetrics)

	api.Get("/drugs/search", s.handleDrugSearch)
	api.Get("/drugs/label", s.handleDrugLabel)

	api.Post("/assistant/interactions", s.handleInteractions)
	api.Post("/assistant/chat", s.handleAssistantChat)
}

// Start starts the server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Address, s.config.Server.Port)
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}
