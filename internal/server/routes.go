package server

import (
	"jobradar/internal/core/board"
	"jobradar/internal/core/extract"
	"jobradar/internal/core/history"
	"jobradar/internal/health"
	"jobradar/internal/platform/redis"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Extract *extract.Service
	History *history.Service
	Board   *board.Service
	Analyze extract.AnalysisQueue
	Redis   *redis.Service
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	extractHandler := extract.NewHandler(d.Extract, d.History, d.Analyze)
	api.Get("/extract", extractHandler.HandleGetExtract)

	historyHandler := history.NewHandler(d.History)
	api.Get("/history", historyHandler.HandleList)
	api.Get("/history/:id", historyHandler.HandleGet)
	api.Delete("/history/:id", historyHandler.HandleDelete)

	boardHandler := board.NewHandler(d.Board)
	api.Get("/board", boardHandler.HandleGetBoard)

	return healthHandler
}
