package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	"cyberdock/internal/config"
	"cyberdock/internal/http"
)

// apiCORSConfig lets the dashboard frontend call the API from its own origin.
var apiCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept",
}

// action adapts a fiber handler to cartridge's route API.
func action(h fiber.Handler) cartridge.HandlerFunc {
	return func(ctx *cartridge.Context) error {
		return h(ctx.Ctx)
	}
}

// MountAppRoutes mounts every route using cartridge's route API.
func MountAppRoutes(srv *cartridge.Server, cfg *config.Config, h *http.Handlers) {
	// Exports render whole documents, 10 per minute per IP is plenty.
	// Skipped outside production so tests and local runs are not throttled.
	exportRateLimiter := cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(10),
		cartridgemiddleware.WithDuration(time.Minute),
		cartridgemiddleware.WithEnv(cfg),
	)

	apiConfig := &cartridge.RouteConfig{
		EnableCORS: true,
		CORSConfig: apiCORSConfig,
	}
	exportConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CORSConfig:       apiCORSConfig,
		CustomMiddleware: []fiber.Handler{exportRateLimiter},
	}

	srv.Get("/_health", action(h.HealthIndexAction))
	srv.Head("/_health", action(h.HealthIndexAction))

	srv.Get("/api/accounts", action(h.AccountsIndexAction), apiConfig)
	srv.Get("/api/dashboard", action(h.DashboardIndexAction), apiConfig)
	srv.Get("/api/report", action(h.ReportIndexAction), apiConfig)
	srv.Get("/api/shipments", action(h.ShipmentsIndexAction), apiConfig)
	srv.Get("/api/shipments/export.xlsx", action(h.ShipmentsXLSXAction), exportConfig)
	srv.Get("/api/shipments/export.pdf", action(h.ShipmentsPDFAction), exportConfig)
}
