package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/config"
	"ayaat-pos/internal/handler"
	"ayaat-pos/internal/service"
	"ayaat-pos/internal/ws"
	"ayaat-pos/pkg/database"
	"ayaat-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	clk := clock.NewRealClock()

	// 2. Setup Storage (migrate + seed)
	repos, err := database.Open(cfg, clk)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.App.StorageDriver, err)
	}

	// 3. Setup WebSocket Hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Permission table, tokens and the manager PIN
	policy := authz.NewPolicy()
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.ApprovalTTL).WithClock(clk.Now)
	pin, err := authz.NewPINVerifier(cfg.Auth.ManagerPIN)
	if err != nil {
		log.Fatalf("Invalid MANAGER_PIN: %v", err)
	}

	// 5. Dependency Injection (Wiring Layers)
	settingsService := service.NewSettingsService(repos, policy, wsHub)
	if err := settingsService.RestorePermissions(); err != nil {
		log.Printf("Warning: failed to restore permission toggles: %v", err)
	}

	services := handler.Services{
		Auth:       service.NewAuthService(repos.Users, tokens, policy),
		Users:      service.NewUserService(repos.Users, repos.Settings, policy),
		Shifts:     service.NewShiftService(repos.Shifts, repos.Settings, policy, wsHub, clk),
		Inventory:  service.NewInventoryService(repos.Products, policy, tokens, pin, wsHub, clk),
		Customers:  service.NewCustomerService(repos, policy, wsHub, clk),
		Checkout:   service.NewCheckoutService(repos, policy, wsHub, clk),
		Dashboard:  service.NewDashboardService(repos, policy, clk),
		Settings:   settingsService,
		Storefront: service.NewStorefrontService(repos, policy, wsHub, clk),
		Policy:     policy,
		Presence:   wsHub,
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Ayaat POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.App.CORSOrigins}))

	// 7. Routes
	handler.Register(app, services)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	cancel()

	log.Println("Server exited")
}
