package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-warehouse-orders/internal/handler"
	"go-warehouse-orders/internal/middleware"
	"go-warehouse-orders/internal/repository"
	"go-warehouse-orders/internal/service"
	"go-warehouse-orders/pkg/config"
	"go-warehouse-orders/pkg/database"
	"go-warehouse-orders/pkg/jwt"
	"go-warehouse-orders/pkg/logger"
	"go-warehouse-orders/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "go-warehouse-orders"}).Error(ctx, "invalid configuration", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	if envErr != nil {
		log.Warn(ctx, ".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Error(ctx, "database connection failed", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error(ctx, "schema migration failed", err)
		os.Exit(1)
	}

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	// 4. Dependency Injection (Wiring Layers)
	employeeRepo := repository.NewEmployeeRepo(db)
	productRepo := repository.NewProductRepo(db)
	ledger := repository.NewStockLedger(db)
	movementRepo := repository.NewMovementRepo(db)

	authService := service.NewAuthService(employeeRepo, jwt.NewManager(cfg.JWT))
	employeeService := service.NewEmployeeService(employeeRepo, log)
	productService := service.NewProductService(db, productRepo, ledger, movementRepo, log, orderMetrics)
	orderService := service.NewOrderService(db, service.OrderRepositories{
		Orders:    repository.NewOrderRepo(db),
		Products:  productRepo,
		Ledger:    ledger,
		Audit:     repository.NewAuditRepo(db),
		Movements: movementRepo,
		Sequences: repository.NewSequenceRepo(db),
	}, log, orderMetrics)

	// 5. Seed default admin
	created, err := employeeService.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName)
	if err != nil {
		log.Error(ctx, "seeding default admin failed", err)
	} else if created && cfg.App.IsProd() {
		log.Warn(ctx, "default admin created with configured seed password, change it")
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())   // Panic recovery
	app.Use(requestid.New()) // X-Request-ID
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.App.CORSOrigins}))
	app.Use(middleware.RequestContext(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// 7. Routes
	handler.Register(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Orders:    handler.NewOrderHandler(orderService),
		Products:  handler.NewProductHandler(productService),
		Employees: handler.NewEmployeeHandler(employeeService),
	}, middleware.RequireAuth(authService, log))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Error(ctx, "server stopped", err)
			os.Exit(1)
		}
	}()
	log.Info(log.WithField(ctx, "port", cfg.App.Port), "server started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error(ctx, "server forced to shutdown", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info(ctx, "server exited")
}
