package main

import (
	"context"
	"flag"
	"os"

	"go-warehouse-orders/internal/repository"
	"go-warehouse-orders/internal/service"
	"go-warehouse-orders/pkg/config"
	"go-warehouse-orders/pkg/database"
	"go-warehouse-orders/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	skipSeed := flag.Bool("skip-seed", false, "only migrate the schema, do not create the default admin")
	flag.Parse()

	ctx := context.Background()

	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "migrate"}).Error(ctx, "invalid configuration", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		ServiceName: "migrate",
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
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	// 3. Migrate
	if err := database.Migrate(db); err != nil {
		log.Error(ctx, "schema migration failed", err)
		os.Exit(1)
	}
	log.Info(log.WithField(ctx, "driver", cfg.DB.Driver), "schema migrated")

	if *skipSeed {
		return
	}

	// 4. Seed default admin
	employees := service.NewEmployeeService(repository.NewEmployeeRepo(db), log)
	created, err := employees.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName)
	if err != nil {
		log.Error(ctx, "seeding default admin failed", err)
		os.Exit(1)
	}
	if created {
		log.Info(log.WithField(ctx, "email", cfg.Seed.AdminEmail), "default admin created")
	} else {
		log.Info(log.WithField(ctx, "email", cfg.Seed.AdminEmail), "default admin already exists")
	}
}
