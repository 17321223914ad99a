package database

import (
	"fmt"
	"time"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. writer receives GORM's SQL log
// (slow queries always, every statement when cfg.LogSQL is set); nil silences it.
func Open(cfg config.DBConfig, writer logger.Writer) (*gorm.DB, error) {
	gormLogger := logger.Discard
	if writer != nil {
		level := logger.Warn
		if cfg.LogSQL {
			level = logger.Info
		}
		slow := cfg.SlowThreshold
		if slow <= 0 {
			slow = time.Second
		}
		gormLogger = logger.New(writer, logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	}

	gormCfg := &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    false,
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	case config.DriverPostgres, "":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for transaction-mode poolers
		}), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	return db, nil
}

// Migrate creates or updates the schema and makes sure the order number
// sequence row exists.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Employee{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderModification{},
		&model.StockMovement{},
		&model.OrderSequence{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	seq := model.OrderSequence{Name: model.OrderNumberSequence}
	if err := db.Where(model.OrderSequence{Name: model.OrderNumberSequence}).FirstOrCreate(&seq).Error; err != nil {
		return fmt.Errorf("seed order sequence: %w", err)
	}
	return nil
}
