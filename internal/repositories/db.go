package repositories

import (
	"fmt"
	"time"

	"walletledger/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the connection pool, applies the pool settings and migrates
// the ledger tables.
func InitDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger to ignore "record not found" errors
	gormLogger := logger.New(
		zap.NewStdLog(log),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("postgres connected", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// Migrate creates or updates the wallets and transactions tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&walletRow{}, &transactionRow{}); err != nil {
		return fmt.Errorf("failed to migrate ledger tables: %w", err)
	}
	return nil
}

// CloseDB releases the connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
