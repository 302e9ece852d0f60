package database

import (
	"fmt"
	"log/slog"
	"time"

	"budget-buddy/internal/config"
	"budget-buddy/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.StubConfig
}

func dialector(cfg *config.StubConfig) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DatabaseDSN), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// New opens the configured database. SQL warnings go to log, never to stdout.
func New(cfg *config.StubConfig, log *slog.Logger) (*DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dial, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DatabaseDriver == config.DriverSQLite {
		// every sqlite connection would otherwise see its own in-memory database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(&models.LedgerEntry{})
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) CreateIndexes(log *slog.Logger) error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_date_id ON transactions(date, id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_amount ON transactions(amount)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_description_lower ON transactions(LOWER(description))",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			log.Warn("failed to create index", "query", query, "error", err)
		}
	}

	return nil
}

// Initialize connects, migrates and seeds the stand-in backend's database
func Initialize(cfg *config.StubConfig, categories, accounts []models.Option, log *slog.Logger) (*DB, error) {
	db, err := New(cfg, log)
	if err != nil {
		return nil, err
	}

	migrated := false
	if cfg.DatabaseDriver == config.DriverPostgres {
		if err := RunMigrationsIfEnabled(cfg.DatabaseDSN, log); err != nil {
			log.Warn("migration runner failed, falling back to AutoMigrate", "error", err)
		} else {
			migrated = migrationsEnabled()
		}
	}

	if !migrated {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(log); err != nil {
		log.Warn("failed to create some indexes", "error", err)
	}

	seeded, err := SeedIfEmpty(db.DB, cfg.SeedCount, categories, accounts, time.Now().UTC())
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("database initialized",
		"driver", cfg.DatabaseDriver,
		"seeded", seeded,
	)

	return db, nil
}
