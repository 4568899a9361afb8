// Package store persists documents, summaries, quality metrics and learning
// states with gorm over sqlite or postgres.
package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/config"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
)

// Store is the gorm-backed record store
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the configured database and migrates the schema
func Open(cfg config.DatabaseConfig, logg *logger.Logger) (*Store, error) {
	if logg == nil {
		logg = logger.Nop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		// modernc.org/sqlite registers itself as "sqlite"
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: cfg.DSN})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		zap.NewStdLog(logg.SugaredLogger.Desugar()),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver != "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := New(db, logg)
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection
func New(db *gorm.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log.With("component", "store")}
}

// Migrate creates or updates every table
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&domain.Document{},
		&domain.Summary{},
		&domain.LearningMetric{},
		&domain.LearningStateRecord{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DB exposes the underlying connection
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
