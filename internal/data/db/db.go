package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/screengrabber-backend/internal/domain"
	"github.com/yungbote/screengrabber-backend/internal/platform/envutil"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService opens the cache database. Sqlite is the default and needs no
// external daemon; postgres is available for deployments that already run
// one (DB_DRIVER=postgres plus the POSTGRES_* envs).
func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := strings.ToLower(envutil.Str("DB_DRIVER", "sqlite"))

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		path := envutil.Str("CACHE_DB_PATH", "screengrabs.db")
		serviceLog.Info("Opening sqlite cache database", "path", path)
		dialector = sqlite.Open(path)
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			envutil.Str("POSTGRES_USER", "postgres"),
			envutil.Str("POSTGRES_PASSWORD", ""),
			envutil.Str("POSTGRES_HOST", "localhost"),
			envutil.Str("POSTGRES_PORT", "5432"),
			envutil.Str("POSTGRES_NAME", "screengrabber"),
		)
		serviceLog.Info("Connecting to Postgres cache database")
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll creates the cache tables and indexes. Idempotent; runs on
// every construction.
func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating cache tables...")
	if err := s.db.AutoMigrate(
		&domain.Screengrab{},
		&domain.ScreengrabMedia{},
	); err != nil {
		s.log.Error("Auto migration failed for cache tables", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB { return s.db }
