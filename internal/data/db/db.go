package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string
	// DSN is used as-is when set; otherwise the POSTGRES_* parts are assembled.
	DSN string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	SQLitePath string
}

func ConfigFromEnv(logg *logger.Logger) Config {
	return Config{
		Driver:           strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, logg)),
		DSN:              envutil.String("DATABASE_URL", "", logg),
		PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", logg),
		PostgresPort:     envutil.String("POSTGRES_PORT", "5432", logg),
		PostgresUser:     envutil.String("POSTGRES_USER", "postgres", logg),
		PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", logg),
		PostgresName:     envutil.String("POSTGRES_NAME", "studyplanner", logg),
		SQLitePath:       envutil.String("SQLITE_PATH", "studyplanner.db", logg),
	}
}

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

// Open connects with the configured driver. Schema migration is left to the caller.
func Open(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite:
		db, err = OpenSQLite(cfg.SQLitePath, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
	case DriverPostgres, "":
		db, err = gorm.Open(postgres.Open(cfg.postgresDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		cfg.Driver = DriverPostgres
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	serviceLog.Info("Database connected", "driver", cfg.Driver)
	return &Service{db: db, driver: cfg.Driver, log: serviceLog}, nil
}

// OpenSQLite opens path; ":memory:" databases are pinned to one connection so
// every query sees the same schema.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func (c Config) postgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
	)
}

func (s *Service) DB() *gorm.DB   { return s.db }
func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
