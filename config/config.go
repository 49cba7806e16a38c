// Package config loads the service configuration from the environment and
// opens the database.
package config

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/yeremiapane/casino-floor/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	GinMode           string        `env:"GIN_MODE" envDefault:"debug"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	DBDriver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN             string        `env:"DB_DSN" envDefault:"casino_floor.db"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	JWTSecret         string        `env:"JWT_SECRET,required"`
	JWTTTL            time.Duration `env:"JWT_TTL" envDefault:"12h"`
	RateLimit         int           `env:"RATE_LIMIT" envDefault:"300"`
	RateBurst         int           `env:"RATE_BURST" envDefault:"50"`
	EventPollInterval time.Duration `env:"EVENT_POLL_INTERVAL" envDefault:"500ms"`
	CORSOrigin        string        `env:"CORS_ORIGIN" envDefault:"http://127.0.0.1:5500"`
	HSTSMaxAge        time.Duration `env:"HSTS_MAX_AGE" envDefault:"0s"`
	TrustedProxies    []string      `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"`
}

// Load reads .env when present, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must be positive")
	}
	return nil
}

// InitDB opens the configured database.
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.DBDSN), gormCfg)
	case DriverMySQL:
		db, err = gorm.Open(mysql.Open(cfg.DBDSN), gormCfg)
	case DriverPostgres:
		// lib/pq owns the connection so its *pq.Error reaches ClassifyError.
		var sqlDB *sql.DB
		sqlDB, err = sql.Open("postgres", cfg.DBDSN)
		if err == nil {
			db, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}

	utils.InfoLogger.Printf("Connected to %s database", cfg.DBDriver)
	return db, nil
}
