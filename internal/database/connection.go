package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// ErrUnsupportedDriver is returned for a DB_DRIVER that is neither postgres nor sqlite
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// retryDelays is the wait before each new connection attempt
var retryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}

// InitDatabase opens the tracker database, retrying with exponential backoff
// while the server is not reachable, and configures the connection pool.
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)

	log.WithFields(logrus.Fields{
		"db_driver": driver,
		"db_host":   cfg.Host,
		"db_name":   cfg.Name,
		"db_path":   cfg.Path,
	}).Info("Initializing database connection")

	var lastErr error
	for attempt := 1; attempt <= len(retryDelays)+1; attempt++ {
		db, err := open(driver, cfg)
		if errors.Is(err, ErrUnsupportedDriver) {
			return nil, err
		}
		if err == nil {
			err = ping(db, driver)
		}
		if err == nil {
			log.WithFields(logrus.Fields{
				"db_driver": driver,
				"attempt":   attempt,
			}).Info("Database initialized successfully")
			return db, nil
		}
		lastErr = err

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Database connection attempt failed")

		if attempt <= len(retryDelays) {
			time.Sleep(retryDelays[attempt-1])
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", len(retryDelays)+1, lastErr)
}

func open(driver string, cfg DatabaseConfig) (*gorm.DB, error) {
	switch driver {
	case "postgres", "postgresql":
		return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{})
	default:
		return nil, fmt.Errorf("%w: %s (supported: postgres, sqlite)", ErrUnsupportedDriver, cfg.Driver)
	}
}

func ping(db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return err
	}
	configureConnectionPool(sqlDB, driver)
	return nil
}

// configureConnectionPool sets the pool limits. SQLite gets a single connection:
// an in-memory database exists per connection and file databases lock on write.
func configureConnectionPool(sqlDB *sql.DB, driver string) {
	maxOpen, maxIdle, lifetime := 25, 5, 5*time.Minute
	if driver == "sqlite" || driver == "" {
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	log.WithFields(logrus.Fields{
		"max_open_conns":    maxOpen,
		"max_idle_conns":    maxIdle,
		"conn_max_lifetime": lifetime.String(),
	}).Debug("Connection pool configured")
}
