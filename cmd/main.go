package main

import (
	"context"
	"fmt"
	"time"

	_ "github.com/franciscosanchezn/pizza-tracker/docs" // Import generated docs
	"github.com/franciscosanchezn/pizza-tracker/internal/auth"
	"github.com/franciscosanchezn/pizza-tracker/internal/config"
	"github.com/franciscosanchezn/pizza-tracker/internal/controllers"
	"github.com/franciscosanchezn/pizza-tracker/internal/database"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const tokenPurgeInterval = time.Hour

// @title Pizza Tracker API
// @version 1.0
// @description Log the pizzas you eat, compare yourself with friends and groups, browse community statistics
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	// Initialize database connection
	db := setupDatabase(configuration)

	go purgeExpiredTokens(context.Background(), auth.NewGormTokenStore(db), tokenPurgeInterval)

	if configuration.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := controllers.NewRouter(controllers.RouterConfig{
		DB:        db,
		JWTSecret: configuration.JWTSecret,
		TokenTTL:  configuration.TokenTTL,
		Logger:    log.StandardLogger(),
		Swagger:   configuration.Env != "production",
	})

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and applies the level to every package logger.
// APP_ENV picks the default level, LOG_LEVEL overrides it when set.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	level := config.LevelFor(config.GetEnvWithDefault("APP_ENV", "development"))
	if raw := config.GetEnvWithDefault("LOG_LEVEL", ""); raw != "" {
		parsed, err := log.ParseLevel(raw)
		if err != nil {
			log.WithError(err).Warnf("Ignoring LOG_LEVEL %q", raw)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
	services.SetLogLevel(level)
	auth.SetLogLevel(level)
	controllers.SetLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates the schema and seeds the ingredient catalog
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(conf.Database())
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	if conf.SeedCatalog {
		checkPanicErr(database.SeedCatalog(db))
	} else {
		log.Info("Skipping ingredient catalog seed")
	}
	return db
}

// purgeExpiredTokens removes expired machine-client tokens until ctx is cancelled
func purgeExpiredTokens(ctx context.Context, tokens *auth.GormTokenStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := tokens.PurgeExpired(ctx, now)
			if err != nil {
				log.WithError(err).Warn("Failed to purge expired tokens")
				continue
			}
			if removed > 0 {
				log.WithField("removed", removed).Info("Purged expired tokens")
			}
		}
	}
}
