package database

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      DatabaseConfig
		expected string
	}{
		{
			name:     "postgres",
			cfg:      DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "pizza", SSLMode: "disable"},
			expected: "host=db user=u password=p dbname=pizza port=5432 sslmode=disable TimeZone=UTC",
		},
		{name: "sqlite", cfg: DatabaseConfig{Driver: "sqlite", Path: "tracker.sqlite"}, expected: "tracker.sqlite"},
		{name: "empty driver is sqlite", cfg: DatabaseConfig{Path: ":memory:"}, expected: ":memory:"},
		{name: "unknown driver", cfg: DatabaseConfig{Driver: "mysql"}, expected: ""},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.DSN())
		})
	}
}

func TestStringMasksPassword(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Password: "hunter2"}
	assert.NotContains(t, cfg.String(), "hunter2")
	assert.Contains(t, cfg.String(), "[REDACTED]")
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestMigrateAndSeedCatalog(t *testing.T) {
	retryDelays = []time.Duration{}
	db, err := InitDatabase(DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, SeedCatalog(db))
	require.NoError(t, SeedCatalog(db))

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultIngredients)), count)
}
