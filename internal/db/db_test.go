package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/pkg/config"
)

func TestNewDatabaseConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Repositories.Postgres = config.PostgresConfig{
		Host:     "db",
		Port:     "5432",
		DB:       "trip_planner",
		Username: "planner",
		Password: "p@ss word",
		SSLMode:  "disable",
		MaxConns: 4,
	}

	dbConfig, err := NewDatabaseConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int32(4), dbConfig.MaxConns)

	u, err := url.Parse(dbConfig.ConnectionURL)
	require.NoError(t, err)
	assert.Equal(t, "postgresql", u.Scheme)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/trip_planner", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestNewDatabaseConfig_Missing(t *testing.T) {
	_, err := NewDatabaseConfig(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewDatabaseConfig(&config.Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_saved_itineraries.up.sql")
	assert.Contains(t, names, "000001_saved_itineraries.down.sql")
}
