package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-very-long-test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.EventPollInterval)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-very-long-test-secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Len(t, cfg.TrustedProxies, 2)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-very-long-test-secret")
	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestInitDBSQLite(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DBDSN: ":memory:"}
	db, err := InitDB(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
