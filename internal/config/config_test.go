package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.ListTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DetailTTL)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.True(t, cfg.RestrictCoupons)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		EnvAddr:            "127.0.0.1:9000",
		EnvDBDriver:        DriverPostgres,
		EnvDBDSN:           "postgres://catalog@localhost/catalog?sslmode=disable",
		EnvListTTL:         "30s",
		EnvDetailTTL:       "10m",
		EnvCacheCapacity:   "500",
		EnvMaxPageSize:     "50",
		EnvDefaultPageSize: "20",
		EnvRestrictCoupons: "false",
		EnvLogLevel:        "debug",
		EnvLogFormat:       "console",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.ListTTL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.DetailTTL)
	assert.Equal(t, 500, cfg.Cache.Capacity)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.False(t, cfg.RestrictCoupons)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFrom_SmallCapacityShrinksShards(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{EnvCacheCapacity: "8"}))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Cache.NumShards)
}

func TestLoadFrom_ParseErrors(t *testing.T) {
	tests := map[string]string{
		EnvListTTL:         "soon",
		EnvCacheCapacity:   "lots",
		EnvRestrictCoupons: "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := LoadFrom(env(map[string]string{key: value}))
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, key, cfgErr.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DB.Driver = "oracle" }},
		{"missing dsn", func(c *Config) { c.DB.Driver = DriverPostgres; c.DB.DSN = "" }},
		{"default page above max", func(c *Config) { c.MaxPageSize = 5; c.DefaultPageSize = 10 }},
		{"zero max page size", func(c *Config) { c.MaxPageSize = 0 }},
		{"zero list ttl", func(c *Config) { c.Cache.ListTTL = 0 }},
		{"empty addr", func(c *Config) { c.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	memory := Default()
	memory.DB = DB{Driver: DriverMemory}
	assert.NoError(t, memory.Validate())
}
