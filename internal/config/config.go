// Package config loads the server configuration from CATALOG_* environment
// variables on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/logging"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Environment variables read by Load.
const (
	EnvAddr            = "CATALOG_ADDR"
	EnvDBDriver        = "CATALOG_DB_DRIVER"
	EnvDBDSN           = "CATALOG_DB_DSN"
	EnvListTTL         = "CATALOG_LIST_TTL"
	EnvDetailTTL       = "CATALOG_DETAIL_TTL"
	EnvCacheCapacity   = "CATALOG_CACHE_CAPACITY"
	EnvMaxPageSize     = "CATALOG_MAX_PAGE_SIZE"
	EnvDefaultPageSize = "CATALOG_DEFAULT_PAGE_SIZE"
	EnvRestrictCoupons = "CATALOG_RESTRICT_COUPONS"
	EnvLogLevel        = "CATALOG_LOG_LEVEL"
	EnvLogFormat       = "CATALOG_LOG_FORMAT"
)

// DB selects the Entity Store backend.
type DB struct {
	Driver string
	DSN    string
}

// Config is the complete server configuration.
type Config struct {
	Addr            string
	DB              DB
	Cache           cache.Config
	MaxPageSize     int
	DefaultPageSize int
	RestrictCoupons bool
	Log             logging.Config
}

// Default returns the configuration used when no variable is set: an
// in-memory sqlite store on :8080.
func Default() Config {
	return Config{
		Addr:            ":8080",
		DB:              DB{Driver: DriverSQLite, DSN: ":memory:"},
		Cache:           cache.DefaultConfig(),
		MaxPageSize:     100,
		DefaultPageSize: 10,
		RestrictCoupons: true,
		Log:             logging.DefaultConfig(),
	}
}

// ConfigError reports a variable that could not be parsed.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Message)
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads variables through lookup and validates the result.
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str(EnvAddr, &cfg.Addr)
	p.str(EnvDBDriver, &cfg.DB.Driver)
	p.str(EnvDBDSN, &cfg.DB.DSN)
	p.duration(EnvListTTL, &cfg.Cache.ListTTL)
	p.duration(EnvDetailTTL, &cfg.Cache.DetailTTL)
	p.integer(EnvCacheCapacity, &cfg.Cache.Capacity)
	p.integer(EnvMaxPageSize, &cfg.MaxPageSize)
	p.integer(EnvDefaultPageSize, &cfg.DefaultPageSize)
	p.boolean(EnvRestrictCoupons, &cfg.RestrictCoupons)
	p.str(EnvLogLevel, &cfg.Log.Level)
	p.str(EnvLogFormat, &cfg.Log.Format)

	if p.err != nil {
		return Config{}, p.err
	}
	if cfg.Cache.NumShards > cfg.Cache.Capacity {
		cfg.Cache.NumShards = cfg.Cache.Capacity
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration as a whole, including the cache section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.MaxPageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.DefaultPageSize, validation.Required, validation.Min(1), validation.Max(c.MaxPageSize)),
	)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	err = validation.ValidateStruct(&c.DB,
		validation.Field(&c.DB.Driver, validation.Required, validation.In(DriverMemory, DriverSQLite, DriverPostgres)),
		validation.Field(&c.DB.DSN, validation.When(c.DB.Driver != DriverMemory, validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("config: db: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("config: cache: %w", err)
	}
	return nil
}

// parser keeps the first parse error so Load can report it once.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) value(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	return v, ok && v != ""
}

func (p *parser) fail(key string, err error) {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	p.err = &ConfigError{Field: key, Message: err.Error()}
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.value(key); ok {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	if v, ok := p.value(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *parser) boolean(key string, dst *bool) {
	if v, ok := p.value(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.value(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = d
	}
}
