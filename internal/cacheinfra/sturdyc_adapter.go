package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Tier selects which TTL class a value is stored under.
type Tier int

const (
	// TierList is the short lived tier used for paginated list views.
	TierList Tier = iota
	// TierDetail is the long lived tier used for single entity views.
	TierDetail
)

func (t Tier) String() string {
	switch t {
	case TierList:
		return "list"
	case TierDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Config sizes the two cache tiers. Both tiers share capacity, sharding and
// eviction settings and differ only in TTL.
// Each tier gets its own sturdyc client since sturdyc applies one TTL per client.
type Config struct {
	// Capacity is the entry limit of each tier.
	Capacity int

	// NumShards must be in [1, Capacity].
	NumShards int

	// ListTTL is the time-to-live for list view entries.
	ListTTL time.Duration

	// DetailTTL is the time-to-live for detail view entries.
	DetailTTL time.Duration

	// EvictionPercentage of a full tier is dropped to make room, 1 to 100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are purged.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig keeps lists for a minute and details for five.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		ListTTL:            time.Minute,
		DetailTTL:          5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions returns the settings that sturdyc.New does not take
// positionally.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate reports the first out of range field.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.NumShards > c.Capacity {
		return &ConfigError{Field: "NumShards", Message: "must not exceed Capacity"}
	}

	if c.ListTTL <= 0 {
		return &ConfigError{Field: "ListTTL", Message: "must be greater than 0"}
	}

	if c.DetailTTL <= 0 {
		return &ConfigError{Field: "DetailTTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError names the invalid field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config: " + e.Field + " " + e.Message
}

// sturdycService keeps one sturdyc client per tier. Keys are namespaced by
// the caller, so a key lives in exactly one tier at a time.
type sturdycService struct {
	tiers map[Tier]*sturdyc.Client[[]byte]
}

// NewSturdycService validates cfg and builds one sturdyc client per tier.
// It validates the configuration and initializes one client per tier.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	newClient := func(ttl time.Duration) *sturdyc.Client[[]byte] {
		return sturdyc.New[[]byte](
			cfg.Capacity,
			cfg.NumShards,
			ttl,
			cfg.EvictionPercentage,
			cfg.ToSturdycOptions()...,
		)
	}

	return &sturdycService{
		tiers: map[Tier]*sturdyc.Client[[]byte]{
			TierList:   newClient(cfg.ListTTL),
			TierDetail: newClient(cfg.DetailTTL),
		},
	}, nil
}

// Get returns the value stored under key in any tier. Expired entries are misses.
func (s *sturdycService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	for _, tier := range []Tier{TierDetail, TierList} {
		if value, ok := s.tiers[tier].Get(key); ok {
			return value, true, nil
		}
	}
	return nil, false, nil
}

// Set stores value under key in the given tier and drops any copy in the other tier.
func (s *sturdycService) Set(ctx context.Context, key string, value []byte, tier Tier) error {
	client, ok := s.tiers[tier]
	if !ok {
		return &ConfigError{Field: "tier", Message: "unknown tier " + tier.String()}
	}
	for other, c := range s.tiers {
		if other != tier {
			c.Delete(key)
		}
	}
	client.Set(key, value)
	return nil
}

// Delete removes a single entry. Deleting an absent key is a no-op.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	for _, client := range s.tiers {
		client.Delete(key)
	}
	return nil
}

// DeleteByPrefix removes all entries from both tiers whose key starts with prefix.
func (s *sturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, client := range s.tiers {
		for _, key := range client.ScanKeys() {
			if strings.HasPrefix(key, prefix) {
				client.Delete(key)
			}
		}
	}
	return nil
}

// InvalidateKeys removes multiple entries in one call.
func (s *sturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Size reports the number of entries held by a tier, expired ones included
// until they are purged.
func (s *sturdycService) Size(tier Tier) int {
	if client, ok := s.tiers[tier]; ok {
		return client.Size()
	}
	return 0
}
