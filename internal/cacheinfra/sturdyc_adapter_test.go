package cacheinfra

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 64 {
		t.Errorf("expected NumShards to be 64, got %d", cfg.NumShards)
	}

	if cfg.ListTTL != time.Minute {
		t.Errorf("expected ListTTL to be 1 minute, got %v", cfg.ListTTL)
	}

	if cfg.DetailTTL != 5*time.Minute {
		t.Errorf("expected DetailTTL to be 5 minutes, got %v", cfg.DetailTTL)
	}

	if cfg.ListTTL >= cfg.DetailTTL {
		t.Error("expected list tier to expire before detail tier")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{name: "valid default config", mutate: func(c *Config) {}},
		{name: "zero capacity", mutate: func(c *Config) { c.Capacity = 0 }, errorMsg: "Capacity: must be greater than 0"},
		{name: "zero shards", mutate: func(c *Config) { c.NumShards = 0 }, errorMsg: "NumShards: must be greater than 0"},
		{name: "more shards than capacity", mutate: func(c *Config) { c.Capacity = 10; c.NumShards = 20 }, errorMsg: "NumShards: must not exceed Capacity"},
		{name: "zero list ttl", mutate: func(c *Config) { c.ListTTL = 0 }, errorMsg: "ListTTL: must be greater than 0"},
		{name: "zero detail ttl", mutate: func(c *Config) { c.DetailTTL = 0 }, errorMsg: "DetailTTL: must be greater than 0"},
		{name: "eviction percentage too low", mutate: func(c *Config) { c.EvictionPercentage = 0 }, errorMsg: "must be between 1 and 100"},
		{name: "eviction percentage too high", mutate: func(c *Config) { c.EvictionPercentage = 101 }, errorMsg: "must be between 1 and 100"},
		{name: "negative eviction interval", mutate: func(c *Config) { c.EvictionInterval = -time.Second }, errorMsg: "must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				if err != nil {
					t.Errorf("expected no validation error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error but got none")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error message to contain %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	cfg := DefaultConfig()
	if got := len(cfg.ToSturdycOptions()); got != 0 {
		t.Errorf("expected no sturdyc options for default config, got %d", got)
	}

	cfg.EvictionInterval = time.Second
	if got := len(cfg.ToSturdycOptions()); got != 1 {
		t.Errorf("expected 1 sturdyc option with eviction interval, got %d", got)
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "TestField", Message: "test message"}

	expected := "cache config: TestField test message"
	if err.Error() != expected {
		t.Errorf("expected error message %q, got %q", expected, err.Error())
	}
}

func TestNewSturdycService_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 0

	service, err := NewSturdycService(cfg)
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if service != nil {
		t.Error("expected service to be nil when error occurs")
	}
}

func newTestService(t *testing.T, listTTL, detailTTL time.Duration) *sturdycService {
	t.Helper()

	service, err := NewSturdycService(Config{
		Capacity:           100,
		NumShards:          4,
		ListTTL:            listTTL,
		DetailTTL:          detailTTL,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestSturdycService_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, time.Minute, time.Minute)

	if _, ok, err := service.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss for absent key, got ok=%v err=%v", ok, err)
	}

	if err := service.Set(ctx, "product_detail::1", []byte("payload"), TierDetail); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	value, ok, err := service.Get(ctx, "product_detail::1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(value) != "payload" {
		t.Errorf("expected payload, got %q", value)
	}

	if err := service.Delete(ctx, "product_detail::1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, ok, _ := service.Get(ctx, "product_detail::1"); ok {
		t.Error("expected miss after delete")
	}

	// Deleting an absent key is not an error.
	if err := service.Delete(ctx, "product_detail::1"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestSturdycService_SetMovesKeyBetweenTiers(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, time.Minute, time.Minute)

	_ = service.Set(ctx, "k", []byte("list"), TierList)
	_ = service.Set(ctx, "k", []byte("detail"), TierDetail)

	if service.Size(TierList) != 0 {
		t.Errorf("expected list tier to drop the key, size=%d", service.Size(TierList))
	}

	value, ok, _ := service.Get(ctx, "k")
	if !ok || string(value) != "detail" {
		t.Errorf("expected detail value, got %q ok=%v", value, ok)
	}
}

func TestSturdycService_TierTTL(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 20*time.Millisecond, time.Minute)

	_ = service.Set(ctx, "product_list::a", []byte("list"), TierList)
	_ = service.Set(ctx, "product_detail::a", []byte("detail"), TierDetail)

	time.Sleep(60 * time.Millisecond)

	if _, ok, _ := service.Get(ctx, "product_list::a"); ok {
		t.Error("expected list entry to expire")
	}
	if _, ok, _ := service.Get(ctx, "product_detail::a"); !ok {
		t.Error("expected detail entry to survive")
	}
}

func TestSturdycService_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, time.Minute, time.Minute)

	keys := []string{
		"product_list::category=1::page=1",
		"product_list::category=1::page=2",
		"product_list::category=10::page=1",
		"product_detail::1",
	}
	for _, key := range keys {
		_ = service.Set(ctx, key, []byte(key), TierList)
	}

	if err := service.DeleteByPrefix(ctx, "product_list::category=1::"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectations := map[string]bool{
		keys[0]: false,
		keys[1]: false,
		keys[2]: true,
		keys[3]: true,
	}
	for key, want := range expectations {
		if _, ok, _ := service.Get(ctx, key); ok != want {
			t.Errorf("key %s: expected present=%v, got %v", key, want, ok)
		}
	}
}

func TestSturdycService_InvalidateKeys(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, time.Minute, time.Minute)

	_ = service.Set(ctx, "a", []byte("1"), TierList)
	_ = service.Set(ctx, "b", []byte("2"), TierDetail)
	_ = service.Set(ctx, "c", []byte("3"), TierDetail)

	if err := service.InvalidateKeys(ctx, []string{"a", "b", "absent"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for key, want := range map[string]bool{"a": false, "b": false, "c": true} {
		if _, ok, _ := service.Get(ctx, key); ok != want {
			t.Errorf("key %s: expected present=%v, got %v", key, want, ok)
		}
	}
}

func TestTier_String(t *testing.T) {
	if TierList.String() != "list" || TierDetail.String() != "detail" || Tier(9).String() != "unknown" {
		t.Error("unexpected tier names")
	}
}
