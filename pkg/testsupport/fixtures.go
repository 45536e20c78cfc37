// Package testsupport wraps the reference catalog for tests and loads
// fixture files.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-cache/internal/clock"
	"github.com/goliatone/go-catalog-cache/internal/seed"
	"github.com/goliatone/go-catalog-cache/store"
	"github.com/goliatone/go-catalog-cache/store/memory"
)

// Epoch is the start time of stores created by NewMemoryStore.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type (
	SeedData    = seed.Data
	SeedCoupon  = seed.Coupon
	SeedProduct = seed.Product
	Catalog     = seed.Catalog
)

// DefaultSeed returns the reference catalog.
func DefaultSeed() SeedData {
	return seed.Default()
}

// Seed writes data through w.
func Seed(ctx context.Context, w store.Writer, data SeedData) (*Catalog, error) {
	return seed.Load(ctx, w, data)
}

// MustSeed seeds the default catalog and fails the test on error.
func MustSeed(t testing.TB, w store.Writer) *Catalog {
	t.Helper()

	c, err := Seed(context.Background(), w, DefaultSeed())
	if err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return c
}

// NewMemoryStore returns an empty in-memory store whose clock starts at Epoch
// and advances one second per stamp, so creation order is deterministic.
func NewMemoryStore() *memory.Store {
	return memory.New(memory.WithClock(clock.NewFake(Epoch).WithStep(time.Second)))
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON loads a JSON fixture file into dest.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}
