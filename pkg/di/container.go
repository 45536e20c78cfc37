package di

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalogcache"
	"github.com/goliatone/go-catalog-cache/store"
)

// Container holds the shared cache components and wires catalog read
// services on top of an Entity Store.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	codec         cache.Codec
	config        cache.Config
	logger        zerolog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to the services built by the container.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithCodec replaces the msgpack codec.
func WithCodec(codec cache.Codec) Option {
	return func(c *Container) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(c *Container) {
		if serializer != nil {
			c.keySerializer = serializer
		}
	}
}

// NewContainer builds the cache service for config and returns a container
// around it. An invalid config is reported before anything is allocated.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		codec:         cache.NewMsgpackCodec(),
		config:        config,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContainerWithDefaults uses cache.DefaultConfig.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// CacheService returns the shared cache service.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Codec returns the value codec.
func (c *Container) Codec() cache.Codec {
	return c.codec
}

// Config returns the cache configuration the container was built with.
func (c *Container) Config() cache.Config {
	return c.config
}

// Invalidator returns a listener that evicts the container's cache entries
// affected by store changes.
func (c *Container) Invalidator(opts ...catalogcache.InvalidatorOption) *catalogcache.Invalidator {
	opts = append([]catalogcache.InvalidatorOption{catalogcache.WithInvalidatorLogger(c.logger)}, opts...)
	return catalogcache.NewInvalidator(c.cacheService, c.keySerializer, opts...)
}

// Catalog builds a read service over st and subscribes an invalidator to
// st's change feed. Call detach to stop invalidating.
func (c *Container) Catalog(st store.Store, opts ...catalogcache.Option) (svc *catalogcache.Service, detach func()) {
	opts = append([]catalogcache.Option{
		catalogcache.WithLogger(c.logger),
		catalogcache.WithCodec(c.codec),
	}, opts...)

	svc = catalogcache.NewService(st, c.cacheService, c.keySerializer, opts...)
	detach = st.Subscribe(c.Invalidator())
	return svc, detach
}
