package cache

import (
	"context"
	"fmt"

	"github.com/erp/uom/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RevisionTracker hands out the catalog revision
type RevisionTracker interface {
	Current(ctx context.Context) (uint64, error)
	Bump(ctx context.Context) (uint64, error)
}

// RevisionTrackerFactory creates revision trackers based on configuration
type RevisionTrackerFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RevisionTrackerFactoryOption is a functional option for configuring the factory
type RevisionTrackerFactoryOption func(*RevisionTrackerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RevisionTrackerFactoryOption {
	return func(f *RevisionTrackerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory tracker when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) RevisionTrackerFactoryOption {
	return func(f *RevisionTrackerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRevisionTrackerFactory creates a new factory
func NewRevisionTrackerFactory(cfg config.RedisConfig, opts ...RevisionTrackerFactoryOption) *RevisionTrackerFactory {
	f := &RevisionTrackerFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateTracker returns a Redis tracker when Redis is enabled and reachable,
// and an in-memory tracker otherwise. The returned close function releases
// the Redis connection and is never nil.
func (f *RevisionTrackerFactory) CreateTracker() (RevisionTracker, func() error, error) {
	noop := func() error { return nil }

	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory catalog revision tracker")
		return NewInMemoryRevisionTracker(), noop, nil
	}

	tracker, err := NewRedisRevisionTracker(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Using Redis catalog revision tracker",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port),
		)
		return tracker, tracker.Close, nil
	}

	if !f.allowInMemoryFallback {
		return nil, noop, fmt.Errorf("Redis required for catalog revisions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory catalog revision tracker. "+
		"Graph caches on other instances will not see this instance's edits.",
		zap.Error(err),
	)
	return NewInMemoryRevisionTracker(), noop, nil
}
