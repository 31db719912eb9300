package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/erp/uom/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInMemoryRevisionTracker(t *testing.T) {
	ctx := context.Background()
	tracker := NewInMemoryRevisionTracker()

	rev, err := tracker.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rev)

	rev, err = tracker.Bump(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	rev, err = tracker.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)
}

func TestInMemoryRevisionTracker_ConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	tracker := NewInMemoryRevisionTracker()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.Bump(ctx)
		}()
	}
	wg.Wait()

	rev, err := tracker.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), rev)
}

func TestRevisionTrackerFactory_RedisDisabled(t *testing.T) {
	f := NewRevisionTrackerFactory(config.RedisConfig{Enabled: false}, WithLogger(zaptest.NewLogger(t)))

	tracker, closeFn, err := f.CreateTracker()

	require.NoError(t, err)
	assert.IsType(t, &InMemoryRevisionTracker{}, tracker)
	assert.NoError(t, closeFn())
}

func TestRevisionTrackerFactory_Fallback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis connection attempt in short mode")
	}

	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("fallback allowed", func(t *testing.T) {
		f := NewRevisionTrackerFactory(unreachable, WithLogger(zaptest.NewLogger(t)))
		tracker, _, err := f.CreateTracker()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryRevisionTracker{}, tracker)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		f := NewRevisionTrackerFactory(unreachable, WithInMemoryFallback(false))
		tracker, closeFn, err := f.CreateTracker()
		assert.Error(t, err)
		assert.Nil(t, tracker)
		assert.NotNil(t, closeFn)
	})
}
