package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/erp/uom/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryLogExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *memoryLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *memoryLogExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryLogExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryLogExporter) messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{}, nil)
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.False(t, lp.Core(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	exporter := &memoryLogExporter{}
	lp, err := telemetry.NewLoggerProviderWithProcessor(
		telemetry.LogsConfig{ServiceName: "uom-test"},
		sdklog.NewSimpleProcessor(exporter),
		nil,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	require.True(t, lp.IsEnabled())

	baseCore, local := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(baseCore), zapcore.WarnLevel)

	log.Debug("graph rebuilt")
	log.Warn("no base unit")
	log.With(zap.String("unit", "KG")).Error("conversion loop")

	assert.Equal(t, 3, local.Len())
	assert.Equal(t, []string{"no base unit", "conversion loop"}, exporter.messages())
}
