package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/erp/uom/internal/application/health"
	"go.uber.org/zap"
)

// DefaultReportPrefix is the key prefix used when none is configured
const DefaultReportPrefix = "health-reports"

// ObjectUploader stores one object
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// ReportArchive writes each data health report as a JSON object keyed by
// the day and time it was generated.
type ReportArchive struct {
	store  ObjectUploader
	prefix string
	logger *zap.Logger
}

// NewReportArchive creates an archive writing under prefix
func NewReportArchive(store ObjectUploader, prefix string, logger *zap.Logger) *ReportArchive {
	if prefix == "" {
		prefix = DefaultReportPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportArchive{store: store, prefix: prefix, logger: logger}
}

// ReportKey returns the object key of a report generated at ts. Failing
// reports carry a "-failed" suffix so they can be listed by name.
func (a *ReportArchive) ReportKey(generatedAt time.Time, ok bool) string {
	ts := generatedAt.UTC()
	name := "health-" + ts.Format("20060102T150405Z")
	if !ok {
		name += "-failed"
	}
	return path.Join(a.prefix, ts.Format("2006/01/02"), name+".json")
}

// Archive stores report and returns its key
func (a *ReportArchive) Archive(ctx context.Context, report *health.DataHealthReport) (string, error) {
	if report == nil {
		return "", errors.New("report is required")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode health report: %w", err)
	}
	key := a.ReportKey(report.GeneratedAt, report.OK())
	if err := a.store.Upload(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	a.logger.Debug("Health report archived", zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}
