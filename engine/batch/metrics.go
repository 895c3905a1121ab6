package batch

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/compozy/pdftab/engine/encode"
	"github.com/compozy/pdftab/engine/infra/monitoring/metrics"
)

const (
	failureTooLarge          = "too_large"
	failureDecode            = "decode"
	failureUnsupportedFormat = "unsupported_format"
	failureEncode            = "encode"
)

var (
	metricsOnce     sync.Once
	metricsMu       sync.Mutex
	metricsInitErr  error
	filesCounter    metric.Int64Counter
	pagesCounter    metric.Int64Counter
	recordsCounter  metric.Int64Counter
	failureCounter  metric.Int64Counter
	runDurationHist metric.Float64Histogram
)

func recordDocument(ctx context.Context, pages, records int) {
	if err := ensureMetrics(); err != nil || filesCounter == nil {
		return
	}
	filesCounter.Add(ctx, 1)
	pagesCounter.Add(ctx, int64(pages))
	recordsCounter.Add(ctx, int64(records))
}

func recordFailure(ctx context.Context, kind string) {
	if err := ensureMetrics(); err != nil || failureCounter == nil {
		return
	}
	failureCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func recordRun(ctx context.Context, format encode.Format, d time.Duration) {
	if err := ensureMetrics(); err != nil || runDurationHist == nil {
		return
	}
	runDurationHist.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("format", format.String())))
}

// ResetMetricsForTesting drops the cached instruments so the next call binds to
// the current global meter provider.
func ResetMetricsForTesting() {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	metricsOnce = sync.Once{}
	metricsInitErr = nil
	filesCounter = nil
	pagesCounter = nil
	recordsCounter = nil
	failureCounter = nil
	runDurationHist = nil
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("pdftab.batch")
		metricsInitErr = initCounters(meter)
		if metricsInitErr != nil {
			return
		}
		runDurationHist, metricsInitErr = meter.Float64Histogram(
			metrics.MetricNameWithSubsystem("batch", "duration_seconds"),
			metric.WithDescription("Duration of batch runs from first document to encoded output"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(metrics.BatchDurationBuckets...),
		)
	})
	return metricsInitErr
}

func initCounters(meter metric.Meter) error {
	var err error
	filesCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("batch", "files_total"),
		metric.WithDescription("Documents extracted successfully"),
	)
	if err != nil {
		return err
	}
	pagesCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("batch", "pages_total"),
		metric.WithDescription("Pages read from extracted documents"),
	)
	if err != nil {
		return err
	}
	recordsCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("batch", "records_total"),
		metric.WithDescription("Records materialized from table blocks"),
	)
	if err != nil {
		return err
	}
	failureCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("batch", "failures_total"),
		metric.WithDescription("Batch failures by kind"),
	)
	return err
}
