package middleware

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/compozy/pdftab/engine/infra/monitoring/metrics"
	"github.com/compozy/pdftab/pkg/logger"
)

// unmatchedRoute labels requests that hit no registered route so arbitrary
// URLs do not blow up label cardinality.
const unmatchedRoute = "unmatched"

type httpInstruments struct {
	requests   metric.Int64Counter
	duration   metric.Float64Histogram
	inFlight   metric.Int64UpDownCounter
	uploadSize metric.Int64Histogram
}

var (
	instrumentsMu sync.Mutex
	instruments   *httpInstruments
)

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var inst httpInstruments
	var err, e error
	inst.requests, e = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("http", "requests_total"),
		metric.WithDescription("HTTP requests by route and status"),
	)
	err = errors.Join(err, e)
	inst.duration, e = meter.Float64Histogram(
		metrics.MetricNameWithSubsystem("http", "request_duration_seconds"),
		metric.WithDescription("HTTP request latency, including document conversion"),
		metric.WithExplicitBucketBoundaries(metrics.HTTPDurationBuckets...),
	)
	err = errors.Join(err, e)
	inst.inFlight, e = meter.Int64UpDownCounter(
		metrics.MetricNameWithSubsystem("http", "requests_in_flight"),
		metric.WithDescription("Requests being served, including those waiting for the conversion lock"),
	)
	err = errors.Join(err, e)
	inst.uploadSize, e = meter.Int64Histogram(
		metrics.MetricNameWithSubsystem("http", "upload_size_bytes"),
		metric.WithDescription("Declared size of uploaded request bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(metrics.UploadSizeBuckets...),
	)
	err = errors.Join(err, e)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func loadInstruments(ctx context.Context, meter metric.Meter) *httpInstruments {
	instrumentsMu.Lock()
	defer instrumentsMu.Unlock()
	if instruments == nil && meter != nil {
		inst, err := newHTTPInstruments(meter)
		if err != nil {
			logger.FromContext(ctx).Error("Failed to create HTTP metrics", "error", err)
			return nil
		}
		instruments = inst
	}
	return instruments
}

// ResetMetricsForTesting drops the cached instruments so the next middleware
// binds to a fresh meter.
func ResetMetricsForTesting() {
	instrumentsMu.Lock()
	instruments = nil
	instrumentsMu.Unlock()
}

// HTTPMetrics counts and times requests by route template.
func HTTPMetrics(ctx context.Context, meter metric.Meter) gin.HandlerFunc {
	inst := loadInstruments(ctx, meter)
	if inst == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		reqCtx := c.Request.Context()
		inst.inFlight.Add(reqCtx, 1)
		defer inst.inFlight.Add(reqCtx, -1)
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		inst.requests.Add(reqCtx, 1, attrs)
		inst.duration.Record(reqCtx, time.Since(start).Seconds(), attrs)
		if c.Request.ContentLength > 0 {
			inst.uploadSize.Record(reqCtx, c.Request.ContentLength,
				metric.WithAttributes(attribute.String("path", route)))
		}
	}
}
