package monitoring

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/compozy/pdftab/engine/infra/monitoring/metrics"
	"github.com/compozy/pdftab/pkg/logger"
	"github.com/compozy/pdftab/pkg/version"
)

var (
	systemMu     sync.Mutex
	systemReg    metric.Registration
	buildInfo    metric.Float64Gauge
	processStart = time.Now()
)

// InitSystemMetrics registers the process gauges on meter and records the
// build info. Only the first meter wins until ResetSystemMetricsForTesting.
func InitSystemMetrics(ctx context.Context, meter metric.Meter) {
	systemMu.Lock()
	defer systemMu.Unlock()
	log := logger.FromContext(ctx)
	if systemReg == nil {
		if err := registerSystemGauges(meter); err != nil {
			log.Error("Failed to register system metrics", "error", err)
			return
		}
	}
	ver, commit := buildVersion()
	buildInfo.Record(ctx, 1, metric.WithAttributes(
		attribute.String("version", ver),
		attribute.String("commit_hash", commit),
		attribute.String("go_version", runtime.Version()),
	))
}

func registerSystemGauges(meter metric.Meter) error {
	var err error
	buildInfo, err = meter.Float64Gauge(
		metrics.MetricName("build_info"),
		metric.WithDescription("Build information (value=1)"),
	)
	if err != nil {
		return err
	}
	uptime, err := meter.Float64ObservableGauge(
		metrics.MetricName("uptime_seconds"),
		metric.WithDescription("Seconds since the process started"),
	)
	if err != nil {
		return err
	}
	goroutines, err := meter.Int64ObservableGauge(
		metrics.MetricName("goroutines"),
		metric.WithDescription("Live goroutines"),
	)
	if err != nil {
		return err
	}
	heap, err := meter.Int64ObservableGauge(
		metrics.MetricName("heap_alloc_bytes"),
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}
	systemReg, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		o.ObserveFloat64(uptime, time.Since(processStart).Seconds())
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heap, int64(ms.HeapAlloc))
		return nil
	}, uptime, goroutines, heap)
	return err
}

// buildVersion prefers ldflags values and falls back to the module build info.
func buildVersion() (ver, commit string) {
	info := version.Get()
	ver, commit = info.Version, info.CommitHash
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ver, commit
	}
	if ver == version.Unknown && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		ver = bi.Main.Version
	}
	if commit == version.Unknown {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				commit = s.Value
			}
		}
	}
	return ver, commit
}

// ResetSystemMetricsForTesting unregisters the gauges so the next service can bind its own meter.
func ResetSystemMetricsForTesting() {
	systemMu.Lock()
	defer systemMu.Unlock()
	if systemReg != nil {
		if err := systemReg.Unregister(); err != nil {
			logger.Error("Failed to unregister system metrics", "error", err)
		}
	}
	systemReg = nil
	buildInfo = nil
}
