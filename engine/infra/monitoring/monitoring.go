package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/compozy/pdftab/engine/infra/monitoring/middleware"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/logger"
)

const (
	meterName   = "pdftab"
	DefaultPath = "/metrics"
)

// Service exports pdftab instruments through a private Prometheus registry.
// A disabled Service hands out a no-op meter and answers the metrics path with 503.
type Service struct {
	path     string
	meter    metric.Meter
	provider *sdkmetric.MeterProvider
	registry *prom.Registry
	initErr  error
}

// ValidatePath rejects metrics paths that would collide with the API routes.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("monitoring path cannot be empty")
	case !strings.HasPrefix(path, "/"):
		return fmt.Errorf("monitoring path must start with '/': got %s", path)
	case strings.HasPrefix(path, "/api/"):
		return errors.New("monitoring path cannot be under /api/")
	case strings.ContainsAny(path, "?#"):
		return errors.New("monitoring path cannot contain a query or fragment")
	}
	return nil
}

func disabled(path string, initErr error) *Service {
	if path == "" {
		path = DefaultPath
	}
	return &Service{path: path, meter: noop.NewMeterProvider().Meter(meterName), initErr: initErr}
}

// New builds the exporter when cfg.Enabled is set.
func New(ctx context.Context, cfg config.MonitoringConfig) (*Service, error) {
	log := logger.FromContext(ctx)
	if !cfg.Enabled {
		log.Debug("Monitoring disabled")
		return disabled(cfg.Path, nil), nil
	}
	if err := ValidatePath(cfg.Path); err != nil {
		return nil, err
	}
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	s := &Service{
		path:     cfg.Path,
		meter:    provider.Meter(meterName),
		provider: provider,
		registry: registry,
	}
	InitSystemMetrics(ctx, s.meter)
	log.Info("Monitoring enabled", "path", cfg.Path)
	return s, nil
}

// NewWithFallback returns a disabled Service instead of an error so serve can
// keep running without metrics.
func NewWithFallback(ctx context.Context, cfg config.MonitoringConfig) *Service {
	s, err := New(ctx, cfg)
	if err != nil {
		logger.FromContext(ctx).Error("Monitoring unavailable, continuing without metrics", "error", err)
		return disabled(cfg.Path, err)
	}
	return s
}

func (s *Service) Meter() metric.Meter {
	return s.meter
}

func (s *Service) Path() string {
	return s.path
}

func (s *Service) IsInitialized() bool {
	return s.provider != nil
}

func (s *Service) InitializationError() error {
	return s.initErr
}

// GinMiddleware records request metrics; it is a pass-through when disabled.
func (s *Service) GinMiddleware(ctx context.Context) gin.HandlerFunc {
	if !s.IsInitialized() {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.HTTPMetrics(ctx, s.meter)
}

// ExporterHandler serves the registry in the Prometheus text format.
func (s *Service) ExporterHandler() http.Handler {
	if !s.IsInitialized() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte("metrics are disabled")); err != nil {
				logger.FromContext(r.Context()).Error("Failed to write response", "error", err)
			}
		})
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// SetAsGlobal routes package-level instruments, such as the batch run
// counters, through this service.
func (s *Service) SetAsGlobal() {
	if s.provider != nil {
		otel.SetMeterProvider(s.provider)
	}
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Shutdown(ctx)
}
