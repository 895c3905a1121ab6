package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricName(t *testing.T) {
	t.Run("Should prefix with the pdftab namespace once", func(t *testing.T) {
		assert.Equal(t, "pdftab_uptime_seconds", MetricName("uptime_seconds"))
		assert.Equal(t, "pdftab_uptime_seconds", MetricName("pdftab_uptime_seconds"))
	})
}

func TestMetricNameWithSubsystem(t *testing.T) {
	t.Run("Should join namespace, subsystem and name", func(t *testing.T) {
		assert.Equal(t, "pdftab_batch_records_total", MetricNameWithSubsystem("batch", "records_total"))
		assert.Equal(t, "pdftab_http_requests_total", MetricNameWithSubsystem("_http_", "requests_total"))
	})
	t.Run("Should tolerate a missing part", func(t *testing.T) {
		assert.Equal(t, "pdftab_batch", MetricNameWithSubsystem("batch", ""))
		assert.Equal(t, "pdftab_goroutines", MetricNameWithSubsystem("", "goroutines"))
	})
}

func TestBuckets(t *testing.T) {
	t.Run("Should be strictly increasing", func(t *testing.T) {
		for name, buckets := range map[string][]float64{
			"batch":  BatchDurationBuckets,
			"http":   HTTPDurationBuckets,
			"upload": UploadSizeBuckets,
		} {
			for i := 1; i < len(buckets); i++ {
				assert.Greater(t, buckets[i], buckets[i-1], name)
			}
		}
	})
}
