// Package metrics keeps a small on-disk time series of operational
// measurements (request counts, sale totals, host load) using tstorage.
package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

const (
	MetricHTTPRequests   = "pedeai_http_requests"
	MetricSalesCount     = "pedeai_sales_count"
	MetricSalesTotal     = "pedeai_sales_total"
	MetricCartMutations  = "pedeai_cart_mutations"
	MetricEventsAccepted = "pedeai_events_accepted"
	MetricSystemCpuuse   = "pedeai_system_cpuuse"
	MetricSystemMemuse   = "pedeai_system_memuse"
)

var (
	storage tstorage.Storage
	once    sync.Once
	mu      sync.RWMutex
)

// InitMetrics opens the metric store under workdir/data/metrics.
func InitMetrics(workdir string) error {
	var err error
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		storage, err = tstorage.NewStorage(
			tstorage.WithDataPath(path.Join(workdir, "data", "metrics")),
			tstorage.WithTimestampPrecision(tstorage.Seconds),
			tstorage.WithRetention(30*24*time.Hour),
		)
	})
	return err
}

// RecordValue appends one data point to the named metric. A nil store is a
// no-op so callers never need to guard.
func RecordValue(metric string, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    metric,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// RecordCounter appends a single unit to the named metric.
func RecordCounter(metric string) {
	RecordValue(metric, 1)
}

// Select returns the data points of a metric within [start, end].
func Select(metric string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil, nil
	}
	return storage.Select(metric, nil, start, end)
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
