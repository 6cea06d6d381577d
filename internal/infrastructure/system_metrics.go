package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records a snapshot of process resource usage at the end of
// a run, so the textfile shows how much memory the cleaning needed.
type RuntimeMetrics struct {
	goroutines    metric.Int64Gauge
	heapAlloc     metric.Int64Gauge
	totalAlloc    metric.Int64Gauge
	systemMemory  metric.Int64Gauge
	gcCount       metric.Int64Gauge
	processUptime metric.Float64Gauge
}

// RuntimeStats holds one snapshot
type RuntimeStats struct {
	Goroutines    int64
	HeapAlloc     int64
	TotalAlloc    int64
	SystemMemory  int64
	GCCount       uint32
	ProcessUptime time.Duration
}

// NewRuntimeMetrics registers the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64Gauge(
		"whr_process_goroutines",
		metric.WithDescription("Number of goroutines at the end of the run"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"whr_process_heap_alloc",
		metric.WithDescription("Heap bytes in use at the end of the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	totalAlloc, err := meter.Int64Gauge(
		"whr_process_total_alloc",
		metric.WithDescription("Cumulative heap bytes allocated during the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	systemMemory, err := meter.Int64Gauge(
		"whr_process_system_memory",
		metric.WithDescription("Memory obtained from the OS"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"whr_process_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	processUptime, err := meter.Float64Gauge(
		"whr_process_uptime",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goroutines:    goroutines,
		heapAlloc:     heapAlloc,
		totalAlloc:    totalAlloc,
		systemMemory:  systemMemory,
		gcCount:       gcCount,
		processUptime: processUptime,
	}, nil
}

// Collect reads the runtime statistics and records them
func (rm *RuntimeMetrics) Collect(ctx context.Context, startTime time.Time) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := RuntimeStats{
		Goroutines:    int64(runtime.NumGoroutine()),
		HeapAlloc:     int64(mem.HeapAlloc),
		TotalAlloc:    int64(mem.TotalAlloc),
		SystemMemory:  int64(mem.Sys),
		GCCount:       mem.NumGC,
		ProcessUptime: time.Since(startTime),
	}

	rm.goroutines.Record(ctx, stats.Goroutines)
	rm.heapAlloc.Record(ctx, stats.HeapAlloc)
	rm.totalAlloc.Record(ctx, stats.TotalAlloc)
	rm.systemMemory.Record(ctx, stats.SystemMemory)
	rm.gcCount.Record(ctx, int64(stats.GCCount))
	rm.processUptime.Record(ctx, stats.ProcessUptime.Seconds())

	return stats
}
