package gridkit

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/gridkit/state"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    stageHistogram *prometheus.HistogramVec
//	}
//
//	func (p *PrometheusCollector) RecordRecompute(stage state.Stage, rows, out int, d time.Duration) {
//	    p.stageHistogram.WithLabelValues(stage.String()).Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordRecompute is called after each pipeline stage.
	// rows is the stage input size, out the number of rows it produced.
	RecordRecompute(stage state.Stage, rows, out int, duration time.Duration)

	// RecordLoad is called after each dataset load.
	// err is nil if successful.
	RecordLoad(rows int, bytes int64, duration time.Duration, err error)

	// RecordViewSave is called after each view save.
	RecordViewSave(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRecompute(state.Stage, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordLoad(int, int64, time.Duration, error)          {}
func (NoopMetricsCollector) RecordViewSave(time.Duration, error)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FilterCount      atomic.Int64
	FilterTotalNanos atomic.Int64
	FilterRowsIn     atomic.Int64
	FilterRowsOut    atomic.Int64
	SortCount        atomic.Int64
	SortTotalNanos   atomic.Int64
	VisibleCount     atomic.Int64
	VisibleNanos     atomic.Int64
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	LoadRows         atomic.Int64
	LoadBytes        atomic.Int64
	LoadTotalNanos   atomic.Int64
	ViewSaveCount    atomic.Int64
	ViewSaveErrors   atomic.Int64
}

// RecordRecompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRecompute(stage state.Stage, rows, out int, duration time.Duration) {
	switch stage {
	case state.StageFilter:
		b.FilterCount.Add(1)
		b.FilterTotalNanos.Add(duration.Nanoseconds())
		b.FilterRowsIn.Add(int64(rows))
		b.FilterRowsOut.Add(int64(out))
	case state.StageSort:
		b.SortCount.Add(1)
		b.SortTotalNanos.Add(duration.Nanoseconds())
	case state.StageVisible:
		b.VisibleCount.Add(1)
		b.VisibleNanos.Add(duration.Nanoseconds())
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(rows int, bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadRows.Add(int64(rows))
	b.LoadBytes.Add(bytes)
}

// RecordViewSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordViewSave(duration time.Duration, err error) {
	b.ViewSaveCount.Add(1)
	if err != nil {
		b.ViewSaveErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FilterCount:    b.FilterCount.Load(),
		FilterAvgNanos: avg(b.FilterTotalNanos.Load(), b.FilterCount.Load()),
		FilterRowsIn:   b.FilterRowsIn.Load(),
		FilterRowsOut:  b.FilterRowsOut.Load(),
		SortCount:      b.SortCount.Load(),
		SortAvgNanos:   avg(b.SortTotalNanos.Load(), b.SortCount.Load()),
		VisibleCount:   b.VisibleCount.Load(),
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadRows:       b.LoadRows.Load(),
		LoadBytes:      b.LoadBytes.Load(),
		LoadAvgNanos:   avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		ViewSaveCount:  b.ViewSaveCount.Load(),
		ViewSaveErrors: b.ViewSaveErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FilterCount    int64
	FilterAvgNanos int64
	FilterRowsIn   int64
	FilterRowsOut  int64
	SortCount      int64
	SortAvgNanos   int64
	VisibleCount   int64
	LoadCount      int64
	LoadErrors     int64
	LoadRows       int64
	LoadBytes      int64
	LoadAvgNanos   int64
	ViewSaveCount  int64
	ViewSaveErrors int64
}
