package lexgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordNormsField is called after each norms field write.
	// width is the chosen byte width, 0 for constant fields.
	RecordNormsField(width int, duration time.Duration, err error)

	// RecordNormsFinish is called once per norms writer when its files are finalized.
	RecordNormsFinish(err error)

	// RecordSearch is called after each search over a set of segments.
	RecordSearch(segments, totalHits int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordNormsField(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordNormsFinish(error)                     {}
func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	NormsFields       atomic.Int64
	NormsConstant     atomic.Int64
	NormsErrors       atomic.Int64
	NormsTotalNanos   atomic.Int64
	NormsFinishes     atomic.Int64
	NormsFinishErrors atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchSegments    atomic.Int64
	SearchHits        atomic.Int64
	SearchTotalNanos  atomic.Int64
}

// RecordNormsField implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNormsField(width int, duration time.Duration, err error) {
	b.NormsFields.Add(1)
	b.NormsTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.NormsErrors.Add(1)
		return
	}
	if width == 0 {
		b.NormsConstant.Add(1)
	}
}

// RecordNormsFinish implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNormsFinish(err error) {
	b.NormsFinishes.Add(1)
	if err != nil {
		b.NormsFinishErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(segments, totalHits int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchSegments.Add(int64(segments))
	b.SearchHits.Add(int64(totalHits))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		NormsFields:       b.NormsFields.Load(),
		NormsConstant:     b.NormsConstant.Load(),
		NormsErrors:       b.NormsErrors.Load(),
		NormsFinishes:     b.NormsFinishes.Load(),
		NormsFinishErrors: b.NormsFinishErrors.Load(),
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		SearchHits:        b.SearchHits.Load(),
		SearchAvgNanos:    b.getAvgSearchNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	NormsFields       int64
	NormsConstant     int64
	NormsErrors       int64
	NormsFinishes     int64
	NormsFinishErrors int64
	SearchCount       int64
	SearchErrors      int64
	SearchHits        int64
	SearchAvgNanos    int64
}
