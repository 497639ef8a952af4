package obs

import (
	"sync/atomic"
	"time"

	"parsequote/internal/quote"
)

const maxSkipReason = int(quote.SkipMarker)

// Metrics collects lightweight counters for a parse run.
type Metrics struct {
	records     uint64
	quotes      uint64
	skipCounts  [maxSkipReason + 1]uint64
	emitted     uint64
	reorderPeak uint64

	emitLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Records     uint64
	Quotes      uint64
	Skipped     map[quote.SkipReason]uint64
	Emitted     uint64
	ReorderPeak uint64
	EmitLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveOutcome counts one parsed record.
func (m *Metrics) ObserveOutcome(o quote.Outcome) {
	if m == nil {
		return
	}
	switch o.Kind {
	case quote.OutcomeValid:
		atomic.AddUint64(&m.records, 1)
		atomic.AddUint64(&m.quotes, 1)
	case quote.OutcomeSkipped:
		atomic.AddUint64(&m.records, 1)
		idx := int(o.Skip)
		if idx >= 0 && idx < len(m.skipCounts) {
			atomic.AddUint64(&m.skipCounts[idx], 1)
		}
	}
}

// ObserveEmit records one emitted line and how long the sink took.
func (m *Metrics) ObserveEmit(d time.Duration) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.emitted, 1)
	m.emitLatency.Observe(d)
}

// ObserveReorderPeak keeps the largest reorder buffer size seen.
func (m *Metrics) ObserveReorderPeak(size int) {
	if m == nil || size < 0 {
		return
	}
	v := uint64(size)
	for {
		cur := atomic.LoadUint64(&m.reorderPeak)
		if v <= cur {
			return
		}
		if atomic.CompareAndSwapUint64(&m.reorderPeak, cur, v) {
			return
		}
	}
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	skipped := make(map[quote.SkipReason]uint64)
	for i := range m.skipCounts {
		if v := atomic.LoadUint64(&m.skipCounts[i]); v > 0 {
			skipped[quote.SkipReason(i)] = v
		}
	}
	return Snapshot{
		Records:     atomic.LoadUint64(&m.records),
		Quotes:      atomic.LoadUint64(&m.quotes),
		Skipped:     skipped,
		Emitted:     atomic.LoadUint64(&m.emitted),
		ReorderPeak: atomic.LoadUint64(&m.reorderPeak),
		EmitLatency: m.emitLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
