package obs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parsequote/internal/quote"
)

func TestMetrics_Outcomes(t *testing.T) {
	m := NewMetrics()
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeValid})
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeValid})
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeSkipped, Skip: quote.SkipSize})
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeSkipped, Skip: quote.SkipMarker})
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeSkipped, Skip: quote.SkipSize})
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeEnd})

	snap := m.Snapshot()
	assert.Equal(t, uint64(5), snap.Records)
	assert.Equal(t, uint64(2), snap.Quotes)
	assert.Equal(t, map[quote.SkipReason]uint64{quote.SkipSize: 2, quote.SkipMarker: 1}, snap.Skipped)
}

func TestMetrics_EmitAndPeak(t *testing.T) {
	m := NewMetrics()
	m.ObserveEmit(2 * time.Microsecond)
	m.ObserveEmit(4 * time.Microsecond)
	m.ObserveReorderPeak(3)
	m.ObserveReorderPeak(9)
	m.ObserveReorderPeak(5)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.Emitted)
	assert.Equal(t, uint64(9), snap.ReorderPeak)
	assert.Equal(t, LatencySnapshot{Count: 2, Min: 2 * time.Microsecond, Max: 4 * time.Microsecond, Avg: 3 * time.Microsecond}, snap.EmitLatency)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveOutcome(quote.Outcome{Kind: quote.OutcomeValid})
	m.ObserveEmit(time.Second)
	m.ObserveReorderPeak(1)
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestBytesCarry(t *testing.T) {
	v, unit := bytesCarry(1024)
	assert.Equal(t, uint64(1024), v)
	assert.Equal(t, " B", unit)

	v, unit = bytesCarry(64 << 10)
	assert.Equal(t, uint64(64), v)
	assert.Equal(t, " KB", unit)

	v, unit = bytesCarry(64 << 20)
	assert.Equal(t, uint64(64), v)
	assert.Equal(t, " MB", unit)
}

func TestMemoryProbe(t *testing.T) {
	var p MemoryProbe
	p.Start()
	sink := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		sink = append(sink, make([]byte, 1024))
	}
	p.Stop()
	assert.Len(t, sink, 64)

	line := p.Line()
	assert.Contains(t, line, "[HEAP] alc_grow=")
	assert.Contains(t, line, "[GC] times=")
}
