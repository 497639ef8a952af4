package obs

import (
	"runtime"
	"strconv"
	"time"
)

// MemoryProbe measures allocation and GC activity between Start and Line.
type MemoryProbe struct {
	buf        [512]byte
	start, end runtime.MemStats
	startAt    time.Time
	endAt      time.Time
}

// Start records the baseline.
func (m *MemoryProbe) Start() {
	m.startAt = time.Now()
	runtime.ReadMemStats(&m.start)
}

// Stop records the end sample.
func (m *MemoryProbe) Stop() {
	m.endAt = time.Now()
	runtime.ReadMemStats(&m.end)
}

// Line renders the heap and GC deltas between Start and Stop.
func (m *MemoryProbe) Line() string {
	line := m.buf[:0]

	dt := m.endAt.Sub(m.startAt).Seconds()
	if dt <= 0 {
		dt = 1
	}

	line = append(line, "[HEAP] alc_grow="...)
	b, unit := bytesCarry(m.end.TotalAlloc - m.start.TotalAlloc)
	line = strconv.AppendUint(line, b, 10)
	line = append(line, unit...)

	line = append(line, " inuse="...)
	b, unit = bytesCarry(m.end.HeapInuse)
	line = strconv.AppendUint(line, b, 10)
	line = append(line, unit...)

	line = append(line, " alc_rate="...)
	rb, runit := bytesCarryFloat(float64(m.end.TotalAlloc-m.start.TotalAlloc) / dt)
	line = strconv.AppendFloat(line, rb, 'f', 2, 64)
	line = append(line, runit...)
	line = append(line, "/s"...)

	line = append(line, " [GC] times="...)
	line = strconv.AppendUint(line, uint64(m.end.NumGC-m.start.NumGC), 10)
	line = append(line, " stw="...)
	line = strconv.AppendFloat(line, float64(m.end.PauseTotalNs-m.start.PauseTotalNs)/1_000_000.0, 'f', 4, 64)
	line = append(line, "ms mallocs="...)
	line = strconv.AppendUint(line, m.end.Mallocs-m.start.Mallocs, 10)

	return string(line)
}

const carryThreshold = 1 << 15

func bytesCarry(value uint64) (uint64, string) {
	if value < carryThreshold {
		return value, " B"
	}
	value >>= 10
	if value < carryThreshold {
		return value, " KB"
	}
	value >>= 10
	if value < carryThreshold {
		return value, " MB"
	}
	return value >> 10, " GB"
}

func bytesCarryFloat(value float64) (float64, string) {
	if value < float64(carryThreshold) {
		return value, " B"
	}
	value /= 1024
	if value < float64(carryThreshold) {
		return value, " KB"
	}
	value /= 1024
	if value < float64(carryThreshold) {
		return value, " MB"
	}
	return value / 1024, " GB"
}
