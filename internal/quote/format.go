package quote

import (
	"strconv"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// AppendLine appends the text form of m:
// capture time, accept time, issue code, bids best first, then asks best first.
// Each level prints as quantity@price.
func AppendLine(buf []byte, m Message) []byte {
	appendLevel := func(buf []byte, l Level) []byte {
		buf = append(buf, ' ')
		buf = l.Quantity.AppendString(buf)
		buf = append(buf, '@')
		return l.Price.AppendString(buf)
	}

	buf = AppendTimestamp(buf, m.CaptureTime)
	buf = append(buf, ' ')
	buf = AppendTimestamp(buf, m.AcceptTime)
	buf = append(buf, ' ')
	buf = append(buf, m.IssueCode[:]...)
	for i := Depth - 1; i >= 0; i-- {
		buf = appendLevel(buf, m.Bids[i])
	}
	for i := 0; i < Depth; i++ {
		buf = appendLevel(buf, m.Asks[i])
	}
	return buf
}

// AppendTimestamp renders t in UTC as "YYYY-MM-DD HH:MM:SS" plus a fraction when
// non-zero: milliseconds, microseconds or nanoseconds, whichever is exact.
func AppendTimestamp(buf []byte, t time.Time) []byte {
	t = t.UTC()
	buf = t.AppendFormat(buf, timestampLayout)

	nanos := t.Nanosecond()
	switch {
	case nanos == 0:
		return buf
	case nanos%1_000_000 == 0:
		return appendFraction(buf, nanos/1_000_000, 3)
	case nanos%1_000 == 0:
		return appendFraction(buf, nanos/1_000, 6)
	default:
		return appendFraction(buf, nanos, 9)
	}
}

func appendFraction(buf []byte, v int, width int) []byte {
	var tmp [10]byte
	digits := strconv.AppendInt(tmp[:0], int64(v), 10)
	buf = append(buf, '.')
	for i := len(digits); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, digits...)
}

// String returns the text line of m.
func (m Message) String() string {
	return string(AppendLine(make([]byte, 0, 192), m))
}
