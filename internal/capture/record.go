package capture

import (
	"time"

	"github.com/yanun0323/errors"

	"parsequote/pkg/exception"
)

const (
	// recordHeaderSize covers the three fields read before the record window:
	// seconds, sub-seconds and stored length.
	recordHeaderSize = 12

	// lengthAdjust is added to the stored length. The original length field is
	// left unread, so the window starts with it.
	lengthAdjust = 4

	nanosPerSecond = int64(time.Second)
)

// Record is one framed capture record.
type Record struct {
	// Seconds is the raw capture second, before the UTC offset is applied.
	Seconds int64
	// SubSeconds is the raw sub-second field in the container's unit.
	SubSeconds int64
	// Length is the effective window length: stored length plus four.
	Length int64
}

// CaptureSeconds is the capture second shifted by the container UTC offset.
func (r Record) CaptureSeconds(ctx Context) int64 {
	return r.Seconds + ctx.UTCOffset
}

// Timestamp builds the absolute capture time of the record.
func (r Record) Timestamp(ctx Context) (time.Time, error) {
	return NewTimestamp(r.CaptureSeconds(ctx), r.SubSeconds*ctx.UnitScale)
}

// NewTimestamp builds a UTC time from unix seconds and nanoseconds,
// rejecting values outside the representable calendar range.
func NewTimestamp(seconds, nanos int64) (time.Time, error) {
	if nanos < 0 || nanos >= nanosPerSecond {
		return time.Time{}, errors.Wrapf(exception.ErrInvalidTimestamp, "seconds: %d, nanos: %d", seconds, nanos)
	}
	t := time.Unix(seconds, nanos).UTC()
	if year := t.Year(); year < 0 || year > 9999 {
		return time.Time{}, errors.Wrapf(exception.ErrInvalidTimestamp, "seconds: %d, nanos: %d", seconds, nanos)
	}
	return t, nil
}
