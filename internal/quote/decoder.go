package quote

import (
	"bytes"
	"time"

	"github.com/yanun0323/errors"

	"parsequote/pkg/exception"
	"parsequote/pkg/scanner"
)

const tenthNanos = int64(100 * time.Millisecond)

// cursor walks a record window front to back.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) skip(n int) {
	c.off += n
}

func (c *cursor) take(n int) []byte {
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

// HasMarker reports whether a record window carries a B6034 message.
func HasMarker(window []byte) bool {
	if len(window) < PacketOffset+MarkerSize {
		return false
	}
	return bytes.Equal(window[PacketOffset:PacketOffset+MarkerSize], Marker[:])
}

// Decode parses a record window of RecordLength bytes that passed HasMarker.
// captureTime is the record's absolute capture time and rawSeconds its capture
// second before the container UTC offset, which is the domain reconciliation works in.
func Decode(window []byte, captureTime time.Time, rawSeconds int64) (Message, error) {
	if len(window) != RecordLength {
		return Message{}, errors.Wrapf(exception.ErrMalformedField, "record window is %d bytes, want %d", len(window), RecordLength)
	}

	c := cursor{buf: window}
	c.skip(PacketOffset + MarkerSize)

	msg := Message{CaptureTime: captureTime}

	code := c.take(IssueCodeSize)
	if !scanner.IsASCII(code) {
		return Message{}, errors.Wrapf(exception.ErrMalformedField, "issue code: % x", code)
	}
	copy(msg.IssueCode[:], code)

	c.skip(BidsGap)
	if err := decodeLevels(&c, msg.Bids[:]); err != nil {
		return Message{}, errors.Wrap(err, "decode bids")
	}
	c.skip(AsksGap)
	if err := decodeLevels(&c, msg.Asks[:]); err != nil {
		return Message{}, errors.Wrap(err, "decode asks")
	}
	c.skip(AcceptGap)

	secondsOfDay, nanos, err := parseAcceptTime(c.take(AcceptTimeSize))
	if err != nil {
		return Message{}, err
	}
	c.skip(TrailerSize)

	msg.AcceptTime, err = Reconcile(rawSeconds, secondsOfDay, nanos)
	if err != nil {
		return Message{}, errors.Wrap(err, "reconcile accept time")
	}
	return msg, nil
}

func decodeLevels(c *cursor, levels []Level) error {
	for i := range levels {
		field := c.take(LevelSize)
		price, ok := scanner.ParseUint32Digits(field[:PriceSize])
		if !ok {
			return errors.Wrapf(exception.ErrMalformedField, "level %d price: %q", i, field[:PriceSize])
		}
		qty, ok := scanner.ParseUint32Digits(field[PriceSize:])
		if !ok {
			return errors.Wrapf(exception.ErrMalformedField, "level %d quantity: %q", i, field[PriceSize:])
		}
		levels[i] = Level{Price: Price(price), Quantity: Quantity(qty)}
	}
	return nil
}

// parseAcceptTime reads HHMMSS, one filler byte and a tenths digit.
func parseAcceptTime(field []byte) (secondsOfDay int64, nanos int64, err error) {
	hh, okH := scanner.ParseDigits(field[0:2])
	mm, okM := scanner.ParseDigits(field[2:4])
	ss, okS := scanner.ParseDigits(field[4:6])
	tenths, okT := scanner.ParseDigits(field[7:8])
	if !okH || !okM || !okS || !okT || hh > 23 || mm > 59 || ss > 59 {
		return 0, 0, errors.Wrapf(exception.ErrMalformedField, "quote accept time: %q", field)
	}
	return int64(hh*3600 + mm*60 + ss), int64(tenths) * tenthNanos, nil
}
