package quote_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsequote/internal/capturegen"
	"parsequote/internal/quote"
	"parsequote/pkg/exception"
)

var captured = time.Date(2011, 2, 16, 0, 30, 0, 250_000_000, time.UTC)

func sampleQuote() capturegen.Quote {
	q := capturegen.Quote{
		IssueCode:  "KR4101F30009",
		AcceptTime: captured.Add(-1200 * time.Millisecond),
	}
	for i := 0; i < quote.Depth; i++ {
		q.Bids[i] = quote.Level{Price: quote.Price(230 + i), Quantity: quote.Quantity(10 * (i + 1))}
		q.Asks[i] = quote.Level{Price: quote.Price(235 + i), Quantity: quote.Quantity(1000000 + i)}
	}
	return q
}

// recordWindow prefixes a UDP payload with the original length field and the
// link, network and transport headers the decoder skips.
func recordWindow(payload []byte) []byte {
	return append(make([]byte, quote.PacketOffset), payload...)
}

func TestDecode(t *testing.T) {
	q := sampleQuote()
	window := recordWindow(capturegen.EncodePayload(q))
	require.Len(t, window, quote.RecordLength)
	require.True(t, quote.HasMarker(window))

	msg, err := quote.Decode(window, captured, captured.Unix())
	require.NoError(t, err)
	assert.Equal(t, "KR4101F30009", msg.IssueCode.String())
	assert.Equal(t, q.Bids, msg.Bids)
	assert.Equal(t, q.Asks, msg.Asks)
	assert.Equal(t, captured, msg.CaptureTime)
	assert.Equal(t, time.Date(2011, 2, 16, 0, 29, 59, 0, time.UTC), msg.AcceptTime)
	assert.Equal(t, quote.Level{Price: 234, Quantity: 50}, msg.BestBid())
	assert.Equal(t, quote.Level{Price: 235, Quantity: 1000000}, msg.BestAsk())
}

func TestDecode_MalformedFields(t *testing.T) {
	bidsStart := quote.PacketOffset + quote.MarkerSize + quote.IssueCodeSize + quote.BidsGap
	asksStart := bidsStart + quote.Depth*quote.LevelSize + quote.AsksGap
	acceptStart := asksStart + quote.Depth*quote.LevelSize + quote.AcceptGap

	tests := []struct {
		name   string
		offset int
		value  byte
	}{
		{"non ascii issue code", quote.PacketOffset + quote.MarkerSize + 3, 0xc8},
		{"bid price letter", bidsStart + 2, 'X'},
		{"bid quantity space", bidsStart + quote.PriceSize + 1, ' '},
		{"ask price non ascii", asksStart + 4*quote.LevelSize, 0xff},
		{"ask quantity sign", asksStart + quote.PriceSize, '-'},
		{"accept hour", acceptStart, '9'},
		{"accept tenths", acceptStart + 7, ':'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := recordWindow(capturegen.EncodePayload(sampleQuote()))
			window[tt.offset] = tt.value
			_, err := quote.Decode(window, captured, captured.Unix())
			require.Error(t, err)
			assert.True(t, errors.Is(err, exception.ErrMalformedField), "got %v", err)
		})
	}
}

func TestDecode_WrongWindowSize(t *testing.T) {
	window := recordWindow(capturegen.EncodePayload(sampleQuote()))
	_, err := quote.Decode(window[:len(window)-1], captured, captured.Unix())
	assert.True(t, errors.Is(err, exception.ErrMalformedField))
}

func TestHasMarker(t *testing.T) {
	q := sampleQuote()
	q.Marker = [quote.MarkerSize]byte{'B', '6', '0', '1', '4'}
	assert.False(t, quote.HasMarker(recordWindow(capturegen.EncodePayload(q))))
	assert.False(t, quote.HasMarker(bytes.Repeat([]byte{'B'}, 10)))
}
