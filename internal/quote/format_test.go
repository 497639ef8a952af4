package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleMessage() Message {
	m := Message{
		CaptureTime: time.Date(2011, 2, 16, 0, 0, 0, 500_000_000, time.UTC),
		AcceptTime:  time.Date(2011, 2, 15, 23, 59, 59, 900_000_000, time.UTC),
	}
	copy(m.IssueCode[:], "KR4101F30009")
	for i := 0; i < Depth; i++ {
		m.Bids[i] = Level{Price: Price(100 + i), Quantity: Quantity(1 + i)}
		m.Asks[i] = Level{Price: Price(105 + i), Quantity: Quantity(6 + i)}
	}
	return m
}

func TestAppendLine(t *testing.T) {
	want := "2011-02-16 00:00:00.500 2011-02-15 23:59:59.900 KR4101F30009" +
		" 5@104 4@103 3@102 2@101 1@100" +
		" 6@105 7@106 8@107 9@108 10@109"
	assert.Equal(t, want, sampleMessage().String())
}

func TestAppendTimestamp(t *testing.T) {
	base := time.Date(2011, 2, 16, 9, 0, 1, 0, time.UTC)
	tests := []struct {
		nanos int
		want  string
	}{
		{0, "2011-02-16 09:00:01"},
		{100_000_000, "2011-02-16 09:00:01.100"},
		{123_456_000, "2011-02-16 09:00:01.123456"},
		{5_000, "2011-02-16 09:00:01.000005"},
		{123_456_789, "2011-02-16 09:00:01.123456789"},
		{7, "2011-02-16 09:00:01.000000007"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := AppendTimestamp(nil, base.Add(time.Duration(tt.nanos)))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAppendTimestamp_ConvertsToUTC(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	got := AppendTimestamp(nil, time.Date(2011, 2, 16, 9, 0, 0, 0, kst))
	assert.Equal(t, "2011-02-16 00:00:00", string(got))
}

func TestMessage_EqualIndependentOfOrder(t *testing.T) {
	a := sampleMessage()
	b := sampleMessage()
	b.Asks[4].Quantity++

	assert.False(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(sampleMessage()))
}
