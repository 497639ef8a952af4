package sink

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsequote/internal/quote"
	"parsequote/pkg/exception"
)

func newMessage(issue string, second int) quote.Message {
	m := quote.Message{
		CaptureTime: time.Date(2011, 2, 16, 0, 0, second, 500_000_000, time.UTC),
		AcceptTime:  time.Date(2011, 2, 16, 0, 0, second, 100_000_000, time.UTC),
	}
	copy(m.IssueCode[:], issue+strings.Repeat(" ", quote.IssueCodeSize))
	for i := 0; i < quote.Depth; i++ {
		m.Bids[i] = quote.Level{Price: quote.Price(95 + i), Quantity: quote.Quantity(10 * (i + 1))}
		m.Asks[i] = quote.Level{Price: quote.Price(101 + i), Quantity: quote.Quantity(20 * (i + 1))}
	}
	return m
}

func TestLine(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	s := NewLine(&out)

	m1, m2 := newMessage("KR4101F30009", 1), newMessage("KR4101F60006", 2)
	require.NoError(t, s.Emit(ctx, m1))
	require.NoError(t, s.Emit(ctx, m2))
	assert.Empty(t, out.String())

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, m1.String()+"\n"+m2.String()+"\n", out.String())
	assert.ErrorIs(t, s.Emit(ctx, m1), exception.ErrSinkClosed)
	assert.NoError(t, s.Close(ctx))
}

func TestNewQuoteRow(t *testing.T) {
	m := newMessage("KR4101F30009", 1)
	row := NewQuoteRow(m)
	assert.Equal(t, "KR4101F30009", row.IssueCode)
	assert.Equal(t, m.CaptureTime, row.CaptureTime)
	assert.Equal(t, m.AcceptTime, row.AcceptTime)
	assert.Equal(t, uint32(99), row.BidPrice1)
	assert.Equal(t, uint32(50), row.BidQty1)
	assert.Equal(t, uint32(95), row.BidPrice5)
	assert.Equal(t, uint32(101), row.AskPrice1)
	assert.Equal(t, uint32(20), row.AskQty1)
	assert.Equal(t, uint32(105), row.AskPrice5)
	assert.Equal(t, "quotes", row.TableName())
}

func TestNilClients(t *testing.T) {
	_, err := NewPostgres(context.Background(), nil, 0)
	assert.ErrorIs(t, err, exception.ErrSinkNilClient)
	_, err = NewRedis(nil, 0)
	assert.ErrorIs(t, err, exception.ErrSinkNilClient)
	_, err = NewKafka(nil, 0)
	assert.ErrorIs(t, err, exception.ErrSinkNilClient)
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sub := rdb.Subscribe(ctx, RedisChannel("KR4101F30009"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	s, err := NewRedis(rdb, 2)
	require.NoError(t, err)

	m1 := newMessage("KR4101F30009", 1)
	require.NoError(t, s.Emit(ctx, m1))
	assert.False(t, mr.Exists(RedisKey("KR4101F30009")), "pipeline executes on full batch")

	m2 := newMessage("KR4101F30009", 2)
	require.NoError(t, s.Emit(ctx, m2))
	assert.Equal(t, "2011-02-16 00:00:02.100", mr.HGet(RedisKey("KR4101F30009"), "accept"))
	assert.Equal(t, "99", mr.HGet(RedisKey("KR4101F30009"), "bid_price"))
	assert.Equal(t, "101", mr.HGet(RedisKey("KR4101F30009"), "ask_price"))

	ch := sub.Channel()
	for _, want := range []quote.Message{m1, m2} {
		select {
		case msg := <-ch:
			assert.Equal(t, want.String(), msg.Payload)
		case <-time.After(2 * time.Second):
			t.Fatal("no published quote")
		}
	}

	m3 := newMessage("KR4101F60006", 3)
	require.NoError(t, s.Emit(ctx, m3))
	require.NoError(t, s.Close(ctx))
	assert.Equal(t, "80", mr.HGet(RedisKey("KR4101F60006"), "ask_qty"))
	assert.ErrorIs(t, s.Emit(ctx, m3), exception.ErrSinkClosed)
}

type fakeKafkaWriter struct {
	batches [][]kafka.Message
	err     error
}

func (w *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, append([]kafka.Message(nil), msgs...))
	return nil
}

func TestKafka(t *testing.T) {
	ctx := context.Background()
	w := &fakeKafkaWriter{}
	s, err := NewKafka(w, 2)
	require.NoError(t, err)

	m1, m2, m3 := newMessage("KR4101F30009", 1), newMessage("KR4101F60006", 2), newMessage("KR4101F30009", 3)
	require.NoError(t, s.Emit(ctx, m1))
	assert.Empty(t, w.batches)
	require.NoError(t, s.Emit(ctx, m2))
	require.Len(t, w.batches, 1)
	require.NoError(t, s.Emit(ctx, m3))
	require.NoError(t, s.Close(ctx))
	require.Len(t, w.batches, 2)

	first := w.batches[0]
	assert.Equal(t, "KR4101F30009", string(first[0].Key))
	assert.Equal(t, m1.String(), string(first[0].Value))
	assert.Equal(t, "KR4101F60006", string(first[1].Key))
	assert.Equal(t, m3.String(), string(w.batches[1][0].Value))
}

func TestKafka_WriteError(t *testing.T) {
	w := &fakeKafkaWriter{err: assert.AnError}
	s, err := NewKafka(w, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Emit(context.Background(), newMessage("KR4101F30009", 1)), assert.AnError)
}

type recordSink struct {
	emitted []quote.Message
	err     error
	closed  bool
}

func (s *recordSink) Emit(_ context.Context, m quote.Message) error {
	if s.err != nil {
		return s.err
	}
	s.emitted = append(s.emitted, m)
	return nil
}

func (s *recordSink) Flush(context.Context) error { return nil }

func (s *recordSink) Close(context.Context) error {
	s.closed = true
	return s.err
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a, b := &recordSink{}, &recordSink{}
	m := Multi{a, b}
	msg := newMessage("KR4101F30009", 1)
	require.NoError(t, m.Emit(ctx, msg))
	assert.Len(t, a.emitted, 1)
	assert.Len(t, b.emitted, 1)

	failing, after := &recordSink{err: assert.AnError}, &recordSink{}
	m = Multi{failing, after}
	assert.ErrorIs(t, m.Emit(ctx, msg), assert.AnError)
	assert.Empty(t, after.emitted)

	assert.ErrorIs(t, m.Close(ctx), assert.AnError)
	assert.True(t, after.closed)
}
