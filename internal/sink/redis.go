package sink

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/errors"

	"parsequote/internal/quote"
	"parsequote/pkg/exception"
)

const (
	defaultRedisBatch = 256
	redisKeyPrefix    = "quote:"
	redisChanPrefix   = "quotes."
)

// RedisClient is the part of a go-redis client the sink needs.
type RedisClient interface {
	Pipeline() redis.Pipeliner
}

// Redis keeps the latest top of book per issue in a hash and publishes every
// quote line on a per-issue channel.
type Redis struct {
	client  RedisClient
	batch   int
	pipe    redis.Pipeliner
	pending int
	line    []byte
	closed  bool
}

// NewRedis returns a sink that executes its pipeline every batch quotes.
func NewRedis(client RedisClient, batch int) (*Redis, error) {
	if client == nil {
		return nil, exception.ErrSinkNilClient
	}
	if batch <= 0 {
		batch = defaultRedisBatch
	}
	return &Redis{client: client, batch: batch}, nil
}

// RedisKey is the hash key holding the latest quote of issue.
func RedisKey(issue string) string {
	return redisKeyPrefix + issue
}

// RedisChannel is the pub/sub channel carrying the quote lines of issue.
func RedisChannel(issue string) string {
	return redisChanPrefix + issue
}

func (s *Redis) Emit(ctx context.Context, m quote.Message) error {
	if s.closed {
		return exception.ErrSinkClosed
	}
	if s.pipe == nil {
		s.pipe = s.client.Pipeline()
	}

	s.line = quote.AppendLine(s.line[:0], m)
	issue := issueKey(m)
	bid, ask := m.BestBid(), m.BestAsk()
	s.pipe.HSet(ctx, RedisKey(issue),
		"capture", string(quote.AppendTimestamp(nil, m.CaptureTime)),
		"accept", string(quote.AppendTimestamp(nil, m.AcceptTime)),
		"bid_price", strconv.FormatUint(uint64(bid.Price), 10),
		"bid_qty", strconv.FormatUint(uint64(bid.Quantity), 10),
		"ask_price", strconv.FormatUint(uint64(ask.Price), 10),
		"ask_qty", strconv.FormatUint(uint64(ask.Quantity), 10),
	)
	s.pipe.Publish(ctx, RedisChannel(issue), string(s.line))

	s.pending++
	if s.pending < s.batch {
		return nil
	}
	return s.Flush(ctx)
}

func (s *Redis) Flush(ctx context.Context) error {
	if s.pending == 0 {
		return nil
	}
	pipe := s.pipe
	n := s.pending
	s.pipe, s.pending = nil, 0
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "exec redis pipeline of %d quotes", n)
	}
	return nil
}

// Close flushes the pipeline. The client belongs to the caller.
func (s *Redis) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.Flush(ctx)
}
