package sink

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/yanun0323/errors"

	"parsequote/internal/quote"
	"parsequote/pkg/exception"
)

const defaultKafkaBatch = 100

// KafkaWriter is the part of *kafka.Writer the sink needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Kafka produces one message per quote, keyed by issue code, with the quote
// line as value.
type Kafka struct {
	writer  KafkaWriter
	batch   int
	pending []kafka.Message
	closed  bool
}

// NewKafka returns a sink that writes every batch quotes.
func NewKafka(writer KafkaWriter, batch int) (*Kafka, error) {
	if writer == nil {
		return nil, exception.ErrSinkNilClient
	}
	if batch <= 0 {
		batch = defaultKafkaBatch
	}
	return &Kafka{writer: writer, batch: batch, pending: make([]kafka.Message, 0, batch)}, nil
}

func (s *Kafka) Emit(ctx context.Context, m quote.Message) error {
	if s.closed {
		return exception.ErrSinkClosed
	}
	s.pending = append(s.pending, kafka.Message{
		Key:   []byte(issueKey(m)),
		Value: quote.AppendLine(nil, m),
		Time:  m.AcceptTime,
	})
	if len(s.pending) < s.batch {
		return nil
	}
	return s.Flush(ctx)
}

func (s *Kafka) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.writer.WriteMessages(ctx, s.pending...); err != nil {
		return errors.Wrapf(err, "write %d kafka messages", len(s.pending))
	}
	s.pending = s.pending[:0]
	return nil
}

// Close flushes pending messages. The writer belongs to the caller.
func (s *Kafka) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.Flush(ctx)
}
