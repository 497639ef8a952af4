package conn

import (
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/yanun0323/errors"
)

const (
	defaultKafkaBatchSize    = 100
	defaultKafkaBatchTimeout = 10 * time.Millisecond
)

// KafkaOption defines producer options for Kafka.
type KafkaOption struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

// NewKafkaWriter creates a synchronous Kafka writer. Messages with the same key
// land on the same partition.
func NewKafkaWriter(option KafkaOption) (*kafka.Writer, error) {
	if len(option.Brokers) == 0 {
		return nil, errors.New("kafka brokers cannot be empty")
	}
	if option.Topic == "" {
		return nil, errors.New("kafka topic cannot be empty")
	}

	batchSize := option.BatchSize
	if batchSize <= 0 {
		batchSize = defaultKafkaBatchSize
	}
	batchTimeout := option.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultKafkaBatchTimeout
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(option.Brokers...),
		Topic:        option.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireOne,
	}, nil
}
