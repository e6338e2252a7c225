package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"wb-parser-bot/internal/logger"
	"wb-parser-bot/internal/model"

	"github.com/IBM/sarama"
)

// MaxMessageBytes bounds a single FetchResult. Results carry the raw page HTML,
// which regularly exceeds sarama's 1MB default; the topic's max.message.bytes must allow it too.
const MaxMessageBytes = 8 << 20

func newProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.MaxMessageBytes = MaxMessageBytes
	cfg.Producer.Compression = sarama.CompressionSnappy
	return cfg
}

type Producer interface {
	Send(result model.FetchResult) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Logger
}

// NewProducer creates a new KafkaProducer backed by a sarama SyncProducer.
// brokers is a slice of broker host:port strings, e.g. []string{"localhost:9092"}.
// topic is the target Kafka topic name.
func NewProducer(brokers []string, topic string, logger logger.Logger) (*KafkaProducer, error) {
	p, err := sarama.NewSyncProducer(brokers, newProducerConfig())
	if err != nil {
		logger.Errorf("Failed to create Kafka producer: %v", err)
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Infof("Kafka producer created. Brokers: %v, Topic: %s", brokers, topic)

	return &KafkaProducer{
		producer: p,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Send publishes a single FetchResult, keyed by the product URL.
func (p *KafkaProducer) Send(result model.FetchResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		p.logger.Errorf("Failed to marshal fetch result: %v", err)
		return fmt.Errorf("failed to marshal fetch result: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(result.URL),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("marketplace"), Value: []byte("wildberries")},
			{Key: []byte("success"), Value: []byte(strconv.FormatBool(result.Success))},
			{Key: []byte("timestamp"), Value: []byte(result.Timestamp.Format(time.RFC3339))},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Errorf("Failed to send message: %v", err)
		return err
	}

	p.logger.Infof("Message sent to partition %d at offset %d", partition, offset)
	return nil
}

// Close flushes pending messages and closes the producer.
func (p *KafkaProducer) Close() error {
	p.logger.Infof("Closing producer...")
	return p.producer.Close()
}
