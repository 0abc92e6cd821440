package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loanbook-worker/internal/pkg/config"
	"loanbook-worker/internal/pkg/log_messages"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/pkg/models"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// ProducerInterface defines the interface for Kafka producer operations.
type ProducerInterface interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaProducerInterface defines the interface for KafkaProducer.
type KafkaProducerInterface interface {
	Publish(ctx context.Context, key string, msg []byte) error
}

const defaultDeliveryTimeout = 10 * time.Second

// KafkaProducer manages Kafka producer lifecycle and publishing.
type KafkaProducer struct {
	producer        ProducerInterface
	topic           string
	deliveryTimeout time.Duration
}

// NewKafkaProducer creates and returns a new KafkaProducer instance
// bound to the charge event topic.
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Server,
		"security.protocol": cfg.SecurityProtocol,
		"sasl.mechanisms":   cfg.SASLMechanism,
		"sasl.username":     cfg.SASLUsername,
		"sasl.password":     cfg.SASLPassword,
		"client.id":         cfg.ClientID,
	}

	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info(log_messages.KafkaProducerCreated)

	return &KafkaProducer{
		producer:        producer,
		topic:           cfg.ChargeEventTopic,
		deliveryTimeout: defaultDeliveryTimeout,
	}, nil
}

// NewKafkaProducerWithProducer allows injecting a producer for testing.
func NewKafkaProducerWithProducer(producer ProducerInterface, topic string) *KafkaProducer {
	return &KafkaProducer{
		producer:        producer,
		topic:           topic,
		deliveryTimeout: defaultDeliveryTimeout,
	}
}

// Publish sends a keyed message to the charge event topic and waits for
// the delivery report. Keying by customer keeps one customer's events
// on one partition.
func (kp *KafkaProducer) Publish(ctx context.Context, key string, msg []byte) error {
	// Never closed: the event goroutine may deliver a report after the
	// timeout below, and a send on a closed channel would crash the
	// process. The buffered channel is left for the GC.
	deliveryChan := make(chan kafka.Event, 1)

	err := kp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          msg,
	}, deliveryChan)

	if err != nil {
		logger.CtxError(ctx, "Failed to produce Kafka message", err)
		return err
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type")
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
	case <-time.After(kp.deliveryTimeout):
		return fmt.Errorf("timeout waiting for Kafka delivery report")
	}

	return nil
}

// Close flushes and closes the Kafka producer.
func (kp *KafkaProducer) Close() error {
	kp.producer.Flush(5000)
	kp.producer.Close()
	return nil
}

// ChargeEventProducer serializes interest charge events onto Kafka.
type ChargeEventProducer struct {
	producer KafkaProducerInterface
}

func NewChargeEventProducer(producer KafkaProducerInterface) *ChargeEventProducer {
	return &ChargeEventProducer{producer: producer}
}

func (p *ChargeEventProducer) PublishChargeEvent(ctx context.Context,
	event models.InterestChargeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal charge event: %w", err)
	}
	return p.producer.Publish(ctx, event.CustomerID, payload)
}
