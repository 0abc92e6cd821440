package interfaces

import (
	"context"
	"time"

	"loanbook-worker/internal/pkg/models"
)

// ChargeEventProducerInterface publishes one event per successful charge.
type ChargeEventProducerInterface interface {
	PublishChargeEvent(ctx context.Context, event models.InterestChargeEvent) error
}

// RuntimePubSubPublisher publishes run summaries to the ops topic.
type RuntimePubSubPublisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// PublisherInterface defines the methods we need from pubsub.Publisher.
type PublisherInterface interface {
	Publish(ctx context.Context, msg []byte) error
}

// PubSubPublisherClientInterface defines the methods we need from
// pubsub.Client for publishing.
type PubSubPublisherClientInterface interface {
	Publisher(topic string) PublisherInterface
	Close() error
}

// RunMarkerInterface is a best-effort advisory marker used to spot
// duplicate scheduler fires. It is never a correctness mechanism; the
// store-level check-and-set is.
type RunMarkerInterface interface {
	TryMarkRun(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
