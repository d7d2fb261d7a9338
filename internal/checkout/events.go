package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gpubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/pkg/pubsub"
)

// OrderPlacedEvent is the message published after a checkout commits.
type OrderPlacedEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	UserID      uuid.UUID `json:"userId"`
	TotalAmount float64   `json:"totalAmount"`
	Split       Split     `json:"split"`
	PlacedAt    time.Time `json:"placedAt"`
}

const eventOrderPlaced = "order.created"

// PubSubPublisher emits order events on the configured Pub/Sub topic.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPubSubPublisher wraps the shared Pub/Sub client. Returns nil when
// eventing is disabled so callers can skip publishing entirely.
func NewPubSubPublisher(client *pubsub.Client) *PubSubPublisher {
	if client == nil {
		return nil
	}
	return &PubSubPublisher{client: client}
}

// PublishOrderPlaced sends the event and waits for the server ack. A nil
// receiver can still satisfy the EventPublisher interface, so it is guarded
// here rather than left to panic.
func (p *PubSubPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	if p == nil || p.client == nil {
		return errors.New("order eventing disabled")
	}
	publisher := p.client.OrderPublisher()
	if publisher == nil {
		return errors.New("order topic not configured")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	result := publisher.Publish(ctx, &gpubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event": eventOrderPlaced},
	})
	_, err = result.Get(ctx)
	return err
}
