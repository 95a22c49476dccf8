package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// Publisher is the interface the service layer publishes through. The
// no-op implementation stands in when kafka is disabled; storefront
// behavior is identical either way.
type Publisher interface {
	PublishItemAdded(ctx context.Context, event *models.ItemAddedEvent) error
	PublishItemRemoved(ctx context.Context, event *models.ItemRemovedEvent) error
	PublishQuantityUpdated(ctx context.Context, event *models.QuantityUpdatedEvent) error
	PublishCartCleared(ctx context.Context, event *models.CartClearedEvent) error
	PublishCheckoutStarted(ctx context.Context, event *models.CheckoutStartedEvent) error
	PublishNewsletterSubscribed(ctx context.Context, event *models.NewsletterSubscribedEvent) error
}

// EventPublisher publishes storefront analytics events to Kafka
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishItemAdded publishes ItemAdded event
func (ep *EventPublisher) PublishItemAdded(ctx context.Context, event *models.ItemAddedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishItemRemoved publishes ItemRemoved event
func (ep *EventPublisher) PublishItemRemoved(ctx context.Context, event *models.ItemRemovedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishQuantityUpdated publishes QuantityUpdated event
func (ep *EventPublisher) PublishQuantityUpdated(ctx context.Context, event *models.QuantityUpdatedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishCartCleared publishes CartCleared event
func (ep *EventPublisher) PublishCartCleared(ctx context.Context, event *models.CartClearedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishCheckoutStarted publishes CheckoutStarted event
func (ep *EventPublisher) PublishCheckoutStarted(ctx context.Context, event *models.CheckoutStartedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishNewsletterSubscribed publishes NewsletterSubscribed event
func (ep *EventPublisher) PublishNewsletterSubscribed(ctx context.Context, event *models.NewsletterSubscribedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("newsletter-%s", event.Email), event)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// NoopPublisher discards all events
type NoopPublisher struct{}

func (NoopPublisher) PublishItemAdded(context.Context, *models.ItemAddedEvent) error { return nil }
func (NoopPublisher) PublishItemRemoved(context.Context, *models.ItemRemovedEvent) error {
	return nil
}
func (NoopPublisher) PublishQuantityUpdated(context.Context, *models.QuantityUpdatedEvent) error {
	return nil
}
func (NoopPublisher) PublishCartCleared(context.Context, *models.CartClearedEvent) error {
	return nil
}
func (NoopPublisher) PublishCheckoutStarted(context.Context, *models.CheckoutStartedEvent) error {
	return nil
}
func (NoopPublisher) PublishNewsletterSubscribed(context.Context, *models.NewsletterSubscribedEvent) error {
	return nil
}

// EventHandler routes consumed events to registered callbacks
type EventHandler struct {
	onItemAdded            func(context.Context, *models.ItemAddedEvent) error
	onItemRemoved          func(context.Context, *models.ItemRemovedEvent) error
	onQuantityUpdated      func(context.Context, *models.QuantityUpdatedEvent) error
	onCartCleared          func(context.Context, *models.CartClearedEvent) error
	onCheckoutStarted      func(context.Context, *models.CheckoutStartedEvent) error
	onNewsletterSubscribed func(context.Context, *models.NewsletterSubscribedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnItemAdded registers a handler for ItemAdded events
func (eh *EventHandler) OnItemAdded(handler func(context.Context, *models.ItemAddedEvent) error) {
	eh.onItemAdded = handler
}

// OnItemRemoved registers a handler for ItemRemoved events
func (eh *EventHandler) OnItemRemoved(handler func(context.Context, *models.ItemRemovedEvent) error) {
	eh.onItemRemoved = handler
}

// OnQuantityUpdated registers a handler for QuantityUpdated events
func (eh *EventHandler) OnQuantityUpdated(handler func(context.Context, *models.QuantityUpdatedEvent) error) {
	eh.onQuantityUpdated = handler
}

// OnCartCleared registers a handler for CartCleared events
func (eh *EventHandler) OnCartCleared(handler func(context.Context, *models.CartClearedEvent) error) {
	eh.onCartCleared = handler
}

// OnCheckoutStarted registers a handler for CheckoutStarted events
func (eh *EventHandler) OnCheckoutStarted(handler func(context.Context, *models.CheckoutStartedEvent) error) {
	eh.onCheckoutStarted = handler
}

// OnNewsletterSubscribed registers a handler for NewsletterSubscribed events
func (eh *EventHandler) OnNewsletterSubscribed(handler func(context.Context, *models.NewsletterSubscribedEvent) error) {
	eh.onNewsletterSubscribed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeItemAdded:
		if eh.onItemAdded != nil {
			var event models.ItemAddedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ItemAdded event: %w", err)
			}
			return eh.onItemAdded(ctx, &event)
		}

	case models.EventTypeItemRemoved:
		if eh.onItemRemoved != nil {
			var event models.ItemRemovedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ItemRemoved event: %w", err)
			}
			return eh.onItemRemoved(ctx, &event)
		}

	case models.EventTypeQuantityUpdated:
		if eh.onQuantityUpdated != nil {
			var event models.QuantityUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal QuantityUpdated event: %w", err)
			}
			return eh.onQuantityUpdated(ctx, &event)
		}

	case models.EventTypeCartCleared:
		if eh.onCartCleared != nil {
			var event models.CartClearedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CartCleared event: %w", err)
			}
			return eh.onCartCleared(ctx, &event)
		}

	case models.EventTypeCheckoutStarted:
		if eh.onCheckoutStarted != nil {
			var event models.CheckoutStartedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutStarted event: %w", err)
			}
			return eh.onCheckoutStarted(ctx, &event)
		}

	case models.EventTypeNewsletterSubscribed:
		if eh.onNewsletterSubscribed != nil {
			var event models.NewsletterSubscribedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal NewsletterSubscribed event: %w", err)
			}
			return eh.onNewsletterSubscribed(ctx, &event)
		}

	default:
		log.Printf("Unknown event type: %s", baseEvent.EventType)
	}

	return nil
}
