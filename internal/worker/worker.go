package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

// AnalyticsWorker consumes storefront events and turns them into
// per-item metrics. It never feeds back into cart or catalog state.
type AnalyticsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(consumer *broker.Consumer) *AnalyticsWorker {
	return &AnalyticsWorker{
		consumer:     consumer,
		eventHandler: NewAnalyticsHandler(),
	}
}

// NewAnalyticsHandler builds the event handler the worker consumes with.
// Every event type is counted; item adds are additionally tracked per
// catalog item.
func NewAnalyticsHandler() *broker.EventHandler {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnItemAdded(func(_ context.Context, event *models.ItemAddedEvent) error {
		util.EventsObservedTotal.WithLabelValues(event.EventType).Inc()
		util.CartItemAddsByID.WithLabelValues(event.ItemID, event.Kind).Inc()
		return nil
	})

	eventHandler.OnItemRemoved(func(_ context.Context, event *models.ItemRemovedEvent) error {
		util.EventsObservedTotal.WithLabelValues(event.EventType).Inc()
		return nil
	})

	eventHandler.OnQuantityUpdated(func(_ context.Context, event *models.QuantityUpdatedEvent) error {
		util.EventsObservedTotal.WithLabelValues(event.EventType).Inc()
		return nil
	})

	eventHandler.OnCartCleared(func(_ context.Context, event *models.CartClearedEvent) error {
		util.EventsObservedTotal.WithLabelValues(event.EventType).Inc()
		return nil
	})

	eventHandler.OnCheckoutStarted(func(_ context.Context, event *models.CheckoutStartedEvent) error {
		util.EventsObservedTotal.WithLabelValues(event.EventType).Inc()
		log.Printf("Checkout observed: session=%s total=%d count=%d",
			event.SessionID, event.Total, event.Count)
		return nil
	})

	eventHandler.OnNewsletterSubscribed(func(_ context.Context, event *models.NewsletterSubscribedEvent) error {
		util.EventsObservedTotal.WithLabelValues(event.EventType).Inc()
		return nil
	})

	return eventHandler
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	log.Println("Starting analytics worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	log.Println("Stopping analytics worker...")
	return w.consumer.Close()
}
