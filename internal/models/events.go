package models

import "time"

// Event types
const (
	EventTypeItemAdded            = "ITEM_ADDED"
	EventTypeItemRemoved          = "ITEM_REMOVED"
	EventTypeQuantityUpdated      = "QUANTITY_UPDATED"
	EventTypeCartCleared          = "CART_CLEARED"
	EventTypeCheckoutStarted      = "CHECKOUT_STARTED"
	EventTypeNewsletterSubscribed = "NEWSLETTER_SUBSCRIBED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemAddedEvent published when an item joins a cart or its quantity grows
type ItemAddedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	Kind      string `json:"kind"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// ItemRemovedEvent published when a line leaves a cart
type ItemRemovedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
}

// QuantityUpdatedEvent published when a line quantity is set directly
type QuantityUpdatedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
}

// CartClearedEvent published when a cart is emptied
type CartClearedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
}

// CheckoutStartedEvent published by the checkout stub; no order follows
type CheckoutStartedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Total     int64  `json:"total"`
	Count     int    `json:"count"`
	Savings   int64  `json:"savings"`
}

// NewsletterSubscribedEvent published after a subscribe request resolves
type NewsletterSubscribedEvent struct {
	BaseEvent
	Email string `json:"email"`
}
