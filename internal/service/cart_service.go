package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrItemNotFound is returned when an AddItem request names an id that
// exists in neither the product nor the bundle collection.
var ErrItemNotFound = errors.New("item not found in catalog")

// CartService owns cart state transitions for all sessions. State lives in
// the session store; every command loads, applies the pure transition and
// saves back, so derived totals can never drift from state.
type CartService struct {
	sessions session.Store
	catalog  *catalog.Store
	events   broker.Publisher
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(sessions session.Store, store *catalog.Store, events broker.Publisher) *CartService {
	return &CartService{
		sessions: sessions,
		catalog:  store,
		events:   events,
		logger:   util.GetLogger(),
	}
}

// CartView is the cart state plus its derived totals, recomputed on every
// request.
type CartView struct {
	Lines   []models.CartLine `json:"lines"`
	IsOpen  bool              `json:"isOpen"`
	Total   int64             `json:"total"`
	Count   int               `json:"count"`
	Savings int64             `json:"savings"`
}

func view(state cart.State) CartView {
	lines := state.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartView{
		Lines:   lines,
		IsOpen:  state.IsOpen,
		Total:   cart.Total(state),
		Count:   cart.Count(state),
		Savings: cart.Savings(state),
	}
}

// GetCart returns the current cart for a session.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return view(state), nil
}

// AddItem adds a product or bundle to the cart, incrementing the quantity
// when a line for the id already exists.
func (s *CartService) AddItem(ctx context.Context, sessionID, itemID, kind string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	var cmd cart.Command
	var unitPrice int64

	switch kind {
	case models.KindBundle:
		bundle, ok := s.catalog.BundleByID(itemID)
		if !ok {
			return CartView{}, ErrItemNotFound
		}
		cmd = cart.AddBundle(bundle)
		unitPrice = bundle.Price
	default:
		product, ok := s.catalog.ProductByID(itemID)
		if !ok {
			return CartView{}, ErrItemNotFound
		}
		cmd = cart.AddProduct(product)
		unitPrice = product.Price
		kind = models.KindProduct
	}

	_, state, err := s.apply(ctx, sessionID, cmd)
	if err != nil {
		return CartView{}, err
	}

	util.CartItemsAddedTotal.WithLabelValues(kind).Inc()

	event := &models.ItemAddedEvent{
		BaseEvent: baseEvent(models.EventTypeItemAdded),
		SessionID: sessionID,
		ItemID:    itemID,
		Kind:      kind,
		Quantity:  quantityOf(state, itemID),
		UnitPrice: unitPrice,
	}
	if err := s.events.PublishItemAdded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ItemAdded event", zap.Error(err))
	}

	return view(state), nil
}

// RemoveItem deletes the line with the given id; absent ids are no-ops.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	prev, state, err := s.apply(ctx, sessionID, cart.RemoveItem(itemID))
	if err != nil {
		return CartView{}, err
	}

	// Removing an id that was never in the cart changes nothing and is
	// not worth an analytics event.
	if quantityOf(prev, itemID) > 0 {
		event := &models.ItemRemovedEvent{
			BaseEvent: baseEvent(models.EventTypeItemRemoved),
			SessionID: sessionID,
			ItemID:    itemID,
		}
		if err := s.events.PublishItemRemoved(ctx, event); err != nil {
			s.logger.Error("Failed to publish ItemRemoved event", zap.Error(err))
		}
	}

	return view(state), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	prev, state, err := s.apply(ctx, sessionID, cart.UpdateQuantity(itemID, quantity))
	if err != nil {
		return CartView{}, err
	}

	if quantityOf(prev, itemID) > 0 {
		event := &models.QuantityUpdatedEvent{
			BaseEvent: baseEvent(models.EventTypeQuantityUpdated),
			SessionID: sessionID,
			ItemID:    itemID,
			Quantity:  quantity,
		}
		if err := s.events.PublishQuantityUpdated(ctx, event); err != nil {
			s.logger.Error("Failed to publish QuantityUpdated event", zap.Error(err))
		}
	}

	return view(state), nil
}

// ToggleCart flips the drawer open state.
func (s *CartService) ToggleCart(ctx context.Context, sessionID string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.ToggleCart")
	defer span.End()

	_, state, err := s.apply(ctx, sessionID, cart.ToggleCart())
	if err != nil {
		return CartView{}, err
	}
	return view(state), nil
}

// ClearCart empties the cart lines, leaving the drawer state alone.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.ClearCart")
	defer span.End()

	_, state, err := s.apply(ctx, sessionID, cart.ClearCart())
	if err != nil {
		return CartView{}, err
	}

	event := &models.CartClearedEvent{
		BaseEvent: baseEvent(models.EventTypeCartCleared),
		SessionID: sessionID,
	}
	if err := s.events.PublishCartCleared(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartCleared event", zap.Error(err))
	}

	return view(state), nil
}

// Checkout is a stub: it reports the cart totals and emits an analytics
// event. No order is created and no payment happens.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Checkout")
	defer span.End()

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	v := view(state)
	util.CheckoutsStartedTotal.Inc()
	s.logger.Info("Checkout started",
		zap.String("session_id", sessionID),
		zap.Int64("total", v.Total),
		zap.Int("count", v.Count))

	event := &models.CheckoutStartedEvent{
		BaseEvent: baseEvent(models.EventTypeCheckoutStarted),
		SessionID: sessionID,
		Total:     v.Total,
		Count:     v.Count,
		Savings:   v.Savings,
	}
	if err := s.events.PublishCheckoutStarted(ctx, event); err != nil {
		s.logger.Error("Failed to publish CheckoutStarted event", zap.Error(err))
	}

	return v, nil
}

func (s *CartService) load(ctx context.Context, sessionID string) (cart.State, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		util.SessionLoadsTotal.WithLabelValues("error").Inc()
		return cart.Initial(), fmt.Errorf("failed to load cart session: %w", err)
	}
	util.SessionLoadsTotal.WithLabelValues("ok").Inc()
	return state, nil
}

func (s *CartService) apply(ctx context.Context, sessionID string, cmd cart.Command) (prev, next cart.State, err error) {
	prev, err = s.load(ctx, sessionID)
	if err != nil {
		return cart.Initial(), cart.Initial(), err
	}

	next = cart.Apply(prev, cmd)
	if err := s.sessions.Put(ctx, sessionID, next); err != nil {
		return cart.Initial(), cart.Initial(), fmt.Errorf("failed to store cart session: %w", err)
	}

	util.CartCommandsTotal.WithLabelValues(cmd.Name).Inc()
	return prev, next, nil
}

func quantityOf(state cart.State, itemID string) int {
	for _, l := range state.Lines {
		if l.ID == itemID {
			return l.Quantity
		}
	}
	return 0
}

func baseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
