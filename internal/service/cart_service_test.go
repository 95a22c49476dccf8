package service

import (
	"context"
	"testing"

	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published event types for assertions.
type recordingPublisher struct {
	eventTypes []string
}

func (r *recordingPublisher) record(eventType string) error {
	r.eventTypes = append(r.eventTypes, eventType)
	return nil
}

func (r *recordingPublisher) PublishItemAdded(_ context.Context, e *models.ItemAddedEvent) error {
	return r.record(e.EventType)
}

func (r *recordingPublisher) PublishItemRemoved(_ context.Context, e *models.ItemRemovedEvent) error {
	return r.record(e.EventType)
}

func (r *recordingPublisher) PublishQuantityUpdated(_ context.Context, e *models.QuantityUpdatedEvent) error {
	return r.record(e.EventType)
}

func (r *recordingPublisher) PublishCartCleared(_ context.Context, e *models.CartClearedEvent) error {
	return r.record(e.EventType)
}

func (r *recordingPublisher) PublishCheckoutStarted(_ context.Context, e *models.CheckoutStartedEvent) error {
	return r.record(e.EventType)
}

func (r *recordingPublisher) PublishNewsletterSubscribed(_ context.Context, e *models.NewsletterSubscribedEvent) error {
	return r.record(e.EventType)
}

func newCartService(t *testing.T) *CartService {
	t.Helper()
	store, err := catalog.Load()
	require.NoError(t, err)
	return NewCartService(session.NewMemoryStore(), store, broker.NoopPublisher{})
}

func newRecordingCartService(t *testing.T) (*CartService, *recordingPublisher) {
	t.Helper()
	store, err := catalog.Load()
	require.NoError(t, err)
	events := &recordingPublisher{}
	return NewCartService(session.NewMemoryStore(), store, events), events
}

func TestAddItemBuildsLineWithSnapshot(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	v, err := svc.AddItem(ctx, "s1", "blue-light-glasses-night", "product")
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 1, v.Lines[0].Quantity)
	assert.Equal(t, int64(89), v.Total)
	assert.Equal(t, 1, v.Count)
	assert.Equal(t, int64(30), v.Savings)

	v, err = svc.AddItem(ctx, "s1", "blue-light-glasses-night", "product")
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Lines[0].Quantity)
	assert.Equal(t, int64(178), v.Total)
}

func TestAddBundle(t *testing.T) {
	svc := newCartService(t)

	v, err := svc.AddItem(context.Background(), "s1", "ultimate-sleep-bundle", "bundle")
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, int64(199), v.Total)
	assert.Equal(t, int64(77), v.Savings)
}

func TestAddUnknownItem(t *testing.T) {
	svc := newCartService(t)

	_, err := svc.AddItem(context.Background(), "s1", "ghost", "product")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.AddItem(context.Background(), "s1", "ghost", "bundle")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "blackout-sleep-mask", "product")
	require.NoError(t, err)

	v, err := svc.UpdateQuantity(ctx, "s1", "blackout-sleep-mask", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(117), v.Total)

	v, err = svc.UpdateQuantity(ctx, "s1", "blackout-sleep-mask", 0)
	require.NoError(t, err)
	assert.Empty(t, v.Lines)

	// Removing again is a no-op, not an error.
	v, err = svc.RemoveItem(ctx, "s1", "blackout-sleep-mask")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
}

func TestToggleAndClear(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "grounding-mat", "product")
	require.NoError(t, err)

	v, err := svc.ToggleCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, v.IsOpen)

	v, err = svc.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
	assert.True(t, v.IsOpen)
}

func TestNoOpCommandsPublishNoEvents(t *testing.T) {
	svc, events := newRecordingCartService(t)
	ctx := context.Background()

	_, err := svc.RemoveItem(ctx, "s1", "blackout-sleep-mask")
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "s1", "blackout-sleep-mask", 3)
	require.NoError(t, err)
	assert.Empty(t, events.eventTypes)

	_, err = svc.AddItem(ctx, "s1", "blackout-sleep-mask", "product")
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "s1", "blackout-sleep-mask", 3)
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, "s1", "blackout-sleep-mask")
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.EventTypeItemAdded,
		models.EventTypeQuantityUpdated,
		models.EventTypeItemRemoved,
	}, events.eventTypes)
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "grounding-mat", "product")
	require.NoError(t, err)

	v, err := svc.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
}

func TestCheckoutReportsTotalsWithoutClearing(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "ultimate-sleep-bundle", "bundle")
	require.NoError(t, err)

	v, err := svc.Checkout(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(199), v.Total)

	after, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, after.Lines, 1)
}

func TestSnapshotSurvivesCatalogIndependence(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	v, err := svc.AddItem(ctx, "s1", "pemf-mat", "product")
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)

	// The line carries its own copy of the product.
	require.NotNil(t, v.Lines[0].Product)
	assert.Equal(t, int64(899), v.Lines[0].Product.Price)
}
