package service

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/broker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNewsletterService() *NewsletterService {
	return NewNewsletterService(NewMemorySubscribers(), broker.NoopPublisher{}, 0)
}

func TestSubscribe(t *testing.T) {
	svc := newNewsletterService()

	err := svc.Subscribe(context.Background(), "jo@example.com")
	assert.NoError(t, err)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	svc := newNewsletterService()
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "jo@example.com"))
	assert.NoError(t, svc.Subscribe(ctx, "jo@example.com"))
	assert.NoError(t, svc.Subscribe(ctx, " JO@example.com "))
}

func TestSubscribeRejectsInvalidAddresses(t *testing.T) {
	svc := newNewsletterService()
	ctx := context.Background()

	for _, email := range []string{"", "plain", "@example.com", "jo@", "a@b@c.com"} {
		err := svc.Subscribe(ctx, email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
}

func TestSubscribeHonorsContextCancellation(t *testing.T) {
	svc := NewNewsletterService(NewMemorySubscribers(), broker.NoopPublisher{}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Subscribe(ctx, "jo@example.com")
	assert.ErrorIs(t, err, context.Canceled)
}
