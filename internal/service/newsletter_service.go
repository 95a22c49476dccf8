package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidEmail is returned for addresses that fail validation.
var ErrInvalidEmail = errors.New("invalid email address")

// SubscriberStore records newsletter subscribers. AddSubscriber returns
// true for a first-time address.
type SubscriberStore interface {
	AddSubscriber(ctx context.Context, email string) (bool, error)
}

// memorySubscribers is the fallback store when redis is not configured.
type memorySubscribers struct {
	mu  sync.Mutex
	set map[string]struct{}
}

// NewMemorySubscribers creates an in-memory subscriber store.
func NewMemorySubscribers() SubscriberStore {
	return &memorySubscribers{set: make(map[string]struct{})}
}

func (m *memorySubscribers) AddSubscriber(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.set[email]; ok {
		return false, nil
	}
	m.set[email] = struct{}{}
	return true, nil
}

// NewsletterService handles subscribe requests. Processing is simulated
// with a fixed delay and always resolves to a terminal success or failure.
type NewsletterService struct {
	subscribers SubscriberStore
	events      broker.Publisher
	validate    *validator.Validate
	delay       time.Duration
	logger      *zap.Logger
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(subscribers SubscriberStore, events broker.Publisher, delay time.Duration) *NewsletterService {
	return &NewsletterService{
		subscribers: subscribers,
		events:      events,
		validate:    validator.New(),
		delay:       delay,
		logger:      util.GetLogger(),
	}
}

// Subscribe records the address. Re-subscribing an existing address is
// idempotent and still reported as success.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	ctx, span := util.StartSpan(ctx, "NewsletterService.Subscribe")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		util.NewsletterRejectedTotal.WithLabelValues("invalid_email").Inc()
		return ErrInvalidEmail
	}

	// Simulated processing delay, abandoned if the caller goes away.
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	added, err := s.subscribers.AddSubscriber(ctx, email)
	if err != nil {
		return err
	}
	if !added {
		s.logger.Info("Newsletter address already subscribed", zap.String("email", email))
		return nil
	}

	util.NewsletterSubscriptionsTotal.Inc()
	s.logger.Info("Newsletter subscription recorded", zap.String("email", email))

	event := &models.NewsletterSubscribedEvent{
		BaseEvent: baseEvent(models.EventTypeNewsletterSubscribed),
		Email:     email,
	}
	if err := s.events.PublishNewsletterSubscribed(ctx, event); err != nil {
		s.logger.Error("Failed to publish NewsletterSubscribed event", zap.Error(err))
	}

	return nil
}
