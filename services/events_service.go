package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// OrderEventsChannel is the Redis channel order change notifications are
// published on.
const OrderEventsChannel = "orders:events"

// OrderEvent is the change notification pushed after every successful
// order mutation. Views react by re-fetching; there is no payload diff.
type OrderEvent struct {
	OrderID uint      `json:"order_id"`
	Folio   string    `json:"folio"`
	Action  string    `json:"action"`
	At      time.Time `json:"at"`
}

// EventsInterface defines the order change-notification stream
type EventsInterface interface {
	PublishOrderEvent(event OrderEvent) error
	SubscribeOrderEvents(ctx context.Context) (<-chan OrderEvent, func(), error)
}

// EventsService implements EventsInterface on Redis pub/sub
type EventsService struct {
	client *redis.Client
}

var eventsServiceInstance EventsInterface

// InitEventsService connects to Redis and installs the events service
func InitEventsService(redisURL string) (EventsInterface, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	eventsServiceInstance = &EventsService{client: client}
	return eventsServiceInstance, nil
}

// GetEventsService returns the initialized events service instance.
// May be nil when no REDIS_URL is configured; callers must check.
func GetEventsService() EventsInterface {
	return eventsServiceInstance
}

// SetEventsService sets the events service instance (primarily for testing)
func SetEventsService(service EventsInterface) {
	eventsServiceInstance = service
}

// PublishOrderEvent pushes a change notification to every subscriber
func (s *EventsService) PublishOrderEvent(event OrderEvent) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Publish(ctx, OrderEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// SubscribeOrderEvents opens a subscription to the order change stream.
// The returned cancel func must be called to release the subscription.
func (s *EventsService) SubscribeOrderEvents(ctx context.Context) (<-chan OrderEvent, func(), error) {
	pubsub := s.client.Subscribe(ctx, OrderEventsChannel)

	// Force the subscription to be established before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to order events: %w", err)
	}

	// Closing the pubsub ends the message channel, which ends the
	// decode loop below.
	go func() {
		<-ctx.Done()
		_ = pubsub.Close()
	}()

	out := make(chan OrderEvent)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var event OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("dropping malformed order event")
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close order events subscription")
		}
	}
	return out, cancel, nil
}
