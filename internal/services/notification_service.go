package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"airline-reservation/models"
	"airline-reservation/monitoring"
	"airline-reservation/utils"

	"github.com/google/uuid"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
)

// Notifier delivers booking events to the passenger they concern.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

func PassengerChannel(passengerID int) string {
	return fmt.Sprintf("passenger-%d", passengerID)
}

// NewNotification stamps an event with a fresh id and time.
func NewNotification(kind models.NotificationType, b models.Booking, at time.Time) models.Notification {
	amount := b.FarePaid
	if kind == models.NotifyBookingCancelled {
		amount = b.Refund
	}
	return models.Notification{
		ID:          uuid.NewString(),
		Type:        kind,
		BookingID:   b.ID,
		PassengerID: b.PassengerID,
		FlightNo:    b.FlightNo,
		Seats:       b.Seats,
		Amount:      amount,
		Timestamp:   at,
	}
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, models.Notification) error { return nil }

// RedisNotifier publishes JSON events on a per-passenger redis channel.
type RedisNotifier struct {
	Redis *redis.Client
}

func NewRedisNotifier(redisClient *redis.Client) *RedisNotifier {
	return &RedisNotifier{Redis: redisClient}
}

func (n *RedisNotifier) Notify(ctx context.Context, note models.Notification) error {
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return n.Redis.Publish(ctx, PassengerChannel(note.PassengerID), string(data)).Err()
}

// PubNubNotifier publishes events on a per-passenger PubNub channel.
type PubNubNotifier struct {
	PubNub *pubnub.PubNub
}

func NewPubNubNotifier(publishKey, subscribeKey, secretKey string) *PubNubNotifier {
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = publishKey
	pnConfig.SubscribeKey = subscribeKey
	pnConfig.SecretKey = secretKey

	return &PubNubNotifier{PubNub: pubnub.NewPubNub(pnConfig)}
}

func (n *PubNubNotifier) Notify(_ context.Context, note models.Notification) error {
	_, _, err := n.PubNub.Publish().
		Channel(PassengerChannel(note.PassengerID)).
		Message(note).
		Execute()
	return err
}

// GuardedNotifier sends through a circuit breaker so an unreachable
// backend does not slow down every booking. Outcomes are counted.
type GuardedNotifier struct {
	next    Notifier
	breaker *utils.CircuitBreaker
	monitor *monitoring.Monitor
}

func NewGuardedNotifier(next Notifier, breaker *utils.CircuitBreaker, monitor *monitoring.Monitor) *GuardedNotifier {
	return &GuardedNotifier{next: next, breaker: breaker, monitor: monitor}
}

func (g *GuardedNotifier) Notify(ctx context.Context, note models.Notification) error {
	err := g.breaker.Execute(func() error {
		return g.next.Notify(ctx, note)
	})
	g.monitor.TrackNotification(err)
	if err != nil {
		return fmt.Errorf("%s breaker %s: %w", g.breaker.Name(), g.breaker.State(), err)
	}
	return nil
}
