package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"airline-reservation/models"
	"airline-reservation/monitoring"
	"airline-reservation/utils"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleBooking() models.Booking {
	return models.Booking{
		ID:          1001,
		PassengerID: 1002,
		FlightNo:    101,
		Seats:       2,
		FarePaid:    decimal.NewFromInt(600),
		Refund:      decimal.NewFromInt(540),
		Status:      models.BookingCancelled,
	}
}

func TestNewNotification(t *testing.T) {
	at := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

	confirmed := NewNotification(models.NotifyBookingConfirmed, sampleBooking(), at)
	cancelled := NewNotification(models.NotifyBookingCancelled, sampleBooking(), at)

	assert.NotEmpty(t, confirmed.ID)
	assert.NotEqual(t, confirmed.ID, cancelled.ID)
	assert.Equal(t, "600", confirmed.Amount.String())
	assert.Equal(t, "540", cancelled.Amount.String())
	assert.Equal(t, 1002, cancelled.PassengerID)
	assert.Equal(t, at, cancelled.Timestamp)
}

func TestRedisNotifier_Publishes(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	notifier := NewRedisNotifier(db)

	note := NewNotification(models.NotifyBookingCancelled, sampleBooking(), time.Now())
	payload, err := json.Marshal(note)
	require.NoError(t, err)

	redisMock.ExpectPublish("passenger-1002", string(payload)).SetVal(1)

	require.NoError(t, notifier.Notify(context.Background(), note))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRedisNotifier_ReturnsPublishError(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	notifier := NewRedisNotifier(db)

	note := NewNotification(models.NotifyBookingConfirmed, sampleBooking(), time.Now())
	payload, err := json.Marshal(note)
	require.NoError(t, err)

	redisMock.ExpectPublish("passenger-1002", string(payload)).SetErr(errors.New("connection refused"))

	assert.Error(t, notifier.Notify(context.Background(), note))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPubNubNotifier_Config(t *testing.T) {
	n := NewPubNubNotifier("pub-key", "sub-key", "")

	require.NotNil(t, n.PubNub)
	assert.Equal(t, "pub-key", n.PubNub.Config.PublishKey)
	assert.Equal(t, "sub-key", n.PubNub.Config.SubscribeKey)
}

func TestGuardedNotifier_OpensAfterFailures(t *testing.T) {
	next := &mockNotifier{}
	monitor := monitoring.NewMonitor()
	guarded := NewGuardedNotifier(next, utils.NewCircuitBreaker("redis", 2, time.Hour), monitor)
	note := NewNotification(models.NotifyBookingConfirmed, sampleBooking(), time.Now())
	ctx := context.Background()

	next.On("Notify", mock.Anything, note).Return(errors.New("timeout")).Twice()

	assert.Error(t, guarded.Notify(ctx, note))
	assert.Error(t, guarded.Notify(ctx, note))

	err := guarded.Notify(ctx, note)
	assert.ErrorIs(t, err, utils.ErrBreakerOpen)

	next.AssertExpectations(t)
	count, err := testutil.GatherAndCount(monitor.Registry(), "reservation_notifications_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGuardedNotifier_PassesThrough(t *testing.T) {
	guarded := NewGuardedNotifier(NopNotifier{}, utils.NewCircuitBreaker("nop", 1, time.Minute), nil)

	assert.NoError(t, guarded.Notify(context.Background(), models.Notification{}))
}
