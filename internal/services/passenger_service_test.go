package services

import (
	"context"
	"testing"

	"airline-reservation/internal/status"
	"airline-reservation/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_SequentialIDs(t *testing.T) {
	fx := newLedgerFixture(t, store.DefaultLimits(), nil)

	first := fx.register(t, "somchai")
	second := fx.register(t, "noy")

	assert.Equal(t, 1001, first.ID)
	assert.Equal(t, 1002, second.ID)
	assert.True(t, first.TotalSpent.IsZero())
	assert.Equal(t, 0, first.TotalBookings)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewPassengerService(store.NewMemory(store.DefaultLimits()))
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"no at sign", RegisterInput{Name: "a", Password: "pw", Email: "mail.com"}, status.ErrInvalidEmail},
		{"two at signs", RegisterInput{Name: "a", Password: "pw", Email: "a@b@c.com"}, status.ErrInvalidEmail},
		{"no dot", RegisterInput{Name: "a", Password: "pw", Email: "a@bcom"}, status.ErrInvalidEmail},
		{"too short", RegisterInput{Name: "a", Password: "pw", Email: "@b.c"}, status.ErrInvalidEmail},
		{"missing name", RegisterInput{Name: "  ", Password: "pw", Email: "a@b.com"}, status.ErrInvalidInput},
		{"missing password", RegisterInput{Name: "a", Email: "a@b.com"}, status.ErrInvalidInput},
		{"long phone", RegisterInput{Name: "a", Password: "pw", Email: "a@b.com", Phone: "0123456789012345"}, status.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_CapacityReached(t *testing.T) {
	svc := NewPassengerService(store.NewMemory(store.Limits{Passengers: 1, Flights: 1, Bookings: 1}))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "a", Password: "pw", Email: "a@b.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "b", Password: "pw", Email: "b@b.com"})
	assert.ErrorIs(t, err, status.ErrMaxPassengersReached)
	assert.ErrorIs(t, err, status.ErrMaxCapacityReached)
}

func TestAuthenticate(t *testing.T) {
	fx := newLedgerFixture(t, store.DefaultLimits(), nil)
	p := fx.register(t, "somchai")
	ctx := context.Background()

	got, err := fx.passengers.Authenticate(ctx, p.ID, "secret1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = fx.passengers.Authenticate(ctx, p.ID, "Secret1")
	assert.ErrorIs(t, err, status.ErrInvalidCredentials)
	_, err = fx.passengers.Authenticate(ctx, 4242, "secret1")
	assert.ErrorIs(t, err, status.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	fx := newLedgerFixture(t, store.DefaultLimits(), nil)
	p := fx.register(t, "somchai")
	other := fx.register(t, "noy")
	ctx := context.Background()

	name := "  Somchai K.  "
	phone := "020777"
	got, err := fx.passengers.UpdateProfile(ctx, p.ID, ProfileUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Somchai K.", got.Name)
	assert.Equal(t, "020777", got.Phone)
	assert.Equal(t, p.Email, got.Email)
	assert.Equal(t, "  Somchai K.  ", name)

	taken := other.Email
	_, err = fx.passengers.UpdateProfile(ctx, p.ID, ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, status.ErrEmailTaken)

	bad := "nope"
	_, err = fx.passengers.UpdateProfile(ctx, p.ID, ProfileUpdate{Email: &bad})
	assert.ErrorIs(t, err, status.ErrInvalidEmail)

	fresh := "somchai@lao.la"
	got, err = fx.passengers.UpdateProfile(ctx, p.ID, ProfileUpdate{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, fresh, got.Email)

	_, err = fx.passengers.UpdateProfile(ctx, 4242, ProfileUpdate{})
	assert.ErrorIs(t, err, status.ErrNotAuthenticated)
}

func TestChangePassword(t *testing.T) {
	fx := newLedgerFixture(t, store.DefaultLimits(), nil)
	p := fx.register(t, "somchai")
	ctx := context.Background()

	assert.ErrorIs(t, fx.passengers.ChangePassword(ctx, p.ID, "wrong", "newpass", "newpass"), status.ErrInvalidCredentials)
	assert.ErrorIs(t, fx.passengers.ChangePassword(ctx, p.ID, "secret1", "short", "short"), status.ErrWeakPassword)
	assert.ErrorIs(t, fx.passengers.ChangePassword(ctx, p.ID, "secret1", "newpass", "newpas"), status.ErrPasswordMismatch)

	require.NoError(t, fx.passengers.ChangePassword(ctx, p.ID, "secret1", "newpass", "newpass"))

	_, err := fx.passengers.Authenticate(ctx, p.ID, "secret1")
	assert.ErrorIs(t, err, status.ErrInvalidCredentials)
	_, err = fx.passengers.Authenticate(ctx, p.ID, "newpass")
	assert.NoError(t, err)
}
