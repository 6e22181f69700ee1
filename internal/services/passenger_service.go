package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"airline-reservation/internal/status"
	"airline-reservation/internal/store"
	"airline-reservation/models"

	"github.com/shopspring/decimal"
)

// FirstPassengerID is the id of the first passenger registered in a run.
const FirstPassengerID = 1001

const minPasswordLength = 6

type RegisterInput struct {
	Name     string `validate:"required,max=50"`
	Password string `validate:"required,max=30"`
	Email    string `validate:"legacyemail,max=50"`
	Phone    string `validate:"max=15"`
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	Name  *string `validate:"omitempty,min=1,max=50"`
	Email *string `validate:"omitempty,legacyemail,max=50"`
	Phone *string `validate:"omitempty,max=15"`
}

type PassengerService struct {
	store *store.Memory
}

func NewPassengerService(st *store.Memory) *PassengerService {
	return &PassengerService{store: st}
}

// Register creates a passenger account with the next sequential id.
func (s *PassengerService) Register(_ context.Context, in RegisterInput) (models.Passenger, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in, status.ErrInvalidInput); err != nil {
		return models.Passenger{}, err
	}

	var p models.Passenger
	err := s.store.Update(func(tx *store.Tx) error {
		p = models.Passenger{
			ID:         FirstPassengerID + tx.PassengerCount(),
			Name:       in.Name,
			Password:   in.Password,
			Email:      in.Email,
			Phone:      in.Phone,
			TotalSpent: decimal.Zero,
		}
		return tx.InsertPassenger(p)
	})
	if err != nil {
		return models.Passenger{}, err
	}

	slog.Info("passenger registered", "passenger_id", p.ID)
	return p, nil
}

// Authenticate compares the plaintext password of the account.
func (s *PassengerService) Authenticate(_ context.Context, id int, password string) (models.Passenger, error) {
	var p models.Passenger
	err := s.store.View(func(tx *store.Tx) error {
		var ok bool
		p, ok = tx.Passenger(id)
		if !ok || p.Password != password {
			return status.ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		slog.Debug("login rejected", "passenger_id", id)
		return models.Passenger{}, err
	}
	return p, nil
}

func (s *PassengerService) Get(_ context.Context, id int) (models.Passenger, error) {
	var p models.Passenger
	err := s.store.View(func(tx *store.Tx) error {
		var ok bool
		p, ok = tx.Passenger(id)
		if !ok {
			return fmt.Errorf("%w: %d", status.ErrPassengerNotFound, id)
		}
		return nil
	})
	return p, err
}

func (s *PassengerService) UpdateProfile(_ context.Context, id int, upd ProfileUpdate) (models.Passenger, error) {
	upd.Name = trimmed(upd.Name)
	upd.Email = trimmed(upd.Email)
	upd.Phone = trimmed(upd.Phone)
	if err := validateStruct(upd, status.ErrInvalidInput); err != nil {
		return models.Passenger{}, err
	}

	var p models.Passenger
	err := s.store.Update(func(tx *store.Tx) error {
		var ok bool
		p, ok = tx.Passenger(id)
		if !ok {
			return status.ErrNotAuthenticated
		}

		if upd.Email != nil && !strings.EqualFold(*upd.Email, p.Email) {
			for _, other := range tx.Passengers() {
				if other.ID != id && strings.EqualFold(other.Email, *upd.Email) {
					return fmt.Errorf("%w: %s", status.ErrEmailTaken, *upd.Email)
				}
			}
			p.Email = *upd.Email
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Phone != nil {
			p.Phone = *upd.Phone
		}
		return tx.SavePassenger(p)
	})
	if err != nil {
		return models.Passenger{}, err
	}
	return p, nil
}

func (s *PassengerService) ChangePassword(_ context.Context, id int, current, next, confirm string) error {
	err := s.store.Update(func(tx *store.Tx) error {
		p, ok := tx.Passenger(id)
		if !ok {
			return status.ErrNotAuthenticated
		}
		if p.Password != current {
			return status.ErrInvalidCredentials
		}
		if len(next) < minPasswordLength {
			return fmt.Errorf("%w: need at least %d characters", status.ErrWeakPassword, minPasswordLength)
		}
		if next != confirm {
			return status.ErrPasswordMismatch
		}

		p.Password = next
		return tx.SavePassenger(p)
	})
	if err != nil {
		return err
	}

	slog.Info("password changed", "passenger_id", id)
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
