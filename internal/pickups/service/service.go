// Package service implements the pickup lifecycle: booking creation, route
// grouping, agent assignment and delivery progress.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ewaste_pickup_backend/internal/events"
	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/internal/pickups/ports"
	"ewaste_pickup_backend/internal/pickups/repository"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/db"
	"ewaste_pickup_backend/platform/logger"
	"ewaste_pickup_backend/platform/phone"
	"ewaste_pickup_backend/platform/sanitize"

	"github.com/google/uuid"
)

// CreateBookingInput is a pickup request as submitted by its owner.
type CreateBookingInput struct {
	Category     string
	DeviceModel  string
	Address      domain.Address
	ContactPhone string
	PhotoKey     string
}

// Deps bundles the collaborators of Service.
type Deps struct {
	Repo        repository.Repository
	Tx          db.TxRunner
	Points      ports.PointsAwarder
	Agents      ports.AgentDirectory
	EventBus    events.Bus
	Yields      domain.YieldTable
	PhoneRegion string
	Log         *logger.Logger
}

type Service struct {
	repo        repository.Repository
	tx          db.TxRunner
	points      ports.PointsAwarder
	agents      ports.AgentDirectory
	eventBus    events.Bus
	yields      domain.YieldTable
	phoneRegion string
	log         *logger.Logger
	now         func() time.Time
}

func New(deps Deps) *Service {
	return &Service{
		repo:        deps.Repo,
		tx:          deps.Tx,
		points:      deps.Points,
		agents:      deps.Agents,
		eventBus:    deps.EventBus,
		yields:      deps.Yields,
		phoneRegion: deps.PhoneRegion,
		log:         deps.Log,
		now:         time.Now,
	}
}

// CreateBooking stores a pending booking with its material estimates.
func (s *Service) CreateBooking(ctx context.Context, actor authz.Actor, in CreateBookingInput) (domain.Booking, error) {
	if err := actor.Require(authz.CreateBooking); err != nil {
		return domain.Booking{}, err
	}

	contactPhone, err := phone.NormalizeE164(in.ContactPhone, s.phoneRegion)
	if err != nil {
		if errors.Is(err, phone.ErrInvalidNumber) {
			return domain.Booking{}, apperr.Validation("invalid contact phone number")
		}
		return domain.Booking{}, err
	}

	category, materials := s.yields.Estimate(in.Category)
	booking := domain.Booking{
		ID:          uuid.New(),
		UserID:      actor.UserID,
		Category:    category,
		DeviceModel: sanitize.Text(in.DeviceModel),
		Address:     cleanAddress(in.Address),
		Scheduling:  domain.Unscheduled,
		Fulfillment: domain.FulfillmentNone,
		Materials:   materials,
	}
	if contactPhone != "" {
		booking.ContactPhone = &contactPhone
	}
	if in.PhotoKey != "" {
		key := in.PhotoKey
		booking.PhotoKey = &key
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertBooking(ctx, &booking); err != nil {
			return err
		}
		return s.repo.InsertMaterials(ctx, booking.ID, booking.Materials)
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.log.WithContext(ctx).Info("booking created", "bookingId", booking.ID, "userId", actor.UserID, "category", booking.Category)
	s.eventBus.Publish(ctx, events.BookingCreated{
		BaseEvent: events.NewBaseEvent(),
		BookingID: booking.ID,
		UserID:    actor.UserID,
		Category:  string(booking.Category),
	})
	return booking, nil
}

// ListBookings returns the caller's own bookings, or all of them for staff.
func (s *Service) ListBookings(ctx context.Context, actor authz.Actor) ([]domain.Booking, error) {
	return s.repo.ListBookings(ctx, scopeFor(actor))
}

// GetBooking hides other users' bookings behind NotFound.
func (s *Service) GetBooking(ctx context.Context, actor authz.Actor, id uuid.UUID) (domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !actor.Can(authz.ViewAllBookings) && b.UserID != actor.UserID {
		return domain.Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

func scopeFor(actor authz.Actor) repository.BookingScope {
	if actor.Can(authz.ViewAllBookings) {
		return repository.BookingScope{}
	}
	userID := actor.UserID
	return repository.BookingScope{UserID: &userID}
}

func cleanAddress(a domain.Address) domain.Address {
	return domain.Address{
		ApartmentName: sanitize.Text(a.ApartmentName),
		StreetNumber:  sanitize.Text(a.StreetNumber),
		Area:          sanitize.Text(a.Area),
		State:         sanitize.Text(a.State),
		PostalCode:    strings.TrimSpace(a.PostalCode),
	}
}
