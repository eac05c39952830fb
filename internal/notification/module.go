// Package notification turns domain events into e-mails. Domain modules
// publish events and never know about templates or mail transport.
package notification

import (
	"context"
	"fmt"

	"ewaste_pickup_backend/internal/auth"
	"ewaste_pickup_backend/internal/events"
	"ewaste_pickup_backend/internal/scheduler"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/logger"

	"github.com/google/uuid"
)

// UserDirectory resolves e-mail recipients.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (auth.UserInfo, error)
}

// Module subscribes to pickup and points events and queues e-mails.
type Module struct {
	users UserDirectory
	queue scheduler.EmailEnqueuer
	log   *logger.Logger
}

// New takes the asynq client as queue, or a Deliverer to send inline when Redis is not configured.
func New(users UserDirectory, queue scheduler.EmailEnqueuer, log *logger.Logger) *Module {
	return &Module{users: users, queue: queue, log: log}
}

func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BookingCreated{}.EventName(), m)
	bus.Subscribe(events.RoutesScheduled{}.EventName(), m)
	bus.Subscribe(events.DeliveryAssigned{}.EventName(), m)
	bus.Subscribe(events.DeliveryStatusChanged{}.EventName(), m)
	bus.Subscribe(events.PointsAwarded{}.EventName(), m)
	bus.Subscribe(events.PointsRedeemed{}.EventName(), m)
}

func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BookingCreated:
		return m.handleBookingCreated(ctx, e)
	case events.RoutesScheduled:
		m.log.Info("routes scheduled", "routes", e.RouteCount, "bookings", e.BookingCount)
		return nil
	case events.DeliveryAssigned:
		return m.handleDeliveryAssigned(ctx, e)
	case events.DeliveryStatusChanged:
		return m.handleDeliveryStatusChanged(ctx, e)
	case events.PointsAwarded:
		return m.handlePointsAwarded(ctx, e)
	case events.PointsRedeemed:
		return m.handlePointsRedeemed(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleBookingCreated(ctx context.Context, e events.BookingCreated) error {
	return m.notify(ctx, e.UserID, scheduler.NotificationEmailPayload{
		Kind:      scheduler.EmailBookingCreated,
		BookingID: e.BookingID.String(),
		Category:  e.Category,
	})
}

func (m *Module) handleDeliveryAssigned(ctx context.Context, e events.DeliveryAssigned) error {
	agent, err := m.users.GetUser(ctx, e.AgentID)
	if err != nil {
		return fmt.Errorf("resolve agent %s: %w", e.AgentID, err)
	}

	if err := m.notify(ctx, e.UserID, scheduler.NotificationEmailPayload{
		Kind:      scheduler.EmailPickupAssigned,
		BookingID: e.BookingID.String(),
		AgentName: agent.Username,
	}); err != nil {
		return err
	}

	return m.enqueue(ctx, agent, scheduler.NotificationEmailPayload{
		Kind:      scheduler.EmailAgentAssignment,
		BookingID: e.BookingID.String(),
	})
}

func (m *Module) handleDeliveryStatusChanged(ctx context.Context, e events.DeliveryStatusChanged) error {
	return m.notify(ctx, e.UserID, scheduler.NotificationEmailPayload{
		Kind:      scheduler.EmailPickupStatus,
		BookingID: e.BookingID.String(),
		Status:    e.Status,
	})
}

func (m *Module) handlePointsAwarded(ctx context.Context, e events.PointsAwarded) error {
	return m.notify(ctx, e.UserID, scheduler.NotificationEmailPayload{
		Kind:      scheduler.EmailPointsAwarded,
		BookingID: e.BookingID.String(),
		Points:    e.Points,
		Balance:   e.Balance,
	})
}

func (m *Module) handlePointsRedeemed(ctx context.Context, e events.PointsRedeemed) error {
	return m.notify(ctx, e.UserID, scheduler.NotificationEmailPayload{
		Kind:           scheduler.EmailPointsRedeemed,
		Points:         e.Points,
		Balance:        e.Balance,
		RedemptionCode: e.RedemptionCode,
	})
}

// notify looks up the recipient and queues the e-mail. Users without an
// e-mail address, or that no longer exist, are skipped.
func (m *Module) notify(ctx context.Context, userID uuid.UUID, payload scheduler.NotificationEmailPayload) error {
	user, err := m.users.GetUser(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		m.log.Warn("notification recipient not found", "userId", userID, "kind", payload.Kind)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve user %s: %w", userID, err)
	}
	return m.enqueue(ctx, user, payload)
}

func (m *Module) enqueue(ctx context.Context, user auth.UserInfo, payload scheduler.NotificationEmailPayload) error {
	if user.Email == "" {
		m.log.Debug("skipping notification, no e-mail on file", "userId", user.ID, "kind", payload.Kind)
		return nil
	}
	payload.ToEmail = user.Email
	payload.RecipientName = user.Username

	if err := m.queue.EnqueueNotificationEmail(ctx, payload); err != nil {
		return fmt.Errorf("enqueue %s e-mail: %w", payload.Kind, err)
	}
	return nil
}

var _ events.Handler = (*Module)(nil)
