package notification

import (
	"context"
	"fmt"

	"ewaste_pickup_backend/internal/email"
	"ewaste_pickup_backend/internal/scheduler"
)

// Deliverer renders a queued payload through an email.Sender. The worker
// uses it for asynq tasks; the API uses it directly when Redis is absent.
type Deliverer struct {
	sender email.Sender
}

func NewDeliverer(sender email.Sender) *Deliverer {
	return &Deliverer{sender: sender}
}

func (d *Deliverer) Deliver(ctx context.Context, p scheduler.NotificationEmailPayload) error {
	switch p.Kind {
	case scheduler.EmailBookingCreated:
		return d.sender.SendBookingCreatedEmail(ctx, p.ToEmail, email.BookingCreated{
			CustomerName: p.RecipientName,
			BookingID:    p.BookingID,
			Category:     p.Category,
		})
	case scheduler.EmailPickupAssigned:
		return d.sender.SendPickupAssignedEmail(ctx, p.ToEmail, email.PickupAssigned{
			CustomerName: p.RecipientName,
			BookingID:    p.BookingID,
			AgentName:    p.AgentName,
		})
	case scheduler.EmailAgentAssignment:
		return d.sender.SendAgentAssignmentEmail(ctx, p.ToEmail, email.AgentAssignment{
			AgentName: p.RecipientName,
			BookingID: p.BookingID,
		})
	case scheduler.EmailPickupStatus:
		return d.sender.SendPickupStatusEmail(ctx, p.ToEmail, email.PickupStatus{
			CustomerName: p.RecipientName,
			BookingID:    p.BookingID,
			Status:       p.Status,
		})
	case scheduler.EmailPointsAwarded:
		return d.sender.SendPointsAwardedEmail(ctx, p.ToEmail, email.PointsAwarded{
			CustomerName: p.RecipientName,
			BookingID:    p.BookingID,
			Points:       p.Points,
			Balance:      p.Balance,
		})
	case scheduler.EmailPointsRedeemed:
		return d.sender.SendPointsRedeemedEmail(ctx, p.ToEmail, email.PointsRedeemed{
			CustomerName:   p.RecipientName,
			Points:         p.Points,
			RedemptionCode: p.RedemptionCode,
			Balance:        p.Balance,
		})
	}
	return fmt.Errorf("unknown notification kind %q", p.Kind)
}

// EnqueueNotificationEmail sends immediately.
func (d *Deliverer) EnqueueNotificationEmail(ctx context.Context, p scheduler.NotificationEmailPayload) error {
	return d.Deliver(ctx, p)
}

var (
	_ scheduler.EmailDeliverer = (*Deliverer)(nil)
	_ scheduler.EmailEnqueuer  = (*Deliverer)(nil)
)
