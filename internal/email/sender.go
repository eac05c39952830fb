// Package email renders and delivers notification e-mails.
package email

import "context"

// Sender delivers the e-mails the pickup service sends.
type Sender interface {
	SendBookingCreatedEmail(ctx context.Context, toEmail string, data BookingCreated) error
	SendPickupAssignedEmail(ctx context.Context, toEmail string, data PickupAssigned) error
	SendAgentAssignmentEmail(ctx context.Context, toEmail string, data AgentAssignment) error
	SendPickupStatusEmail(ctx context.Context, toEmail string, data PickupStatus) error
	SendPointsAwardedEmail(ctx context.Context, toEmail string, data PointsAwarded) error
	SendPointsRedeemedEmail(ctx context.Context, toEmail string, data PointsRedeemed) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendBookingCreatedEmail(context.Context, string, BookingCreated) error {
	return nil
}

func (NoopSender) SendPickupAssignedEmail(context.Context, string, PickupAssigned) error {
	return nil
}

func (NoopSender) SendAgentAssignmentEmail(context.Context, string, AgentAssignment) error {
	return nil
}

func (NoopSender) SendPickupStatusEmail(context.Context, string, PickupStatus) error {
	return nil
}

func (NoopSender) SendPointsAwardedEmail(context.Context, string, PointsAwarded) error {
	return nil
}

func (NoopSender) SendPointsRedeemedEmail(context.Context, string, PointsRedeemed) error {
	return nil
}

var _ Sender = NoopSender{}
