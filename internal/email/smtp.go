package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlContent string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg, err := s.buildMessage(toEmail, subject, htmlContent)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendBookingCreatedEmail(ctx context.Context, toEmail string, data BookingCreated) error {
	content, err := renderEmailTemplate("booking_created.html", "Pickup booked", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingCreated, content)
}

func (s *SMTPSender) SendPickupAssignedEmail(ctx context.Context, toEmail string, data PickupAssigned) error {
	content, err := renderEmailTemplate("pickup_assigned.html", "Pickup agent assigned", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPickupAssigned, content)
}

func (s *SMTPSender) SendAgentAssignmentEmail(ctx context.Context, toEmail string, data AgentAssignment) error {
	content, err := renderEmailTemplate("agent_assignment.html", "New assignment", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAgentAssignment, content)
}

func (s *SMTPSender) SendPickupStatusEmail(ctx context.Context, toEmail string, data PickupStatus) error {
	content, err := renderEmailTemplate("pickup_status.html", "Pickup update", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectPickupStatusFmt, humanStatus(data.Status)), content)
}

func (s *SMTPSender) SendPointsAwardedEmail(ctx context.Context, toEmail string, data PointsAwarded) error {
	content, err := renderEmailTemplate("points_awarded.html", "Points earned", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectPointsAwardedFmt, data.Points), content)
}

func (s *SMTPSender) SendPointsRedeemedEmail(ctx context.Context, toEmail string, data PointsRedeemed) error {
	content, err := renderEmailTemplate("points_redeemed.html", "Gift code issued", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPointsRedeemed, content)
}

var _ Sender = (*SMTPSender)(nil)
