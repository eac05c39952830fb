package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskNotificationEmail = "notification.email"

// EmailKind selects the template a notification e-mail uses.
type EmailKind string

const (
	EmailBookingCreated  EmailKind = "booking_created"
	EmailPickupAssigned  EmailKind = "pickup_assigned"
	EmailAgentAssignment EmailKind = "agent_assignment"
	EmailPickupStatus    EmailKind = "pickup_status"
	EmailPointsAwarded   EmailKind = "points_awarded"
	EmailPointsRedeemed  EmailKind = "points_redeemed"
)

// NotificationEmailPayload carries everything the worker needs to render and
// send one e-mail; the worker never touches the database.
type NotificationEmailPayload struct {
	Kind           EmailKind `json:"kind"`
	ToEmail        string    `json:"toEmail"`
	RecipientName  string    `json:"recipientName"`
	BookingID      string    `json:"bookingId,omitempty"`
	Category       string    `json:"category,omitempty"`
	AgentName      string    `json:"agentName,omitempty"`
	Status         string    `json:"status,omitempty"`
	Points         int       `json:"points,omitempty"`
	Balance        int       `json:"balance,omitempty"`
	RedemptionCode string    `json:"redemptionCode,omitempty"`
}

func NewNotificationEmailTask(payload NotificationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationEmail, data), nil
}

func ParseNotificationEmailPayload(task *asynq.Task) (NotificationEmailPayload, error) {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationEmailPayload{}, err
	}
	return payload, nil
}
