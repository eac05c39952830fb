package repository

import (
	"context"
	"time"

	"ewaste_pickup_backend/internal/pickups/domain"

	"github.com/google/uuid"
)

// RouteSummary is one scheduled route and how many bookings it holds.
type RouteSummary struct {
	RouteID  int
	NumStops int
}

// PickupOverviewItem is a booking with its current assignment, if any.
type PickupOverviewItem struct {
	domain.Booking
	DeliveryStatus *domain.FulfillmentState
	AgentID        *uuid.UUID
	AgentUsername  *string
}

// AgentAssignment is a booking as seen by the agent working it.
type AgentAssignment struct {
	domain.Booking
	Assignment domain.Assignment
}

// BookingScope narrows read models to one owner. A nil UserID means all bookings.
type BookingScope struct {
	UserID *uuid.UUID
}

type BookingReader interface {
	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	// LockBooking reads the booking row FOR UPDATE. Must run inside a transaction.
	LockBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListBookings(ctx context.Context, scope BookingScope) ([]domain.Booking, error)
	// ListRouteCandidates returns routable bookings in creation order, locked.
	ListRouteCandidates(ctx context.Context) ([]domain.RouteCandidate, error)
}

type BookingWriter interface {
	// InsertBooking fills CustomerName and CreatedAt from the database.
	InsertBooking(ctx context.Context, b *domain.Booking) error
	InsertMaterials(ctx context.Context, bookingID uuid.UUID, materials []domain.MaterialEstimate) error
	// ApplyRoutePlan schedules still-unscheduled bookings and returns how many changed.
	ApplyRoutePlan(ctx context.Context, assignments []domain.RouteAssignment) (int, error)
	SetFulfillment(ctx context.Context, bookingID uuid.UUID, state domain.FulfillmentState) error
}

type AssignmentStore interface {
	// UpsertAssignment replaces any existing assignment for the booking.
	UpsertAssignment(ctx context.Context, bookingID, agentID uuid.UUID) (domain.Assignment, error)
	GetAssignmentForAgent(ctx context.Context, bookingID, agentID uuid.UUID) (domain.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, bookingID uuid.UUID, status domain.FulfillmentState, completedAt *time.Time) error
}

type ReadModels interface {
	// ListRoutes returns every scheduled route, or only those holding the agent's bookings.
	ListRoutes(ctx context.Context, agentID *uuid.UUID) ([]RouteSummary, error)
	ListPickupsOverview(ctx context.Context) ([]PickupOverviewItem, error)
	ListAgentAssignments(ctx context.Context, agentID uuid.UUID) ([]AgentAssignment, error)
	CountBookings(ctx context.Context, scope BookingScope, since *time.Time) (int, error)
	SumMaterials(ctx context.Context, scope BookingScope) (map[domain.Material]float64, error)
}

// Repository is the full pickups store.
type Repository interface {
	BookingReader
	BookingWriter
	AssignmentStore
	ReadModels
}
