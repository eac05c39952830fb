package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/internal/pickups/ports"
	"ewaste_pickup_backend/internal/pickups/repository"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/events"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]string
	bookings    map[uuid.UUID]*domain.Booking
	order       []uuid.UUID
	assignments map[uuid.UUID]*domain.Assignment
	clock       time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:       make(map[uuid.UUID]string),
		bookings:    make(map[uuid.UUID]*domain.Booking),
		assignments: make(map[uuid.UUID]*domain.Assignment),
		clock:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryStore) InsertBooking(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.users[b.UserID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	b.CustomerName = name
	b.CreatedAt = m.tick()
	stored := *b
	stored.Materials = nil
	m.bookings[b.ID] = &stored
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memoryStore) InsertMaterials(_ context.Context, bookingID uuid.UUID, materials []domain.MaterialEstimate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[bookingID].Materials = append([]domain.MaterialEstimate(nil), materials...)
	return nil
}

func (m *memoryStore) GetBooking(_ context.Context, id uuid.UUID) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, apperr.NotFound("booking not found")
	}
	return *b, nil
}

func (m *memoryStore) LockBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.GetBooking(ctx, id)
}

func (m *memoryStore) ListBookings(_ context.Context, scope repository.BookingScope) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Booking, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		b := m.bookings[m.order[i]]
		if scope.UserID == nil || b.UserID == *scope.UserID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryStore) ListRouteCandidates(_ context.Context) ([]domain.RouteCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RouteCandidate
	for _, id := range m.order {
		b := m.bookings[id]
		if domain.Routable(b.Scheduling, b.Fulfillment) {
			out = append(out, domain.RouteCandidate{BookingID: b.ID, PostalCode: b.Address.PostalCode})
		}
	}
	return out, nil
}

func (m *memoryStore) ApplyRoutePlan(_ context.Context, assignments []domain.RouteAssignment) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range assignments {
		b := m.bookings[a.BookingID]
		if b.Scheduling != domain.Unscheduled {
			continue
		}
		route := a.RouteID
		b.RouteID = &route
		b.Scheduling = domain.Scheduled
		n++
	}
	return n, nil
}

func (m *memoryStore) SetFulfillment(_ context.Context, bookingID uuid.UUID, state domain.FulfillmentState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return apperr.NotFound("booking not found")
	}
	b.Fulfillment = state
	return nil
}

func (m *memoryStore) UpsertAssignment(_ context.Context, bookingID, agentID uuid.UUID) (domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[bookingID]
	if !ok {
		a = &domain.Assignment{ID: uuid.New(), BookingID: bookingID}
		m.assignments[bookingID] = a
	}
	a.AgentID = agentID
	a.Status = domain.Assigned
	a.AssignedAt = m.tick()
	a.CompletedAt = nil
	return *a, nil
}

func (m *memoryStore) GetAssignmentForAgent(_ context.Context, bookingID, agentID uuid.UUID) (domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[bookingID]
	if !ok || a.AgentID != agentID {
		return domain.Assignment{}, apperr.NotFound("delivery assignment not found")
	}
	return *a, nil
}

func (m *memoryStore) UpdateAssignmentStatus(_ context.Context, bookingID uuid.UUID, status domain.FulfillmentState, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[bookingID]
	if !ok {
		return apperr.NotFound("delivery assignment not found")
	}
	a.Status = status
	a.CompletedAt = completedAt
	return nil
}

func (m *memoryStore) ListRoutes(_ context.Context, agentID *uuid.UUID) ([]repository.RouteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int]int)
	for _, b := range m.bookings {
		if b.Scheduling != domain.Scheduled {
			continue
		}
		if agentID != nil {
			a, ok := m.assignments[b.ID]
			if !ok || a.AgentID != *agentID {
				continue
			}
		}
		counts[*b.RouteID]++
	}
	out := make([]repository.RouteSummary, 0, len(counts))
	for id, n := range counts {
		out = append(out, repository.RouteSummary{RouteID: id, NumStops: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RouteID < out[j].RouteID })
	return out, nil
}

func (m *memoryStore) ListPickupsOverview(_ context.Context) ([]repository.PickupOverviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unassigned, assigned []repository.PickupOverviewItem
	for i := len(m.order) - 1; i >= 0; i-- {
		b := m.bookings[m.order[i]]
		item := repository.PickupOverviewItem{Booking: *b}
		if a, ok := m.assignments[b.ID]; ok {
			status := a.Status
			agentID := a.AgentID
			name := m.users[a.AgentID]
			item.DeliveryStatus, item.AgentID, item.AgentUsername = &status, &agentID, &name
			assigned = append(assigned, item)
			continue
		}
		unassigned = append(unassigned, item)
	}
	return append(unassigned, assigned...), nil
}

func (m *memoryStore) ListAgentAssignments(_ context.Context, agentID uuid.UUID) ([]repository.AgentAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.AgentAssignment
	for _, a := range m.assignments {
		if a.AgentID == agentID {
			out = append(out, repository.AgentAssignment{Booking: *m.bookings[a.BookingID], Assignment: *a})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Assignment.AssignedAt.After(out[j].Assignment.AssignedAt) })
	return out, nil
}

func (m *memoryStore) CountBookings(_ context.Context, scope repository.BookingScope, since *time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if scope.UserID != nil && b.UserID != *scope.UserID {
			continue
		}
		if since != nil && b.CreatedAt.Before(*since) {
			continue
		}
		n++
	}
	return n, nil
}

func (m *memoryStore) SumMaterials(_ context.Context, scope repository.BookingScope) (map[domain.Material]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := make(map[domain.Material]float64)
	for _, b := range m.bookings {
		if scope.UserID != nil && b.UserID != *scope.UserID {
			continue
		}
		for _, mat := range b.Materials {
			totals[mat.Material] += mat.Quantity
		}
	}
	return totals, nil
}

type fakeAgents map[uuid.UUID]bool

func (f fakeAgents) IsDeliveryAgent(_ context.Context, id uuid.UUID) (bool, error) {
	return f[id], nil
}

// fakeAwarder credits once per booking, like the ledger's unique index.
type fakeAwarder struct {
	mu       sync.Mutex
	points   int
	awarded  map[uuid.UUID]bool
	balances map[uuid.UUID]int
	calls    int
	inTx     func(ctx context.Context) bool
	sawNoTx  bool
}

func newFakeAwarder(points int, inTx func(ctx context.Context) bool) *fakeAwarder {
	return &fakeAwarder{
		points:   points,
		awarded:  make(map[uuid.UUID]bool),
		balances: make(map[uuid.UUID]int),
		inTx:     inTx,
	}
}

func (f *fakeAwarder) AwardForBooking(ctx context.Context, userID, bookingID uuid.UUID) (ports.AwardResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if !f.inTx(ctx) {
		f.sawNoTx = true
	}
	if f.awarded[bookingID] {
		return ports.AwardResult{Balance: f.balances[userID]}, nil
	}
	f.awarded[bookingID] = true
	f.balances[userID] += f.points
	return ports.AwardResult{Awarded: true, Points: f.points, Balance: f.balances[userID]}, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventName()
	}
	return out
}
