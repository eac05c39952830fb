package service

import (
	"context"
	"testing"
	"time"

	"ewaste_pickup_backend/internal/events"
	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/db/dbtest"
	"ewaste_pickup_backend/platform/logger"

	"github.com/google/uuid"
)

type fixture struct {
	svc     *Service
	store   *memoryStore
	awarder *fakeAwarder
	bus     *recordingBus
	tx      *dbtest.SerialTx

	admin      authz.Actor
	agent      authz.Actor
	otherAgent authz.Actor
	user       authz.Actor
	otherUser  authz.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      newMemoryStore(),
		bus:        &recordingBus{},
		tx:         &dbtest.SerialTx{},
		admin:      authz.Actor{UserID: uuid.New(), Role: authz.RoleAdmin},
		agent:      authz.Actor{UserID: uuid.New(), Role: authz.RoleDelivery},
		otherAgent: authz.Actor{UserID: uuid.New(), Role: authz.RoleDelivery},
		user:       authz.Actor{UserID: uuid.New(), Role: authz.RoleUser},
		otherUser:  authz.Actor{UserID: uuid.New(), Role: authz.RoleUser},
	}
	f.awarder = newFakeAwarder(20, dbtest.InTx)

	f.store.users[f.admin.UserID] = "admin"
	f.store.users[f.agent.UserID] = "delivery1"
	f.store.users[f.otherAgent.UserID] = "delivery2"
	f.store.users[f.user.UserID] = "user1"
	f.store.users[f.otherUser.UserID] = "user2"

	f.svc = New(Deps{
		Repo:        f.store,
		Tx:          f.tx,
		Points:      f.awarder,
		Agents:      fakeAgents{f.agent.UserID: true, f.otherAgent.UserID: true},
		EventBus:    f.bus,
		Yields:      domain.Yields,
		PhoneRegion: "IN",
		Log:         logger.Discard(),
	})
	f.svc.now = func() time.Time { return time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) book(t *testing.T, actor authz.Actor, category, postalCode string) domain.Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), actor, CreateBookingInput{
		Category:    category,
		DeviceModel: "model",
		Address: domain.Address{
			ApartmentName: "Green Towers",
			StreetNumber:  "12",
			Area:          "Indiranagar",
			State:         "Karnataka",
			PostalCode:    postalCode,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error creating booking: %v", err)
	}
	return b
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) domain.Booking {
	t.Helper()
	b, err := f.store.GetBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error loading booking: %v", err)
	}
	return b
}

func countEvents(names []string, name string) int {
	n := 0
	for _, got := range names {
		if got == name {
			n++
		}
	}
	return n
}

func TestCreateBookingEstimatesLaptopMaterials(t *testing.T) {
	f := newFixture(t)

	b := f.book(t, f.user, "laptop", "560001")

	if b.Status() != domain.StatusPending {
		t.Fatalf("expected pending, got %s", b.Status())
	}
	if b.CustomerName != "user1" {
		t.Fatalf("expected customer name from owner, got %q", b.CustomerName)
	}

	expected := map[domain.Material]float64{
		domain.Copper:    0.2,
		domain.Lithium:   0.01,
		domain.Cobalt:    0.006,
		domain.Nickel:    0.04,
		domain.RareEarth: 0.006,
	}
	stored := f.stored(t, b.ID)
	if len(stored.Materials) != len(expected) {
		t.Fatalf("expected %d materials, got %d", len(expected), len(stored.Materials))
	}
	for _, m := range stored.Materials {
		if m.Quantity != expected[m.Material] {
			t.Fatalf("expected %s=%v, got %v", m.Material, expected[m.Material], m.Quantity)
		}
	}
	if f.tx.Commits != 1 {
		t.Fatalf("expected booking and materials in one transaction, got %d commits", f.tx.Commits)
	}
	if countEvents(f.bus.names(), events.BookingCreated{}.EventName()) != 1 {
		t.Fatalf("expected one BookingCreated event, got %v", f.bus.names())
	}
}

func TestCreateBookingUnknownCategoryFallsBackToOther(t *testing.T) {
	f := newFixture(t)

	b := f.book(t, f.user, "microwave", "560001")

	if b.Category != domain.CategoryOther {
		t.Fatalf("expected other, got %s", b.Category)
	}
	for _, m := range b.Materials {
		if m.Material == domain.Copper && m.Quantity != 0.07 {
			t.Fatalf("expected copper 0.07 at default weight, got %v", m.Quantity)
		}
	}
}

func TestCreateBookingRequiresUserRole(t *testing.T) {
	f := newFixture(t)

	for _, actor := range []authz.Actor{f.admin, f.agent} {
		_, err := f.svc.CreateBooking(context.Background(), actor, CreateBookingInput{Category: "laptop"})
		if !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("expected forbidden for %s, got %v", actor.Role, err)
		}
	}
	if len(f.store.bookings) != 0 {
		t.Fatal("expected no booking to be stored")
	}
}

func TestCreateBookingNormalisesContactPhone(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), f.user, CreateBookingInput{
		Category:     "smartphone",
		Address:      domain.Address{PostalCode: "560001"},
		ContactPhone: "098765 43210",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ContactPhone == nil || *b.ContactPhone != "+919876543210" {
		t.Fatalf("expected E.164 phone, got %v", b.ContactPhone)
	}

	_, err = f.svc.CreateBooking(context.Background(), f.user, CreateBookingInput{
		Category:     "smartphone",
		ContactPhone: "12",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingCleansFreeText(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), f.user, CreateBookingInput{
		Category:    "laptop",
		DeviceModel: "  <b>Dell</b>   XPS 13 ",
		Address:     domain.Address{ApartmentName: "Green\nTowers", PostalCode: " 560001 "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := f.stored(t, b.ID)
	if stored.DeviceModel != "Dell XPS 13" {
		t.Fatalf("expected cleaned model, got %q", stored.DeviceModel)
	}
	if stored.Address.ApartmentName != "Green Towers" || stored.Address.PostalCode != "560001" {
		t.Fatalf("expected cleaned address, got %+v", stored.Address)
	}
}

func TestUserNeverListsAnotherUsersBookings(t *testing.T) {
	f := newFixture(t)
	mine := f.book(t, f.user, "laptop", "560001")
	f.book(t, f.otherUser, "battery", "560002")

	list, err := f.svc.ListBookings(context.Background(), f.user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("expected only own booking, got %d bookings", len(list))
	}

	all, err := f.svc.ListBookings(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected admin to see 2 bookings, got %d", len(all))
	}
}

func TestGetBookingHidesOtherUsersBookings(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.otherUser, "laptop", "560001")

	if _, err := f.svc.GetBooking(context.Background(), f.user, b.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.GetBooking(context.Background(), f.agent, b.ID); err != nil {
		t.Fatalf("expected delivery agent to see booking, got %v", err)
	}
}

func TestScheduleRoutesCapsRouteCountAtDistinctPostalCodes(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.user, "laptop", "560001")
	b := f.book(t, f.user, "battery", "560002")
	c := f.book(t, f.otherUser, "smartphone", "560001")

	result, err := f.svc.ScheduleRoutes(context.Background(), f.admin, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %v", result.Routes)
	}
	if result.Routes[1] != 2 || result.Routes[2] != 1 {
		t.Fatalf("expected stops {1:2 2:1}, got %v", result.Routes)
	}
	if len(result.RouteIDs) != 2 || result.RouteIDs[0] != 1 || result.RouteIDs[1] != 2 {
		t.Fatalf("expected route ids [1 2], got %v", result.RouteIDs)
	}

	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		got := f.stored(t, id)
		if got.Status() != domain.StatusScheduled || got.RouteID == nil {
			t.Fatalf("expected scheduled booking with route, got %s", got.Status())
		}
		if got.Fulfillment != domain.FulfillmentNone {
			t.Fatalf("expected fulfillment untouched, got %s", got.Fulfillment)
		}
	}
	if *f.stored(t, a.ID).RouteID != *f.stored(t, c.ID).RouteID {
		t.Fatal("expected same postal code on the same route")
	}
}

func TestScheduleRoutesWithNothingPending(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.ScheduleRoutes(context.Background(), f.admin, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Empty() {
		t.Fatalf("expected nothing to schedule, got %v", result.Routes)
	}

	f.book(t, f.user, "laptop", "560001")
	if _, err := f.svc.ScheduleRoutes(context.Background(), f.admin, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := f.svc.ScheduleRoutes(context.Background(), f.admin, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Empty() {
		t.Fatal("expected rerun to leave scheduled bookings alone")
	}
	if n := countEvents(f.bus.names(), events.RoutesScheduled{}.EventName()); n != 1 {
		t.Fatalf("expected one RoutesScheduled event, got %d", n)
	}
}

func TestScheduleRoutesValidatesInput(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.ScheduleRoutes(context.Background(), f.admin, 0); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for k=0, got %v", err)
	}
	if _, err := f.svc.ScheduleRoutes(context.Background(), f.user, 1); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for user, got %v", err)
	}
}

func TestAssignDeliveryRequiresBookingAndAgent(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.user, "laptop", "560001")

	if _, err := f.svc.AssignDelivery(context.Background(), f.admin, uuid.New(), f.agent.UserID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for missing booking, got %v", err)
	}
	if _, err := f.svc.AssignDelivery(context.Background(), f.admin, b.ID, f.user.UserID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for non-agent, got %v", err)
	}
	if _, err := f.svc.AssignDelivery(context.Background(), f.agent, b.ID, f.agent.UserID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for delivery role, got %v", err)
	}
}

func TestAssignDeliveryLeavesSchedulingAlone(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.user, "laptop", "560001")

	if _, err := f.svc.AssignDelivery(context.Background(), f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.stored(t, b.ID)
	if got.Status() != domain.StatusAssigned || got.IsScheduled() || got.RouteID != nil {
		t.Fatalf("expected assigned and unscheduled, got %s scheduled=%v", got.Status(), got.IsScheduled())
	}

	result, err := f.svc.ScheduleRoutes(context.Background(), f.admin, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scheduled != 1 {
		t.Fatalf("expected assigned booking to be routable, got %d", result.Scheduled)
	}
	if got := f.stored(t, b.ID); got.Status() != domain.StatusAssigned || !got.IsScheduled() {
		t.Fatalf("expected assigned and scheduled, got %s", got.Status())
	}
}

func TestReassignmentReplacesAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "laptop", "560001")

	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, "picked_up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.otherAgent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.stored(t, b.ID); got.Fulfillment != domain.Assigned {
		t.Fatalf("expected reassignment to reset to assigned, got %s", got.Fulfillment)
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, "delivered"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected previous agent to lose access, got %v", err)
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.otherAgent, b.ID, "picked_up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssignDeliveryRejectsDeliveredBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "battery", "560001")

	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, "delivered"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.otherAgent.UserID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSmartphoneLifecycleAwardsPointsOnDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "smartphone", "560001")

	if _, err := f.svc.ScheduleRoutes(ctx, f.admin, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := []struct {
		status  string
		display domain.Status
		awarded int
		changed bool
	}{
		{"assigned", domain.StatusAssigned, 0, false},
		{"picked_up", domain.StatusPickedUp, 0, true},
		{"delivered", domain.StatusDelivered, 20, true},
	}
	for _, step := range steps {
		result, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, step.status)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step.status, err)
		}
		if result.Changed != step.changed {
			t.Fatalf("%s: expected changed=%v, got %v", step.status, step.changed, result.Changed)
		}
		if result.PointsAwarded != step.awarded {
			t.Fatalf("%s: expected %d points, got %d", step.status, step.awarded, result.PointsAwarded)
		}
		if got := f.stored(t, b.ID).Status(); got != step.display {
			t.Fatalf("%s: expected display %s, got %s", step.status, step.display, got)
		}
	}

	if f.awarder.balances[f.user.UserID] != 20 {
		t.Fatalf("expected balance 20, got %d", f.awarder.balances[f.user.UserID])
	}
	assignment, err := f.store.GetAssignmentForAgent(ctx, b.ID, f.agent.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assignment.Status != domain.Delivered || assignment.CompletedAt == nil {
		t.Fatalf("expected delivered assignment with completion time, got %s", assignment.Status)
	}

	var awarded []events.PointsAwarded
	for _, e := range f.bus.events {
		if pa, ok := e.(events.PointsAwarded); ok {
			awarded = append(awarded, pa)
		}
	}
	if len(awarded) != 1 || awarded[0].BookingID != b.ID || awarded[0].Points != 20 {
		t.Fatalf("expected one PointsAwarded for the booking, got %+v", awarded)
	}
	if f.awarder.sawNoTx {
		t.Fatal("expected award to run inside the status update transaction")
	}
}

func TestDeliveredTwiceAwardsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "laptop", "560001")
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, "delivered")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, "delivered")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.PointsAwarded != 20 || second.PointsAwarded != 0 || second.Changed {
		t.Fatalf("expected single award, got first=%+v second=%+v", first, second)
	}
	if f.awarder.balances[f.user.UserID] != 20 {
		t.Fatalf("expected balance 20, got %d", f.awarder.balances[f.user.UserID])
	}
	if n := countEvents(f.bus.names(), events.PointsAwarded{}.EventName()); n != 1 {
		t.Fatalf("expected one PointsAwarded event, got %d", n)
	}
	if n := countEvents(f.bus.names(), events.DeliveryStatusChanged{}.EventName()); n != 1 {
		t.Fatalf("expected one status change event, got %d", n)
	}
}

func TestAdvanceByUnassignedAgentIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "laptop", "560001")
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.AdvanceDelivery(ctx, f.otherAgent, b.ID, "picked_up"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.agent, uuid.New(), "picked_up"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown booking, got %v", err)
	}
	if got := f.stored(t, b.ID).Fulfillment; got != domain.Assigned {
		t.Fatalf("expected booking untouched, got %s", got)
	}
}

func TestAdvanceRejectsInvalidAndBackwardMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "laptop", "560001")
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, "picked_up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		status string
	}{
		{"unknown status", "lost"},
		{"empty status", ""},
		{"backward move", "assigned"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, tt.status)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if _, err := f.svc.AdvanceDelivery(ctx, f.user, b.ID, "delivered"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for user, got %v", err)
	}
	if f.awarder.calls != 0 {
		t.Fatalf("expected no award attempts, got %d", f.awarder.calls)
	}
}

func TestListRoutesScopedForAgents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, f.user, "laptop", "560001")
	f.book(t, f.user, "battery", "560002")
	if _, err := f.svc.ScheduleRoutes(ctx, f.admin, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AssignDelivery(ctx, f.admin, a.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := f.svc.ListRoutes(ctx, f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 routes for admin, got %d", len(all))
	}

	mine, err := f.svc.ListRoutes(ctx, f.agent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].NumStops != 1 {
		t.Fatalf("expected one route with one stop for agent, got %+v", mine)
	}
}

func TestAssignmentsAndOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, f.user, "laptop", "560001")
	f.book(t, f.user, "battery", "560002")
	if _, err := f.svc.AssignDelivery(ctx, f.admin, a.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignments, err := f.svc.Assignments(ctx, f.agent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignments) != 1 || assignments[0].ID != a.ID {
		t.Fatalf("expected the agent's single assignment, got %d", len(assignments))
	}
	if _, err := f.svc.Assignments(ctx, f.admin); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for admin, got %v", err)
	}

	overview, err := f.svc.PickupsOverview(ctx, f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overview) != 2 || overview[0].AgentUsername != nil {
		t.Fatal("expected unassigned booking first in overview")
	}
	if _, err := f.svc.PickupsOverview(ctx, f.agent); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for agent, got %v", err)
	}
}

func TestDashboardScopesToOwnBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.clock = time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)
	f.book(t, f.user, "laptop", "560001")
	f.store.clock = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.book(t, f.user, "laptop", "560001")
	f.book(t, f.otherUser, "battery", "560002")

	mine, err := f.svc.Dashboard(ctx, f.user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mine.TotalBookings != 2 || mine.BookingsThisWeek != 1 {
		t.Fatalf("expected 2 total and 1 this week, got %d and %d", mine.TotalBookings, mine.BookingsThisWeek)
	}
	if mine.Materials[domain.Copper] != 0.4 {
		t.Fatalf("expected copper 0.4, got %v", mine.Materials[domain.Copper])
	}
	if mine.WeekStart.Weekday() != time.Monday {
		t.Fatalf("expected week to start on Monday, got %s", mine.WeekStart.Weekday())
	}
	if mine.Impact != domain.ComputeImpact(mine.Materials) {
		t.Fatalf("expected impact derived from totals, got %+v", mine.Impact)
	}

	all, err := f.svc.Dashboard(ctx, f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.TotalBookings != 3 {
		t.Fatalf("expected admin to see 3 bookings, got %d", all.TotalBookings)
	}
}
