package service

import (
	"context"
	"testing"

	"ewaste_pickup_backend/internal/pickups/domain"
	pointsadapter "ewaste_pickup_backend/internal/points/adapter"
	pointsdomain "ewaste_pickup_backend/internal/points/domain"
	"ewaste_pickup_backend/internal/points/pointstest"
	pointsservice "ewaste_pickup_backend/internal/points/service"
	"ewaste_pickup_backend/platform/events"
	"ewaste_pickup_backend/platform/logger"
)

// newLedgerFixture is newFixture with the real points service behind the
// awarder port, sharing one transaction runner.
func newLedgerFixture(t *testing.T) (*fixture, *pointsservice.Service, *pointstest.MemoryLedger) {
	t.Helper()

	f := newFixture(t)
	ledger := pointstest.NewMemoryLedger()
	points := pointsservice.New(ledger, f.tx, events.NewInMemoryBus(logger.Discard()), pointsdomain.DefaultPolicy, logger.Discard())
	f.svc.points = pointsadapter.NewPickupAwarder(points)
	return f, points, ledger
}

func TestLifecycleCreditsLedgerOncePerBooking(t *testing.T) {
	f, points, ledger := newLedgerFixture(t)
	ctx := context.Background()
	b := f.book(t, f.user, "smartphone", "560001")

	if _, err := f.svc.ScheduleRoutes(ctx, f.admin, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AssignDelivery(ctx, f.admin, b.ID, f.agent.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, status := range []string{"assigned", "picked_up", "delivered", "delivered"} {
		if _, err := f.svc.AdvanceDelivery(ctx, f.agent, b.ID, status); err != nil {
			t.Fatalf("%s: unexpected error: %v", status, err)
		}
	}

	if got := f.stored(t, b.ID).Status(); got != domain.StatusDelivered {
		t.Fatalf("expected delivered, got %s", got)
	}

	balance, err := points.Balance(ctx, f.user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 20 {
		t.Fatalf("expected balance 20, got %d", balance)
	}

	history, err := points.History(ctx, f.user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.Kind != pointsdomain.EntryAward || entry.Delta != 20 {
		t.Fatalf("expected +20 award entry, got %s %d", entry.Kind, entry.Delta)
	}
	if entry.BookingID == nil || *entry.BookingID != b.ID {
		t.Fatalf("expected entry for booking %s, got %v", b.ID, entry.BookingID)
	}
	if len(ledger.Entries) != 1 {
		t.Fatalf("expected one ledger row, got %d", len(ledger.Entries))
	}
}
