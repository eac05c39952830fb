package service

import (
	"context"
	"time"

	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/internal/pickups/repository"
	"ewaste_pickup_backend/platform/authz"

	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
)

// Dashboard summarises recovered materials for the caller's scope.
type Dashboard struct {
	Role             authz.Role
	TotalBookings    int
	BookingsThisWeek int
	WeekStart        time.Time
	Materials        map[domain.Material]float64
	Impact           domain.Impact
}

var weekConfig = &now.Config{WeekStartDay: time.Monday}

// ListRoutes shows delivery agents only the routes holding their assignments.
func (s *Service) ListRoutes(ctx context.Context, actor authz.Actor) ([]repository.RouteSummary, error) {
	if actor.Role == authz.RoleDelivery {
		agentID := actor.UserID
		return s.repo.ListRoutes(ctx, &agentID)
	}
	return s.repo.ListRoutes(ctx, nil)
}

func (s *Service) PickupsOverview(ctx context.Context, actor authz.Actor) ([]repository.PickupOverviewItem, error) {
	if err := actor.Require(authz.ViewPickupsOverview); err != nil {
		return nil, err
	}
	return s.repo.ListPickupsOverview(ctx)
}

// Assignments lists the calling agent's bookings, newest assignment first.
func (s *Service) Assignments(ctx context.Context, actor authz.Actor) ([]repository.AgentAssignment, error) {
	if err := actor.Require(authz.AdvanceDelivery); err != nil {
		return nil, err
	}
	return s.repo.ListAgentAssignments(ctx, actor.UserID)
}

// Dashboard runs its aggregates concurrently. Users see their own bookings only.
func (s *Service) Dashboard(ctx context.Context, actor authz.Actor) (Dashboard, error) {
	scope := scopeFor(actor)
	weekStart := weekConfig.With(s.now()).BeginningOfWeek()

	out := Dashboard{Role: actor.Role, WeekStart: weekStart}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountBookings(gctx, scope, nil)
		out.TotalBookings = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountBookings(gctx, scope, &weekStart)
		out.BookingsThisWeek = n
		return err
	})
	g.Go(func() error {
		totals, err := s.repo.SumMaterials(gctx, scope)
		out.Materials = totals
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	for m, qty := range out.Materials {
		out.Materials[m] = domain.Round4(qty)
	}
	out.Impact = domain.ComputeImpact(out.Materials)
	return out, nil
}
