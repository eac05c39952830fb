package service

import (
	"context"

	"ewaste_pickup_backend/internal/events"
	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"

	"github.com/google/uuid"
)

// ScheduleResult reports one grouping run. Routes maps route ID to stop count.
type ScheduleResult struct {
	Routes    map[int]int
	RouteIDs  []int
	Scheduled int
}

// Empty reports that nothing was waiting to be scheduled.
func (r ScheduleResult) Empty() bool {
	return r.Scheduled == 0
}

// AdvanceResult reports a delivery status update.
type AdvanceResult struct {
	BookingID     uuid.UUID
	Status        domain.FulfillmentState
	Changed       bool
	PointsAwarded int
	Balance       int
}

// ScheduleRoutes groups unscheduled bookings into at most k routes by postal code.
func (s *Service) ScheduleRoutes(ctx context.Context, actor authz.Actor, k int) (ScheduleResult, error) {
	if err := actor.Require(authz.ScheduleRoutes); err != nil {
		return ScheduleResult{}, err
	}
	if k < 1 {
		return ScheduleResult{}, apperr.Validation("number of routes must be at least 1")
	}

	result := ScheduleResult{Routes: map[int]int{}}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		candidates, err := s.repo.ListRouteCandidates(ctx)
		if err != nil {
			return err
		}
		plan, err := domain.PlanRoutes(candidates, k)
		if err != nil || plan.Empty() {
			return err
		}

		scheduled, err := s.repo.ApplyRoutePlan(ctx, plan.Assignments)
		if err != nil {
			return err
		}
		result = ScheduleResult{Routes: plan.Stops, RouteIDs: plan.RouteIDs(), Scheduled: scheduled}
		return nil
	})
	if err != nil {
		return ScheduleResult{}, err
	}

	log := s.log.WithContext(ctx)
	if result.Empty() {
		log.Info("routes scheduled", "bookings", 0)
		return result, nil
	}

	log.Info("routes scheduled", "routes", result.RouteIDs, "bookings", result.Scheduled)
	s.eventBus.Publish(ctx, events.RoutesScheduled{
		BaseEvent:    events.NewBaseEvent(),
		RouteCount:   len(result.Routes),
		BookingCount: result.Scheduled,
	})
	return result, nil
}

// AssignDelivery puts an agent on a booking, replacing any previous assignment.
func (s *Service) AssignDelivery(ctx context.Context, actor authz.Actor, bookingID, agentID uuid.UUID) (domain.Assignment, error) {
	if err := actor.Require(authz.AssignDelivery); err != nil {
		return domain.Assignment{}, err
	}

	var (
		assignment domain.Assignment
		ownerID    uuid.UUID
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.repo.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		ok, err := s.agents.IsDeliveryAgent(ctx, agentID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("delivery agent not found")
		}
		if err := domain.CanReassign(booking.Fulfillment); err != nil {
			return err
		}

		assignment, err = s.repo.UpsertAssignment(ctx, bookingID, agentID)
		if err != nil {
			return err
		}
		ownerID = booking.UserID
		return s.repo.SetFulfillment(ctx, bookingID, domain.Assigned)
	})
	if err != nil {
		return domain.Assignment{}, err
	}

	s.log.WithContext(ctx).Info("delivery assigned", "bookingId", bookingID, "agentId", agentID)
	s.eventBus.Publish(ctx, events.DeliveryAssigned{
		BaseEvent: events.NewBaseEvent(),
		BookingID: bookingID,
		UserID:    ownerID,
		AgentID:   agentID,
	})
	return assignment, nil
}

// AdvanceDelivery moves the caller's assignment forward and credits the owner
// on delivery. Repeating the current status changes nothing.
func (s *Service) AdvanceDelivery(ctx context.Context, actor authz.Actor, bookingID uuid.UUID, status string) (AdvanceResult, error) {
	if err := actor.Require(authz.AdvanceDelivery); err != nil {
		return AdvanceResult{}, err
	}
	target, err := domain.ParseDeliveryTarget(status)
	if err != nil {
		return AdvanceResult{}, err
	}

	result := AdvanceResult{BookingID: bookingID, Status: target}
	var ownerID uuid.UUID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.repo.LockBooking(ctx, bookingID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.NotFound("delivery assignment not found")
			}
			return err
		}
		ownerID = booking.UserID

		assignment, err := s.repo.GetAssignmentForAgent(ctx, bookingID, actor.UserID)
		if err != nil {
			return err
		}
		if err := domain.CheckAdvance(assignment.Status, target); err != nil {
			return err
		}

		if assignment.Status != target {
			completedAt := assignment.CompletedAt
			if target == domain.Delivered {
				t := s.now().UTC()
				completedAt = &t
			}
			if err := s.repo.UpdateAssignmentStatus(ctx, bookingID, target, completedAt); err != nil {
				return err
			}
			if err := s.repo.SetFulfillment(ctx, bookingID, target); err != nil {
				return err
			}
			result.Changed = true
		}

		if target != domain.Delivered {
			return nil
		}
		award, err := s.points.AwardForBooking(ctx, booking.UserID, bookingID)
		if err != nil {
			return err
		}
		if award.Awarded {
			result.PointsAwarded = award.Points
			result.Balance = award.Balance
		}
		return nil
	})
	if err != nil {
		return AdvanceResult{}, err
	}

	if result.Changed {
		s.log.WithContext(ctx).Info("delivery status updated", "bookingId", bookingID, "agentId", actor.UserID, "status", target)
		s.eventBus.Publish(ctx, events.DeliveryStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			BookingID: bookingID,
			UserID:    ownerID,
			AgentID:   actor.UserID,
			Status:    string(target),
		})
	}
	if result.PointsAwarded > 0 {
		s.eventBus.Publish(ctx, events.PointsAwarded{
			BaseEvent: events.NewBaseEvent(),
			UserID:    ownerID,
			BookingID: bookingID,
			Points:    result.PointsAwarded,
			Balance:   result.Balance,
		})
	}
	return result, nil
}
