package domain

import (
	"sort"

	"ewaste_pickup_backend/platform/apperr"

	"github.com/google/uuid"
)

// RouteCandidate is an unscheduled booking considered for grouping, in creation order.
type RouteCandidate struct {
	BookingID  uuid.UUID
	PostalCode string
}

// RouteAssignment places one booking on a route.
type RouteAssignment struct {
	BookingID uuid.UUID
	RouteID   int
}

// RoutePlan is the outcome of one grouping run.
type RoutePlan struct {
	Assignments []RouteAssignment
	// Stops counts bookings per route ID.
	Stops map[int]int
}

// Empty reports a run with nothing to schedule.
func (p RoutePlan) Empty() bool {
	return len(p.Assignments) == 0
}

// RouteIDs returns the non-empty route IDs in ascending order.
func (p RoutePlan) RouteIDs() []int {
	ids := make([]int, 0, len(p.Stops))
	for id := range p.Stops {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PlanRoutes buckets candidates by postal code into min(k, distinct codes)
// routes. The i-th distinct code, by first appearance, goes to route (i mod n)+1.
func PlanRoutes(candidates []RouteCandidate, k int) (RoutePlan, error) {
	if k < 1 {
		return RoutePlan{}, apperr.Validation("number of routes must be at least 1")
	}
	if len(candidates) == 0 {
		return RoutePlan{Stops: map[int]int{}}, nil
	}

	var codes []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if !seen[c.PostalCode] {
			seen[c.PostalCode] = true
			codes = append(codes, c.PostalCode)
		}
	}

	routeCount := min(k, len(codes))
	routeFor := make(map[string]int, len(codes))
	for i, code := range codes {
		routeFor[code] = (i % routeCount) + 1
	}

	plan := RoutePlan{
		Assignments: make([]RouteAssignment, 0, len(candidates)),
		Stops:       make(map[int]int, routeCount),
	}
	for _, c := range candidates {
		route := routeFor[c.PostalCode]
		plan.Assignments = append(plan.Assignments, RouteAssignment{BookingID: c.BookingID, RouteID: route})
		plan.Stops[route]++
	}
	return plan, nil
}
