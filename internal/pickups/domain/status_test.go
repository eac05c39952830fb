package domain

import (
	"testing"

	"ewaste_pickup_backend/platform/apperr"
)

func TestDisplayStatus(t *testing.T) {
	cases := []struct {
		s    SchedulingState
		f    FulfillmentState
		want Status
	}{
		{Unscheduled, FulfillmentNone, StatusPending},
		{Scheduled, FulfillmentNone, StatusScheduled},
		{Unscheduled, Assigned, StatusAssigned},
		{Scheduled, Assigned, StatusAssigned},
		{Scheduled, PickedUp, StatusPickedUp},
		{Scheduled, Delivered, StatusDelivered},
	}
	for _, tc := range cases {
		if got := DisplayStatus(tc.s, tc.f); got != tc.want {
			t.Fatalf("DisplayStatus(%s, %s): expected %s, got %s", tc.s, tc.f, tc.want, got)
		}
	}
}

func TestParseDeliveryTarget(t *testing.T) {
	for _, ok := range []string{"assigned", "picked_up", "delivered"} {
		if _, err := ParseDeliveryTarget(ok); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", ok, err)
		}
	}
	for _, bad := range []string{"", "pending", "scheduled", "none", "DELIVERED"} {
		if _, err := ParseDeliveryTarget(bad); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", bad, err)
		}
	}
}

func TestCheckAdvance(t *testing.T) {
	cases := []struct {
		from, to FulfillmentState
		ok       bool
	}{
		{Assigned, PickedUp, true},
		{Assigned, Delivered, true},
		{PickedUp, Delivered, true},
		{Delivered, Delivered, true},
		{Assigned, Assigned, true},
		{Delivered, PickedUp, false},
		{PickedUp, Assigned, false},
		{FulfillmentNone, PickedUp, false},
	}
	for _, tc := range cases {
		err := CheckAdvance(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Fatalf("%s -> %s: expected allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.ok && !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s -> %s: expected validation error, got %v", tc.from, tc.to, err)
		}
	}
}

func TestRoutable(t *testing.T) {
	if !Routable(Unscheduled, FulfillmentNone) || !Routable(Unscheduled, Assigned) {
		t.Fatal("expected unscheduled pending and assigned bookings to be routable")
	}
	if Routable(Scheduled, FulfillmentNone) || Routable(Unscheduled, PickedUp) {
		t.Fatal("expected scheduled or picked up bookings to be skipped")
	}
}
