// Package authz defines the closed set of account roles and what each may do.
package authz

import (
	"strings"

	"ewaste_pickup_backend/platform/apperr"

	"github.com/google/uuid"
)

// Role is an account role. Roles are fixed at account creation.
type Role string

const (
	RoleUser     Role = "user"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// ParseRole returns the role named by s, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDelivery, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role may be chosen at public sign-up.
func (r Role) SelfRegistrable() bool {
	return r == RoleUser || r == RoleDelivery
}

func (r Role) String() string { return string(r) }

// Capability is an operation gated by role.
type Capability string

const (
	CreateBooking       Capability = "booking:create"
	ViewAllBookings     Capability = "booking:view_all"
	ScheduleRoutes      Capability = "route:schedule"
	AssignDelivery      Capability = "delivery:assign"
	AdvanceDelivery     Capability = "delivery:advance"
	ViewDeliveryAgents  Capability = "delivery:list_agents"
	ViewPickupsOverview Capability = "pickups:overview"
	UseOwnPoints        Capability = "points:own"
	AuditPoints         Capability = "points:audit"
	ClassifyImage       Capability = "ai:classify"
)

var grants = map[Role]map[Capability]bool{
	RoleUser: {
		CreateBooking: true,
		UseOwnPoints:  true,
		ClassifyImage: true,
	},
	RoleDelivery: {
		ViewAllBookings: true,
		AdvanceDelivery: true,
	},
	RoleAdmin: {
		ViewAllBookings:     true,
		ScheduleRoutes:      true,
		AssignDelivery:      true,
		ViewDeliveryAgents:  true,
		ViewPickupsOverview: true,
		AuditPoints:         true,
	},
}

// Allows reports whether role r holds capability c.
func Allows(r Role, c Capability) bool {
	return grants[r][c]
}

// Require returns a forbidden error unless r holds c.
func Require(r Role, c Capability) error {
	if Allows(r, c) {
		return nil
	}
	return apperr.Forbidden("role " + string(r) + " is not permitted to perform this action")
}

// Actor is the caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) Can(c Capability) bool {
	return Allows(a.Role, c)
}

// Require returns a forbidden error unless the actor holds c.
func (a Actor) Require(c Capability) error {
	return Require(a.Role, c)
}
