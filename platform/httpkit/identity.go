// Package httpkit provides HTTP utilities shared by all modules.
package httpkit

import (
	"net/http"

	"ewaste_pickup_backend/platform/authz"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as seen by handlers and services.
type Identity interface {
	UserID() uuid.UUID
	Role() authz.Role
	// Can reports whether the caller's role holds the capability.
	Can(c authz.Capability) bool
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	role          authz.Role
	authenticated bool
}

func (i *identity) UserID() uuid.UUID     { return i.userID }
func (i *identity) Role() authz.Role      { return i.role }
func (i *identity) IsAuthenticated() bool { return i.authenticated }
func (i *identity) Can(c authz.Capability) bool {
	return i.authenticated && authz.Allows(i.role, c)
}

// Actor converts the identity into the value services authorise against.
func Actor(id Identity) authz.Actor {
	return authz.Actor{UserID: id.UserID(), Role: id.Role()}
}

// NewIdentity builds an authenticated identity. Used by tests and background jobs.
func NewIdentity(userID uuid.UUID, role authz.Role) Identity {
	return &identity{userID: userID, role: role, authenticated: true}
}

// GetIdentity extracts the caller set by AuthRequired.
func GetIdentity(c *gin.Context) Identity {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &identity{}
	}
	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	role, _ := c.Get(ContextRoleKey)
	r, _ := role.(authz.Role)

	return &identity{userID: uid, role: r, authenticated: r.Valid()}
}

// MustGetIdentity aborts with 401 and returns nil when the caller is not authenticated.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil
	}
	return id
}
