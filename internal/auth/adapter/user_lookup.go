// Package adapter exposes auth data to other modules through the interfaces they define.
package adapter

import (
	"context"

	"ewaste_pickup_backend/internal/auth"
	"ewaste_pickup_backend/internal/auth/repository"
	"ewaste_pickup_backend/internal/pickups/ports"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"

	"github.com/google/uuid"
)

// UserLookup resolves users by ID for pickups and notifications.
type UserLookup struct {
	repo repository.UserReader
}

func NewUserLookup(repo repository.UserReader) *UserLookup {
	return &UserLookup{repo: repo}
}

// GetUser returns a NotFound apperr when the user does not exist.
func (a *UserLookup) GetUser(ctx context.Context, id uuid.UUID) (auth.UserInfo, error) {
	u, err := a.repo.GetUserByID(ctx, id)
	if err != nil {
		return auth.UserInfo{}, err
	}

	info := auth.UserInfo{ID: u.ID, Username: u.Username, Role: u.Role}
	if u.Email != nil {
		info.Email = *u.Email
	}
	return info, nil
}

// IsDeliveryAgent implements pickups/ports.AgentDirectory.
func (a *UserLookup) IsDeliveryAgent(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := a.repo.GetUserByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Role == authz.RoleDelivery, nil
}

var _ ports.AgentDirectory = (*UserLookup)(nil)
