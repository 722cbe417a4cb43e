package service

import (
	"github.com/google/uuid"

	"bank-card-api/internal/core/domain"
	"bank-card-api/pkg/apperror"
)

// PermissionService implements the owner-or-admin access rule.
type PermissionService struct{}

// NewPermissionService creates a new PermissionService.
func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// HasRights returns nil if the caller is an admin or owns the resource.
func (s *PermissionService) HasRights(caller domain.Caller, ownerID uuid.UUID) error {
	if caller.IsAdmin() || caller.ID == ownerID {
		return nil
	}
	return apperror.ErrAccessDenied()
}
