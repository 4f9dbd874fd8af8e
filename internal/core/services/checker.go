package services

import (
	"context"
	"fmt"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driving"
)

// Checker is the high-level convenience API for guarding operations.
// It turns Check denials into ErrPermissionDenied while letting
// infrastructure faults pass through untouched.
type Checker struct {
	svc driving.AuthorizationService
}

// NewChecker creates a checker over the authorization service.
func NewChecker(svc driving.AuthorizationService) *Checker {
	return &Checker{svc: svc}
}

func (c *Checker) CanRead(ctx context.Context, tenantID int64, userID, resourceID string) error {
	return c.Require(ctx, tenantID, userID, domain.ResourceTypeBookmark, resourceID, domain.PermissionRead)
}

func (c *Checker) CanWrite(ctx context.Context, tenantID int64, userID, resourceID string) error {
	return c.Require(ctx, tenantID, userID, domain.ResourceTypeBookmark, resourceID, domain.PermissionWrite)
}

func (c *Checker) CanDelete(ctx context.Context, tenantID int64, userID, resourceID string) error {
	return c.Require(ctx, tenantID, userID, domain.ResourceTypeBookmark, resourceID, domain.PermissionDelete)
}

func (c *Checker) CanShare(ctx context.Context, tenantID int64, userID, resourceID string) error {
	return c.Require(ctx, tenantID, userID, domain.ResourceTypeBookmark, resourceID, domain.PermissionShare)
}

// Require runs a check and fails with ErrPermissionDenied unless the
// permission is held.
func (c *Checker) Require(ctx context.Context, tenantID int64, userID string,
	resourceType domain.ResourceType, resourceID string, permission domain.Permission) error {
	result, err := c.svc.Check(ctx, tenantID, userID, resourceType, resourceID, permission)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, result.Reason)
	}
	return nil
}
