package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driven"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driving"
)

// AuthorizationEngine answers permission questions from stored tuples.
// It is a stateless request handler over the shared tuple store: any
// number of calls may run concurrently, mutation atomicity lives in the
// repository's upsert/delete, and reads take no locks.
type AuthorizationEngine struct {
	tuples   driven.TupleRepository
	resolver driven.SubjectResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthorizationEngine wires the engine from its collaborators.
func NewAuthorizationEngine(tuples driven.TupleRepository, resolver driven.SubjectResolver, logger *zap.Logger) *AuthorizationEngine {
	return &AuthorizationEngine{
		tuples:   tuples,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

var _ driving.AuthorizationService = (*AuthorizationEngine)(nil)

// Grant upserts a tuple on its unique key. A repeated grant replaces
// expires_at and granted_by and leaves create_time untouched; callers
// see no difference between insert and update.
func (e *AuthorizationEngine) Grant(ctx context.Context, cmd driving.GrantCommand) (domain.PermissionTuple, error) {
	if cmd.ResourceType == domain.ResourceTypeUnspecified ||
		cmd.Relation == domain.RelationUnspecified ||
		cmd.SubjectType == domain.SubjectTypeUnspecified {
		return domain.PermissionTuple{}, fmt.Errorf("%w: grant requires resource type, relation and subject type", domain.ErrInvalidEnum)
	}
	if cmd.ResourceID == "" || cmd.SubjectID == "" {
		return domain.PermissionTuple{}, fmt.Errorf("%w: resource id and subject id are required", domain.ErrInvalidEnum)
	}
	// A tenant-wide grant may only reference the caller's own tenant.
	if cmd.SubjectType == domain.SubjectTypeTenant && cmd.SubjectID != strconv.FormatInt(cmd.TenantID, 10) {
		return domain.PermissionTuple{}, fmt.Errorf("%w: tenant grant for foreign tenant %q", domain.ErrTenantMismatch, cmd.SubjectID)
	}

	tuple, err := e.tuples.Upsert(ctx, domain.PermissionTuple{
		TenantID:     cmd.TenantID,
		ResourceType: cmd.ResourceType,
		ResourceID:   cmd.ResourceID,
		Relation:     cmd.Relation,
		SubjectType:  cmd.SubjectType,
		SubjectID:    cmd.SubjectID,
		GrantedBy:    cmd.GrantedBy,
		ExpiresAt:    cmd.ExpiresAt,
	})
	if err != nil {
		return domain.PermissionTuple{}, err
	}

	e.logger.Info("permission granted",
		zap.Int64("tenant_id", cmd.TenantID),
		zap.String("resource_id", cmd.ResourceID),
		zap.String("relation", cmd.Relation.String()),
		zap.String("subject_type", cmd.SubjectType.String()),
		zap.String("subject_id", cmd.SubjectID),
	)
	return tuple, nil
}

// Revoke deletes the exact tuple, or every relation the subject holds on
// the resource when no relation is given. Revoking a non-existent grant
// succeeds with zero rows affected.
func (e *AuthorizationEngine) Revoke(ctx context.Context, cmd driving.RevokeCommand) error {
	if cmd.ResourceType == domain.ResourceTypeUnspecified || cmd.SubjectType == domain.SubjectTypeUnspecified {
		return fmt.Errorf("%w: revoke requires resource type and subject type", domain.ErrInvalidEnum)
	}
	if cmd.Relation != nil && *cmd.Relation == domain.RelationUnspecified {
		return fmt.Errorf("%w: relation %q", domain.ErrInvalidEnum, cmd.Relation.String())
	}

	affected, err := e.tuples.Delete(ctx, cmd.TenantID, cmd.ResourceType, cmd.ResourceID,
		cmd.SubjectType, cmd.SubjectID, cmd.Relation)
	if err != nil {
		return err
	}

	e.logger.Info("permission revoked",
		zap.Int64("tenant_id", cmd.TenantID),
		zap.String("resource_id", cmd.ResourceID),
		zap.String("subject_id", cmd.SubjectID),
		zap.Int64("rows", affected),
	)
	return nil
}

// Check resolves the caller's subject set and tests whether any active
// tuple's relation grants the permission. A denial names the first
// reason in priority order: NO_GRANT, EXPIRED, INSUFFICIENT_RELATION.
func (e *AuthorizationEngine) Check(ctx context.Context, tenantID int64, userID string,
	resourceType domain.ResourceType, resourceID string, permission domain.Permission) (driving.CheckResult, error) {
	if resourceType == domain.ResourceTypeUnspecified || permission == domain.PermissionUnspecified {
		return driving.CheckResult{}, fmt.Errorf("%w: check requires resource type and permission", domain.ErrInvalidEnum)
	}

	subjects, err := e.resolver.ResolveSubjects(ctx, tenantID, userID)
	if err != nil {
		return driving.CheckResult{}, err
	}

	tuples, err := e.tuples.ListForResource(ctx, tenantID, resourceType, resourceID, subjects)
	if err != nil {
		return driving.CheckResult{}, err
	}

	result := e.evaluate(tuples, permission)
	e.logger.Debug("permission check",
		zap.Int64("tenant_id", tenantID),
		zap.String("user_id", userID),
		zap.String("resource_id", resourceID),
		zap.String("permission", permission.String()),
		zap.Bool("allowed", result.Allowed),
		zap.String("reason", string(result.Reason)),
	)
	return result, nil
}

func (e *AuthorizationEngine) evaluate(tuples []domain.PermissionTuple, permission domain.Permission) driving.CheckResult {
	if len(tuples) == 0 {
		return driving.CheckResult{Reason: domain.DenyReasonNoGrant}
	}

	now := e.now()
	var matched []domain.Relation
	anyActive := false
	for _, tuple := range tuples {
		if !tuple.Active(now) {
			continue
		}
		anyActive = true
		if tuple.Relation.Grants(permission) {
			matched = append(matched, tuple.Relation)
		}
	}

	if !anyActive {
		return driving.CheckResult{Reason: domain.DenyReasonExpired}
	}
	if len(matched) == 0 {
		return driving.CheckResult{Reason: domain.DenyReasonInsufficientRelation}
	}
	return driving.CheckResult{Allowed: true, Relation: domain.HighestRelation(matched)}
}

// ListAccessibleResources is the reverse query: every resource id the
// user can reach with the permission, deduplicated across subjects and
// relations, in stable resource-id order.
func (e *AuthorizationEngine) ListAccessibleResources(ctx context.Context, tenantID int64, userID string,
	resourceType domain.ResourceType, permission domain.Permission, page domain.Page) ([]string, int64, error) {
	if resourceType == domain.ResourceTypeUnspecified || permission == domain.PermissionUnspecified {
		return nil, 0, fmt.Errorf("%w: listing requires resource type and permission", domain.ErrInvalidEnum)
	}

	subjects, err := e.resolver.ResolveSubjects(ctx, tenantID, userID)
	if err != nil {
		return nil, 0, err
	}

	return e.tuples.ListResourceIDs(ctx, tenantID, resourceType, subjects,
		domain.RelationsGranting(permission), e.now(), page)
}

// GetEffectivePermissions unions the permission sets of every active
// matching relation and reports the highest-priority one, or
// UNSPECIFIED when nothing matches.
func (e *AuthorizationEngine) GetEffectivePermissions(ctx context.Context, tenantID int64, userID string,
	resourceType domain.ResourceType, resourceID string) (driving.EffectivePermissions, error) {
	if resourceType == domain.ResourceTypeUnspecified {
		return driving.EffectivePermissions{}, fmt.Errorf("%w: resource type %q", domain.ErrInvalidEnum, resourceType.String())
	}

	subjects, err := e.resolver.ResolveSubjects(ctx, tenantID, userID)
	if err != nil {
		return driving.EffectivePermissions{}, err
	}

	tuples, err := e.tuples.ListForResource(ctx, tenantID, resourceType, resourceID, subjects)
	if err != nil {
		return driving.EffectivePermissions{}, err
	}

	now := e.now()
	var relations []domain.Relation
	for _, tuple := range tuples {
		if tuple.Active(now) {
			relations = append(relations, tuple.Relation)
		}
	}

	var permissions []domain.Permission
	for _, permission := range domain.AllPermissions {
		for _, relation := range relations {
			if relation.Grants(permission) {
				permissions = append(permissions, permission)
				break
			}
		}
	}

	return driving.EffectivePermissions{
		Permissions:     permissions,
		HighestRelation: domain.HighestRelation(relations),
	}, nil
}

// ListPermissions is the administrative listing: raw tuples for a
// tenant, expired rows included, newest first.
func (e *AuthorizationEngine) ListPermissions(ctx context.Context, tenantID int64,
	filter domain.TupleFilter, page domain.Page) ([]domain.PermissionTuple, int64, error) {
	return e.tuples.List(ctx, tenantID, filter, page)
}
