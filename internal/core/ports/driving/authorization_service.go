package driving

import (
	"context"
	"time"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
)

// GrantCommand describes a grant (upsert) of one relation to one subject
// on one resource.
type GrantCommand struct {
	TenantID     int64
	ResourceType domain.ResourceType
	ResourceID   string
	Relation     domain.Relation
	SubjectType  domain.SubjectType
	SubjectID    string
	GrantedBy    *int64
	ExpiresAt    *time.Time
}

// RevokeCommand describes a revoke. A nil Relation removes every
// relation the subject holds on the resource.
type RevokeCommand struct {
	TenantID     int64
	ResourceType domain.ResourceType
	ResourceID   string
	SubjectType  domain.SubjectType
	SubjectID    string
	Relation     *domain.Relation
}

// CheckResult is the outcome of a permission check. Denial is a result,
// not an error: Reason names the first denial cause in priority order.
type CheckResult struct {
	Allowed  bool
	Relation domain.Relation
	Reason   domain.DenyReason
}

// EffectivePermissions is the full permission set and highest relation a
// user holds on a resource after combining all applicable tuples. It
// informs UIs which actions to render; mutating callers must still call
// Check to avoid time-of-check/time-of-use drift.
type EffectivePermissions struct {
	Permissions     []domain.Permission
	HighestRelation domain.Relation
}

// AuthorizationService is the driving interface of the authorization
// engine behind /permissions.
type AuthorizationService interface {
	Grant(ctx context.Context, cmd GrantCommand) (domain.PermissionTuple, error)

	Revoke(ctx context.Context, cmd RevokeCommand) error

	Check(ctx context.Context, tenantID int64, userID string, resourceType domain.ResourceType,
		resourceID string, permission domain.Permission) (CheckResult, error)

	ListAccessibleResources(ctx context.Context, tenantID int64, userID string,
		resourceType domain.ResourceType, permission domain.Permission,
		page domain.Page) ([]string, int64, error)

	GetEffectivePermissions(ctx context.Context, tenantID int64, userID string,
		resourceType domain.ResourceType, resourceID string) (EffectivePermissions, error)

	ListPermissions(ctx context.Context, tenantID int64, filter domain.TupleFilter,
		page domain.Page) ([]domain.PermissionTuple, int64, error)
}
