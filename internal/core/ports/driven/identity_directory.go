package driven

import (
	"context"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
)

// IdentityDirectory is the boundary to the external identity subsystem.
// It answers which role codes a user currently holds within a tenant.
type IdentityDirectory interface {
	GetUserRoles(ctx context.Context, tenantID int64, userID string) ([]string, error)
}

// SubjectResolver expands a requesting user into the ordered set of
// subject references that could match a tuple: the user itself, each
// role the user holds, and the user's tenant. A resolver failure is a
// non-authoritative fault, never an access denial.
type SubjectResolver interface {
	ResolveSubjects(ctx context.Context, tenantID int64, userID string) ([]domain.Subject, error)
}
