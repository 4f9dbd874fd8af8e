package identity

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
)

// Domain-scoped RBAC model: the casbin domain is the tenant, so role
// membership never leaks across tenants.
const roleModel = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act`

// CasbinDirectory is the embedded identity directory for single-node
// deployments without an external identity service. Role assignments are
// persisted through the casbin gorm adapter in the same database as the
// tuples.
type CasbinDirectory struct {
	enforcer *casbin.Enforcer
}

// NewCasbinDirectory creates the directory, migrating its assignment
// table on first use.
func NewCasbinDirectory(db *gorm.DB) (*CasbinDirectory, error) {
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", "bookmark_role_assignments")
	if err != nil {
		return nil, fmt.Errorf("create role adapter: %w", err)
	}

	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("parse role model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("create role enforcer: %w", err)
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load role assignments: %w", err)
	}
	enforcer.EnableAutoSave(true)

	return &CasbinDirectory{enforcer: enforcer}, nil
}

// GetUserRoles returns the role codes assigned to the user in the tenant.
func (d *CasbinDirectory) GetUserRoles(_ context.Context, tenantID int64, userID string) ([]string, error) {
	roles := d.enforcer.GetRolesForUserInDomain(userID, tenantDomain(tenantID))
	return roles, nil
}

// AssignRole adds a role to a user within a tenant. Assigning an
// already-held role is a no-op.
func (d *CasbinDirectory) AssignRole(tenantID int64, userID, role string) error {
	_, err := d.enforcer.AddRoleForUserInDomain(userID, role, tenantDomain(tenantID))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	return nil
}

// UnassignRole removes a role from a user within a tenant.
func (d *CasbinDirectory) UnassignRole(tenantID int64, userID, role string) error {
	_, err := d.enforcer.DeleteRoleForUserInDomain(userID, role, tenantDomain(tenantID))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	return nil
}

func tenantDomain(tenantID int64) string {
	return fmt.Sprintf("tenant:%d", tenantID)
}
