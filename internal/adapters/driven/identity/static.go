// Package identity provides IdentityDirectory implementations: a static
// fixture, a remote HTTP client, and an embedded casbin-backed directory.
package identity

import (
	"context"
	"sync"
)

// StaticDirectory is a fixed membership table. It backs tests and
// single-tenant development setups where no identity service runs.
type StaticDirectory struct {
	mu    sync.RWMutex
	roles map[int64]map[string][]string
}

// NewStaticDirectory creates an empty static directory.
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{roles: make(map[int64]map[string][]string)}
}

// SetUserRoles replaces the role codes held by a user within a tenant.
func (d *StaticDirectory) SetUserRoles(tenantID int64, userID string, roles []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.roles[tenantID] == nil {
		d.roles[tenantID] = make(map[string][]string)
	}
	d.roles[tenantID][userID] = append([]string(nil), roles...)
}

// GetUserRoles returns the role codes held by the user in the tenant.
// Unknown users simply hold no roles.
func (d *StaticDirectory) GetUserRoles(_ context.Context, tenantID int64, userID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.roles[tenantID][userID]...), nil
}
