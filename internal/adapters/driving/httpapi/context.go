package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Metadata headers using the platform's x-md-global- prefix, propagated
// by the admin gateway on every forwarded request.
const (
	headerTenantID = "x-md-global-tenant-id"
	headerUserID   = "x-md-global-user-id"
	headerUsername = "x-md-global-username"
	headerRoles    = "x-md-global-roles"
)

// RequestContext is the authenticated caller identity extracted from the
// gateway headers.
type RequestContext struct {
	TenantID int64
	UserID   string
	Username string
	Roles    []string
}

// IsPlatformAdmin reports whether the caller holds a platform-wide
// administrative role, which bypasses the share gate on grant/revoke.
func (rc RequestContext) IsPlatformAdmin() bool {
	for _, role := range rc.Roles {
		if role == "platform:admin" || role == "super:admin" {
			return true
		}
	}
	return false
}

var errUnauthenticated = errors.New("missing or invalid caller identity")

// parseRequestContext extracts the caller identity from request headers.
// Platform admins may operate without a tenant; everyone else must carry
// one.
func parseRequestContext(r *http.Request) (RequestContext, error) {
	var rc RequestContext

	if raw := r.Header.Get(headerRoles); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			if role != "" {
				rc.Roles = append(rc.Roles, role)
			}
		}
	}

	tenantID, _ := strconv.ParseInt(r.Header.Get(headerTenantID), 10, 64)
	if tenantID == 0 && !rc.IsPlatformAdmin() {
		return RequestContext{}, errUnauthenticated
	}
	rc.TenantID = tenantID

	rc.UserID = r.Header.Get(headerUserID)
	if rc.UserID == "" {
		return RequestContext{}, errUnauthenticated
	}
	rc.Username = r.Header.Get(headerUsername)

	return rc, nil
}

type contextKey struct{}

func withRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

func requestContextFrom(ctx context.Context) RequestContext {
	rc, _ := ctx.Value(contextKey{}).(RequestContext)
	return rc
}
