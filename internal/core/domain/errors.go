package domain

import "errors"

// Error taxonomy for the authorization engine. Validation errors are
// rejected before any store access; store and identity faults are
// surfaced unmodified so the transport layer can signal retryability.
var (
	// ErrTenantMismatch means the resource or subject named in a request
	// belongs to a different tenant than the caller. Fatal, never retried.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrInvalidEnum means an unrecognized relation, subject type,
	// resource type, or permission token.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the caller lacks the permission required
	// to perform a management operation (grant/revoke).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIdentityUnavailable means subject resolution failed because the
	// identity directory could not answer. Transient; callers may retry
	// with backoff. Never coerced into an authorization denial.
	ErrIdentityUnavailable = errors.New("identity directory unavailable")

	// ErrStoreUnavailable means the tuple store was unreachable.
	// Transient; retry belongs at the caller, not inside the engine.
	ErrStoreUnavailable = errors.New("permission store unavailable")
)

// DenyReason explains a Check denial. Denial is a result, not an error:
// a successful Check call always carries allowed plus, on denial, the
// first reason encountered in priority order.
type DenyReason string

const (
	// DenyReasonNone accompanies an allowed result.
	DenyReasonNone DenyReason = ""

	// DenyReasonTenantMismatch: the request named a tenant other than the
	// caller's. Evaluated before everything else; a data-isolation
	// invariant, never bypassed by any tuple.
	DenyReasonTenantMismatch DenyReason = "TENANT_MISMATCH"

	// DenyReasonNoGrant: no tuple at all for the subject set.
	DenyReasonNoGrant DenyReason = "NO_GRANT"

	// DenyReasonExpired: tuples existed but all had expired.
	DenyReasonExpired DenyReason = "EXPIRED"

	// DenyReasonInsufficientRelation: an active tuple existed but its
	// relation does not grant the requested permission.
	DenyReasonInsufficientRelation DenyReason = "INSUFFICIENT_RELATION"
)
