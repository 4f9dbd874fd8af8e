package domain

import "time"

// PermissionTuple is a single grant of a relation between a subject and a
// resource. At most one tuple exists per (tenant, resource type, resource
// id, relation, subject type, subject id); regranting the same key updates
// ExpiresAt and GrantedBy in place.
type PermissionTuple struct {
	ID           uint
	TenantID     int64
	ResourceType ResourceType
	ResourceID   string
	Relation     Relation
	SubjectType  SubjectType
	SubjectID    string
	GrantedBy    *int64
	ExpiresAt    *time.Time
	CreateTime   time.Time
}

// Active reports whether the tuple participates in authorization
// decisions at the given evaluation time. Expired tuples stay stored and
// visible to administrative listing until revoked or swept.
func (t PermissionTuple) Active(now time.Time) bool {
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}

// Subject is a principal reference a tuple can match: the user itself,
// one of the user's roles, or the user's tenant.
type Subject struct {
	Type SubjectType
	ID   string
}

// TupleFilter narrows administrative tuple listings. Nil fields match
// everything; the tenant scope is always applied separately.
type TupleFilter struct {
	ResourceType *ResourceType
	ResourceID   *string
	SubjectType  *SubjectType
	SubjectID    *string
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds: page >= 1, 1 <= size <= 100,
// defaulting to 20 per page.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
