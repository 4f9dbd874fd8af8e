package driven

import (
	"context"
	"time"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
)

// TupleRepository defines the persistence interface for permission tuples.
// The repository exclusively owns tuple rows; no other component mutates
// them directly. Every method is scoped to exactly one tenant.
type TupleRepository interface {
	// Upsert inserts the tuple or, when a row with the same unique key
	// exists, replaces its expires_at and granted_by in a single atomic
	// write. CreateTime is never touched on update. Returns the stored
	// row after the write.
	Upsert(ctx context.Context, tuple domain.PermissionTuple) (domain.PermissionTuple, error)

	// Delete removes tuples for the (resource, subject) pair. When
	// relation is non-nil only the exact tuple goes; when nil every
	// relation for the pair goes. Returns rows affected; deleting
	// nothing is not an error.
	Delete(ctx context.Context, tenantID int64, resourceType domain.ResourceType, resourceID string,
		subjectType domain.SubjectType, subjectID string, relation *domain.Relation) (int64, error)

	// ListForResource returns every tuple on the resource matching one of
	// the given subjects, expired rows included. The engine decides what
	// an expired row means.
	ListForResource(ctx context.Context, tenantID int64, resourceType domain.ResourceType,
		resourceID string, subjects []domain.Subject) ([]domain.PermissionTuple, error)

	// ListResourceIDs is the reverse query: distinct resource ids with an
	// active tuple for any of the subjects whose relation is in
	// relations, ordered by resource id ascending, paged. The returned
	// total counts distinct ids before paging.
	ListResourceIDs(ctx context.Context, tenantID int64, resourceType domain.ResourceType,
		subjects []domain.Subject, relations []domain.Relation, now time.Time,
		page domain.Page) ([]string, int64, error)

	// List returns tuples for administration, filtered and paged,
	// newest first. Expired tuples are listed.
	List(ctx context.Context, tenantID int64, filter domain.TupleFilter,
		page domain.Page) ([]domain.PermissionTuple, int64, error)

	// DeleteExpiredBefore garbage-collects tuples whose expiry lies
	// before the cutoff. Purely hygienic: correctness never depends on
	// it because expired tuples are filtered at read time.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
