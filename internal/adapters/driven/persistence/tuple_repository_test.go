package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driven"
)

func newTestRepository(t *testing.T) driven.TupleRepository {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return NewTupleRepository(db)
}

func testTuple(resourceID string, relation domain.Relation, subjectID string) domain.PermissionTuple {
	return domain.PermissionTuple{
		TenantID:     1,
		ResourceType: domain.ResourceTypeBookmark,
		ResourceID:   resourceID,
		Relation:     relation,
		SubjectType:  domain.SubjectTypeUser,
		SubjectID:    subjectID,
	}
}

func TestUpsertKeepsOneRowPerKey(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, testTuple("b1", domain.RelationEditor, "u1"))
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.False(t, first.CreateTime.IsZero())

	grantedBy := int64(42)
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	update := testTuple("b1", domain.RelationEditor, "u1")
	update.GrantedBy = &grantedBy
	update.ExpiresAt = &expiry

	second, err := repo.Upsert(ctx, update)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.GrantedBy)
	require.EqualValues(t, 42, *second.GrantedBy)
	require.NotNil(t, second.ExpiresAt)

	// A different relation on the same pair is a separate row.
	third, err := repo.Upsert(ctx, testTuple("b1", domain.RelationViewer, "u1"))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, third.ID)

	_, total, err := repo.List(ctx, 1, domain.TupleFilter{}, domain.Page{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestDeleteExactAndWildcard(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testTuple("b1", domain.RelationEditor, "u1"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testTuple("b1", domain.RelationSharer, "u1"))
	require.NoError(t, err)

	relation := domain.RelationEditor
	affected, err := repo.Delete(ctx, 1, domain.ResourceTypeBookmark, "b1",
		domain.SubjectTypeUser, "u1", &relation)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	affected, err = repo.Delete(ctx, 1, domain.ResourceTypeBookmark, "b1",
		domain.SubjectTypeUser, "u1", nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// Nothing left; the wildcard delete is still a success.
	affected, err = repo.Delete(ctx, 1, domain.ResourceTypeBookmark, "b1",
		domain.SubjectTypeUser, "u1", nil)
	require.NoError(t, err)
	require.Zero(t, affected)
}

func TestListForResourceIncludesExpired(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	expired := testTuple("b1", domain.RelationOwner, "u1")
	expired.ExpiresAt = &past
	_, err := repo.Upsert(ctx, expired)
	require.NoError(t, err)

	subjects := []domain.Subject{{Type: domain.SubjectTypeUser, ID: "u1"}}
	tuples, err := repo.ListForResource(ctx, 1, domain.ResourceTypeBookmark, "b1", subjects)
	require.NoError(t, err)
	require.Len(t, tuples, 1, "expired rows are returned; the caller decides their meaning")

	// Other subjects on the same resource do not match.
	tuples, err = repo.ListForResource(ctx, 1, domain.ResourceTypeBookmark, "b1",
		[]domain.Subject{{Type: domain.SubjectTypeUser, ID: "u2"}})
	require.NoError(t, err)
	require.Empty(t, tuples)
}

func TestListResourceIDsPagingAndTotal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, id := range []string{"b3", "b1", "b2"} {
		_, err := repo.Upsert(ctx, testTuple(id, domain.RelationViewer, "u1"))
		require.NoError(t, err)
	}
	// A second relation on b1 must not duplicate it.
	_, err := repo.Upsert(ctx, testTuple("b1", domain.RelationOwner, "u1"))
	require.NoError(t, err)
	// An expired grant on b4 must not appear.
	past := time.Now().Add(-time.Minute)
	expired := testTuple("b4", domain.RelationViewer, "u1")
	expired.ExpiresAt = &past
	_, err = repo.Upsert(ctx, expired)
	require.NoError(t, err)

	subjects := []domain.Subject{{Type: domain.SubjectTypeUser, ID: "u1"}}
	relations := []domain.Relation{domain.RelationOwner, domain.RelationEditor, domain.RelationViewer, domain.RelationSharer}

	ids, total, err := repo.ListResourceIDs(ctx, 1, domain.ResourceTypeBookmark,
		subjects, relations, time.Now(), domain.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, []string{"b1", "b2"}, ids)

	ids, _, err = repo.ListResourceIDs(ctx, 1, domain.ResourceTypeBookmark,
		subjects, relations, time.Now(), domain.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"b3"}, ids)
}

func TestListFiltersAndOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testTuple("b1", domain.RelationEditor, "u1"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testTuple("b2", domain.RelationViewer, "u2"))
	require.NoError(t, err)

	subjectID := "u2"
	tuples, total, err := repo.List(ctx, 1, domain.TupleFilter{SubjectID: &subjectID}, domain.Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, tuples, 1)
	require.Equal(t, "b2", tuples[0].ResourceID)

	// Unfiltered listing is newest first.
	tuples, _, err = repo.List(ctx, 1, domain.TupleFilter{}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	require.Equal(t, "b2", tuples[0].ResourceID)

	// Another tenant sees nothing.
	_, total, err = repo.List(ctx, 2, domain.TupleFilter{}, domain.Page{})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestDeleteExpiredBefore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Minute)

	expired := testTuple("b1", domain.RelationViewer, "u1")
	expired.ExpiresAt = &old
	_, err := repo.Upsert(ctx, expired)
	require.NoError(t, err)

	fresh := testTuple("b2", domain.RelationViewer, "u1")
	fresh.ExpiresAt = &recent
	_, err = repo.Upsert(ctx, fresh)
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, testTuple("b3", domain.RelationViewer, "u1"))
	require.NoError(t, err)

	removed, err := repo.DeleteExpiredBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, total, err := repo.List(ctx, 1, domain.TupleFilter{}, domain.Page{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total, "recently expired and unexpiring rows survive the sweep")
}
