package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driven"
)

// PermissionTupleRecord is a row in the bookmark_permissions table. The
// composite unique index carries the upsert semantics: one row per
// (tenant, resource type, resource id, relation, subject type, subject
// id). Secondary indexes serve the forward (by resource) and reverse
// (by subject) access paths.
type PermissionTupleRecord struct {
	ID           uint   `gorm:"primaryKey"`
	TenantID     int64  `gorm:"not null;uniqueIndex:uniq_permission_tuple,priority:1;index:idx_tuple_resource,priority:1"`
	ResourceType string `gorm:"size:64;not null;uniqueIndex:uniq_permission_tuple,priority:2;index:idx_tuple_resource,priority:2"`
	ResourceID   string `gorm:"size:255;not null;uniqueIndex:uniq_permission_tuple,priority:3;index:idx_tuple_resource,priority:3"`
	Relation     string `gorm:"size:64;not null;uniqueIndex:uniq_permission_tuple,priority:4"`
	SubjectType  string `gorm:"size:64;not null;uniqueIndex:uniq_permission_tuple,priority:5;index:idx_tuple_subject,priority:1"`
	SubjectID    string `gorm:"size:255;not null;uniqueIndex:uniq_permission_tuple,priority:6;index:idx_tuple_subject,priority:2"`
	GrantedBy    *int64
	ExpiresAt    *time.Time
	CreateTime   time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the table name the platform schema uses.
func (PermissionTupleRecord) TableName() string {
	return "bookmark_permissions"
}

// TupleRepository implements driven.TupleRepository on GORM.
type TupleRepository struct {
	db *gorm.DB
}

// NewTupleRepository creates a tuple repository over an open database.
func NewTupleRepository(db *gorm.DB) driven.TupleRepository {
	return &TupleRepository{db: db}
}

func (r *TupleRepository) Upsert(ctx context.Context, tuple domain.PermissionTuple) (domain.PermissionTuple, error) {
	record := PermissionTupleRecord{
		TenantID:     tuple.TenantID,
		ResourceType: tuple.ResourceType.String(),
		ResourceID:   tuple.ResourceID,
		Relation:     tuple.Relation.String(),
		SubjectType:  tuple.SubjectType.String(),
		SubjectID:    tuple.SubjectID,
		GrantedBy:    tuple.GrantedBy,
		ExpiresAt:    tuple.ExpiresAt,
	}

	// Single atomic conditional write: two concurrent grants on the same
	// key can never produce duplicate rows, and the later commit wins.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"}, {Name: "resource_type"}, {Name: "resource_id"},
			{Name: "relation"}, {Name: "subject_type"}, {Name: "subject_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"granted_by", "expires_at"}),
	}).Create(&record).Error
	if err != nil {
		return domain.PermissionTuple{}, storeErr(err)
	}

	// Re-read by key: on conflict the Create above does not populate the
	// surviving row's id and create_time.
	var stored PermissionTupleRecord
	err = r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ? AND resource_id = ? AND relation = ? AND subject_type = ? AND subject_id = ?",
			record.TenantID, record.ResourceType, record.ResourceID,
			record.Relation, record.SubjectType, record.SubjectID).
		First(&stored).Error
	if err != nil {
		return domain.PermissionTuple{}, storeErr(err)
	}
	return toDomainTuple(stored)
}

func (r *TupleRepository) Delete(ctx context.Context, tenantID int64, resourceType domain.ResourceType,
	resourceID string, subjectType domain.SubjectType, subjectID string, relation *domain.Relation) (int64, error) {
	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ? AND resource_id = ? AND subject_type = ? AND subject_id = ?",
			tenantID, resourceType.String(), resourceID, subjectType.String(), subjectID)
	if relation != nil {
		q = q.Where("relation = ?", relation.String())
	}

	result := q.Delete(&PermissionTupleRecord{})
	if result.Error != nil {
		return 0, storeErr(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *TupleRepository) ListForResource(ctx context.Context, tenantID int64, resourceType domain.ResourceType,
	resourceID string, subjects []domain.Subject) ([]domain.PermissionTuple, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	var records []PermissionTupleRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ? AND resource_id = ?",
			tenantID, resourceType.String(), resourceID).
		Where(r.subjectCondition(subjects)).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return toDomainTuples(records)
}

func (r *TupleRepository) ListResourceIDs(ctx context.Context, tenantID int64, resourceType domain.ResourceType,
	subjects []domain.Subject, relations []domain.Relation, now time.Time, page domain.Page) ([]string, int64, error) {
	if len(subjects) == 0 || len(relations) == 0 {
		return nil, 0, nil
	}
	page = page.Normalize()

	relationTokens := make([]string, len(relations))
	for i, rel := range relations {
		relationTokens[i] = rel.String()
	}

	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&PermissionTupleRecord{}).
			Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType.String()).
			Where(r.subjectCondition(subjects)).
			Where("relation IN ?", relationTokens).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}

	var total int64
	if err := query().Distinct("resource_id").Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	var ids []string
	err := query().Distinct().
		Order("resource_id ASC").
		Limit(page.Size).Offset(page.Offset()).
		Pluck("resource_id", &ids).Error
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return ids, total, nil
}

func (r *TupleRepository) List(ctx context.Context, tenantID int64, filter domain.TupleFilter,
	page domain.Page) ([]domain.PermissionTuple, int64, error) {
	page = page.Normalize()

	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&PermissionTupleRecord{}).
			Where("tenant_id = ?", tenantID)
		if filter.ResourceType != nil {
			q = q.Where("resource_type = ?", filter.ResourceType.String())
		}
		if filter.ResourceID != nil {
			q = q.Where("resource_id = ?", *filter.ResourceID)
		}
		if filter.SubjectType != nil {
			q = q.Where("subject_type = ?", filter.SubjectType.String())
		}
		if filter.SubjectID != nil {
			q = q.Where("subject_id = ?", *filter.SubjectID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	var records []PermissionTupleRecord
	err := query().
		Order("create_time DESC, id DESC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, storeErr(err)
	}

	tuples, err := toDomainTuples(records)
	if err != nil {
		return nil, 0, err
	}
	return tuples, total, nil
}

func (r *TupleRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", cutoff).
		Delete(&PermissionTupleRecord{})
	if result.Error != nil {
		return 0, storeErr(result.Error)
	}
	return result.RowsAffected, nil
}

// subjectCondition builds the grouped OR matching any of the subject
// references.
func (r *TupleRepository) subjectCondition(subjects []domain.Subject) *gorm.DB {
	cond := r.db.Where("subject_type = ? AND subject_id = ?", subjects[0].Type.String(), subjects[0].ID)
	for _, s := range subjects[1:] {
		cond = cond.Or("subject_type = ? AND subject_id = ?", s.Type.String(), s.ID)
	}
	return cond
}

func toDomainTuple(record PermissionTupleRecord) (domain.PermissionTuple, error) {
	resourceType, err := domain.ParseResourceType(record.ResourceType)
	if err != nil {
		return domain.PermissionTuple{}, fmt.Errorf("tuple %d: %w", record.ID, err)
	}
	relation, err := domain.ParseRelation(record.Relation)
	if err != nil {
		return domain.PermissionTuple{}, fmt.Errorf("tuple %d: %w", record.ID, err)
	}
	subjectType, err := domain.ParseSubjectType(record.SubjectType)
	if err != nil {
		return domain.PermissionTuple{}, fmt.Errorf("tuple %d: %w", record.ID, err)
	}

	return domain.PermissionTuple{
		ID:           record.ID,
		TenantID:     record.TenantID,
		ResourceType: resourceType,
		ResourceID:   record.ResourceID,
		Relation:     relation,
		SubjectType:  subjectType,
		SubjectID:    record.SubjectID,
		GrantedBy:    record.GrantedBy,
		ExpiresAt:    record.ExpiresAt,
		CreateTime:   record.CreateTime,
	}, nil
}

func toDomainTuples(records []PermissionTupleRecord) ([]domain.PermissionTuple, error) {
	tuples := make([]domain.PermissionTuple, 0, len(records))
	for _, record := range records {
		tuple, err := toDomainTuple(record)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
