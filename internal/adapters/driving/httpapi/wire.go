package httpapi

import (
	"time"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type grantRequest struct {
	TenantID     *int64     `json:"tenantId"`
	ResourceType string     `json:"resourceType"`
	ResourceID   string     `json:"resourceId"`
	Relation     string     `json:"relation"`
	SubjectType  string     `json:"subjectType"`
	SubjectID    string     `json:"subjectId"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type checkRequest struct {
	TenantID     *int64 `json:"tenantId"`
	UserID       string `json:"userId"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId"`
	Permission   string `json:"permission"`
}

type checkResponse struct {
	Allowed  bool   `json:"allowed"`
	Relation string `json:"relation,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type tupleResponse struct {
	ID           uint       `json:"id"`
	TenantID     int64      `json:"tenantId"`
	ResourceType string     `json:"resourceType"`
	ResourceID   string     `json:"resourceId"`
	Relation     string     `json:"relation"`
	SubjectType  string     `json:"subjectType"`
	SubjectID    string     `json:"subjectId"`
	GrantedBy    *int64     `json:"grantedBy,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreateTime   time.Time  `json:"createTime"`
}

func toTupleResponse(t domain.PermissionTuple) tupleResponse {
	return tupleResponse{
		ID:           t.ID,
		TenantID:     t.TenantID,
		ResourceType: t.ResourceType.String(),
		ResourceID:   t.ResourceID,
		Relation:     t.Relation.String(),
		SubjectType:  t.SubjectType.String(),
		SubjectID:    t.SubjectID,
		GrantedBy:    t.GrantedBy,
		ExpiresAt:    t.ExpiresAt,
		CreateTime:   t.CreateTime,
	}
}

type listResponse struct {
	Permissions []tupleResponse `json:"permissions"`
	Total       int64           `json:"total"`
}

type accessibleResponse struct {
	ResourceIDs []string `json:"resourceIds"`
	Total       int64    `json:"total"`
}

type effectiveResponse struct {
	Permissions     []string `json:"permissions"`
	HighestRelation string   `json:"highestRelation"`
}
