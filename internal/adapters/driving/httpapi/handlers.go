package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driving"
)

// effectiveTenant resolves which tenant a request operates on. Platform
// admins may name any tenant explicitly; everyone else is bound to the
// tenant from their identity headers.
func effectiveTenant(rc RequestContext, requested *int64) (int64, error) {
	if requested == nil || *requested == rc.TenantID {
		return rc.TenantID, nil
	}
	if rc.IsPlatformAdmin() {
		return *requested, nil
	}
	return 0, fmt.Errorf("%w: tenant %d does not match caller tenant %d",
		domain.ErrTenantMismatch, *requested, rc.TenantID)
}

// queryTenant parses an explicit tenantId query parameter. A malformed
// value is rejected outright so a typo never silently retargets the
// request at the caller's own tenant.
func queryTenant(q url.Values) (*int64, error) {
	raw := q.Get("tenantId")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: tenant id %q", domain.ErrInvalidEnum, raw)
	}
	return &id, nil
}

func parsePage(q url.Values) domain.Page {
	var page domain.Page
	page.Number, _ = strconv.Atoi(q.Get("page"))
	page.Size, _ = strconv.Atoi(q.Get("pageSize"))
	return page
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tenantID, err := effectiveTenant(rc, req.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}

	resourceType, err := domain.ParseResourceType(req.ResourceType)
	if err != nil {
		writeError(w, err)
		return
	}
	relation, err := domain.ParseRelation(req.Relation)
	if err != nil {
		writeError(w, err)
		return
	}
	subjectType, err := domain.ParseSubjectType(req.SubjectType)
	if err != nil {
		writeError(w, err)
		return
	}

	if !rc.IsPlatformAdmin() {
		if err := s.checker.Require(r.Context(), tenantID, rc.UserID,
			resourceType, req.ResourceID, domain.PermissionShare); err != nil {
			writeError(w, err)
			return
		}
	}

	cmd := driving.GrantCommand{
		TenantID:     tenantID,
		ResourceType: resourceType,
		ResourceID:   req.ResourceID,
		Relation:     relation,
		SubjectType:  subjectType,
		SubjectID:    req.SubjectID,
		ExpiresAt:    req.ExpiresAt,
	}
	if grantedBy, err := strconv.ParseInt(rc.UserID, 10, 64); err == nil {
		cmd.GrantedBy = &grantedBy
	}

	tuple, err := s.svc.Grant(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTupleResponse(tuple))
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())
	q := r.URL.Query()

	requested, err := queryTenant(q)
	if err != nil {
		writeError(w, err)
		return
	}
	tenantID, err := effectiveTenant(rc, requested)
	if err != nil {
		writeError(w, err)
		return
	}

	resourceType, err := domain.ParseResourceType(q.Get("resourceType"))
	if err != nil {
		writeError(w, err)
		return
	}
	subjectType, err := domain.ParseSubjectType(q.Get("subjectType"))
	if err != nil {
		writeError(w, err)
		return
	}

	cmd := driving.RevokeCommand{
		TenantID:     tenantID,
		ResourceType: resourceType,
		ResourceID:   q.Get("resourceId"),
		SubjectType:  subjectType,
		SubjectID:    q.Get("subjectId"),
	}
	if raw := q.Get("relation"); raw != "" {
		relation, err := domain.ParseRelation(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		cmd.Relation = &relation
	}

	if !rc.IsPlatformAdmin() {
		if err := s.checker.Require(r.Context(), tenantID, rc.UserID,
			resourceType, cmd.ResourceID, domain.PermissionShare); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := s.svc.Revoke(r.Context(), cmd); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())
	q := r.URL.Query()

	requested, err := queryTenant(q)
	if err != nil {
		writeError(w, err)
		return
	}
	tenantID, err := effectiveTenant(rc, requested)
	if err != nil {
		writeError(w, err)
		return
	}

	var filter domain.TupleFilter
	if raw := q.Get("resourceType"); raw != "" {
		resourceType, err := domain.ParseResourceType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.ResourceType = &resourceType
	}
	if raw := q.Get("resourceId"); raw != "" {
		filter.ResourceID = &raw
	}
	if raw := q.Get("subjectType"); raw != "" {
		subjectType, err := domain.ParseSubjectType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.SubjectType = &subjectType
	}
	if raw := q.Get("subjectId"); raw != "" {
		filter.SubjectID = &raw
	}

	tuples, total, err := s.svc.ListPermissions(r.Context(), tenantID, filter, parsePage(q))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listResponse{Permissions: make([]tupleResponse, 0, len(tuples)), Total: total}
	for _, t := range tuples {
		resp.Permissions = append(resp.Permissions, toTupleResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// A tenant mismatch is the highest-priority denial, reported as a
	// result rather than an error.
	if req.TenantID != nil && *req.TenantID != rc.TenantID && !rc.IsPlatformAdmin() {
		writeJSON(w, http.StatusOK, checkResponse{
			Allowed: false,
			Reason:  string(domain.DenyReasonTenantMismatch),
		})
		return
	}
	tenantID := rc.TenantID
	if req.TenantID != nil && rc.IsPlatformAdmin() {
		tenantID = *req.TenantID
	}

	userID := req.UserID
	if userID == "" {
		userID = rc.UserID
	}

	resourceType, err := domain.ParseResourceType(req.ResourceType)
	if err != nil {
		writeError(w, err)
		return
	}
	permission, err := domain.ParsePermission(req.Permission)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.svc.Check(r.Context(), tenantID, userID, resourceType, req.ResourceID, permission)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := checkResponse{Allowed: result.Allowed, Reason: string(result.Reason)}
	if result.Allowed {
		resp.Relation = result.Relation.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccessible(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())
	q := r.URL.Query()

	requested, err := queryTenant(q)
	if err != nil {
		writeError(w, err)
		return
	}
	tenantID, err := effectiveTenant(rc, requested)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := q.Get("userId")
	if userID == "" {
		userID = rc.UserID
	}
	resourceType, err := domain.ParseResourceType(q.Get("resourceType"))
	if err != nil {
		writeError(w, err)
		return
	}
	permission, err := domain.ParsePermission(q.Get("permission"))
	if err != nil {
		writeError(w, err)
		return
	}

	ids, total, err := s.svc.ListAccessibleResources(r.Context(), tenantID, userID,
		resourceType, permission, parsePage(q))
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, accessibleResponse{ResourceIDs: ids, Total: total})
}

func (s *Server) handleEffective(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())
	q := r.URL.Query()

	requested, err := queryTenant(q)
	if err != nil {
		writeError(w, err)
		return
	}
	tenantID, err := effectiveTenant(rc, requested)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := q.Get("userId")
	if userID == "" {
		userID = rc.UserID
	}
	resourceType, err := domain.ParseResourceType(q.Get("resourceType"))
	if err != nil {
		writeError(w, err)
		return
	}

	effective, err := s.svc.GetEffectivePermissions(r.Context(), tenantID, userID,
		resourceType, q.Get("resourceId"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := effectiveResponse{
		Permissions:     make([]string, 0, len(effective.Permissions)),
		HighestRelation: effective.HighestRelation.String(),
	}
	for _, p := range effective.Permissions {
		resp.Permissions = append(resp.Permissions, p.String())
	}
	writeJSON(w, http.StatusOK, resp)
}
