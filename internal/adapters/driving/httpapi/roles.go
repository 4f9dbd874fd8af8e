package httpapi

import (
	"encoding/json"
	"net/http"
)

// RoleAssigner manages role membership in the embedded identity
// directory. The routes are only mounted when an assigner is present;
// deployments using a remote identity service manage roles there.
type RoleAssigner interface {
	AssignRole(tenantID int64, userID, role string) error
	UnassignRole(tenantID int64, userID, role string) error
}

// WithRoleAdmin mounts the role administration endpoints on top of the
// permission API.
func (s *Server) WithRoleAdmin(roles RoleAssigner) *Server {
	s.roles = roles
	return s
}

type roleRequest struct {
	TenantID *int64 `json:"tenantId"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
}

func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())
	if !rc.IsPlatformAdmin() {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "role administration requires a platform admin"})
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId and role are required"})
		return
	}

	tenantID := rc.TenantID
	if req.TenantID != nil {
		tenantID = *req.TenantID
	}

	if err := s.roles.AssignRole(tenantID, req.UserID, req.Role); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnassignRole(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())
	if !rc.IsPlatformAdmin() {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "role administration requires a platform admin"})
		return
	}

	q := r.URL.Query()
	userID, role := q.Get("userId"), q.Get("role")
	if userID == "" || role == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId and role are required"})
		return
	}

	requested, err := queryTenant(q)
	if err != nil {
		writeError(w, err)
		return
	}
	tenantID := rc.TenantID
	if requested != nil {
		tenantID = *requested
	}

	if err := s.roles.UnassignRole(tenantID, userID, role); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
