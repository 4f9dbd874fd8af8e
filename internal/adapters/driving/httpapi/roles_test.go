package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAssigner struct {
	assigned   []string
	unassigned []string
}

func (f *fakeAssigner) AssignRole(tenantID int64, userID, role string) error {
	f.assigned = append(f.assigned, fmt.Sprintf("%d/%s/%s", tenantID, userID, role))
	return nil
}

func (f *fakeAssigner) UnassignRole(tenantID int64, userID, role string) error {
	f.unassigned = append(f.unassigned, fmt.Sprintf("%d/%s/%s", tenantID, userID, role))
	return nil
}

func TestRoleAdminEndpoints(t *testing.T) {
	s := newTestServer(t)
	assigner := &fakeAssigner{}
	s.router = NewServer(s.engine, nil, zap.NewNop()).WithRoleAdmin(assigner).Router()

	body := map[string]any{"userId": "u1", "role": "role:a"}

	// Only platform admins may manage roles.
	rec := s.do(t, http.MethodPost, "/api/v1/roles", body, userHeaders("1", "100"))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/roles", body, adminHeaders("1", "1"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"1/u1/role:a"}, assigner.assigned)

	rec = s.do(t, http.MethodDelete, "/api/v1/roles?userId=u1&role=role:a", nil, adminHeaders("1", "1"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"1/u1/role:a"}, assigner.unassigned)

	// Missing fields are rejected.
	rec = s.do(t, http.MethodPost, "/api/v1/roles", map[string]any{"userId": "u1"}, adminHeaders("1", "1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoleAdminAbsentWithoutAssigner(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/roles", map[string]any{"userId": "u1", "role": "r"}, adminHeaders("1", "1"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
