package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driving"
	"github.com/go-tangra/tangra-bookmark/internal/core/services"
)

// Server exposes the authorization engine over REST.
type Server struct {
	svc     driving.AuthorizationService
	checker *services.Checker
	logger  *zap.Logger
	roles   RoleAssigner
}

func NewServer(svc driving.AuthorizationService, checker *services.Checker, logger *zap.Logger) *Server {
	return &Server{svc: svc, checker: checker, logger: logger}
}

// Router builds the HTTP routing table. The health endpoint is open;
// everything under /permissions requires the gateway identity headers.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(s.auditMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	perms := api.PathPrefix("/permissions").Subrouter()
	perms.Use(s.requestContextMiddleware)
	perms.HandleFunc("", s.handleGrant).Methods("POST")
	perms.HandleFunc("", s.handleRevoke).Methods("DELETE")
	perms.HandleFunc("", s.handleList).Methods("GET")
	perms.HandleFunc("/check", s.handleCheck).Methods("POST")
	perms.HandleFunc("/accessible", s.handleAccessible).Methods("GET")
	perms.HandleFunc("/effective", s.handleEffective).Methods("GET")

	if s.roles != nil {
		roles := api.PathPrefix("/roles").Subrouter()
		roles.Use(s.requestContextMiddleware)
		roles.HandleFunc("", s.handleAssignRole).Methods("POST")
		roles.HandleFunc("", s.handleUnassignRole).Methods("DELETE")
	}

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "bookmark-permission-service",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidEnum):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTenantMismatch), errors.Is(err, domain.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrIdentityUnavailable), errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
