package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driven"
)

// DefaultIdentityTimeout bounds a role-membership lookup so a stalled
// identity directory cannot hang an authorization decision.
const DefaultIdentityTimeout = 3 * time.Second

// DirectoryResolver is the production SubjectResolver: it expands a user
// into (USER, userId), one (ROLE, r) per held role, and (TENANT,
// tenantId), in that order.
type DirectoryResolver struct {
	directory driven.IdentityDirectory
	timeout   time.Duration
}

// NewDirectoryResolver creates a resolver over an identity directory.
// A non-positive timeout falls back to DefaultIdentityTimeout.
func NewDirectoryResolver(directory driven.IdentityDirectory, timeout time.Duration) *DirectoryResolver {
	if timeout <= 0 {
		timeout = DefaultIdentityTimeout
	}
	return &DirectoryResolver{directory: directory, timeout: timeout}
}

func (r *DirectoryResolver) ResolveSubjects(ctx context.Context, tenantID int64, userID string) ([]domain.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	roles, err := r.directory.GetUserRoles(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}

	subjects := make([]domain.Subject, 0, len(roles)+2)
	subjects = append(subjects, domain.Subject{Type: domain.SubjectTypeUser, ID: userID})
	for _, role := range roles {
		subjects = append(subjects, domain.Subject{Type: domain.SubjectTypeRole, ID: role})
	}
	subjects = append(subjects, domain.Subject{Type: domain.SubjectTypeTenant, ID: strconv.FormatInt(tenantID, 10)})
	return subjects, nil
}
