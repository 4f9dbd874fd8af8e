package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-tangra/tangra-bookmark/internal/core/domain"
)

// HTTPDirectory queries the platform identity service for role
// membership. Any transport failure, non-OK status, or timeout surfaces
// as ErrIdentityUnavailable so the engine never mistakes an identity
// outage for an access denial.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory creates a directory client against the identity
// service base URL. The timeout bounds each lookup end to end.
func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type userRolesResponse struct {
	Roles []string `json:"roles"`
}

func (d *HTTPDirectory) GetUserRoles(ctx context.Context, tenantID int64, userID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/tenants/%s/users/%s/roles",
		d.baseURL, strconv.FormatInt(tenantID, 10), url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: identity service returned %d", domain.ErrIdentityUnavailable, resp.StatusCode)
	}

	var body userRolesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	return body.Roles, nil
}
