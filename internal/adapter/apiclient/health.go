package apiclient

import (
	"context"
	"net/http"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// Health calls GET /health on the unversioned service root.
func (c *Client) Health(ctx context.Context) (*Response[entity.HealthCheck], error) {
	return doJSON[entity.HealthCheck](c, ctx, http.MethodGet, c.HealthURL(), nil)
}
