package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

// ListUserAssessments pages through a learner's assessments with the window
// sent as given.
func (c *Client) ListUserAssessments(ctx context.Context, userID int64, page repository.Pagination) (*Response[[]entity.Assessment], error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.Limit))
	query.Set("offset", strconv.Itoa(page.Offset))
	path := fmt.Sprintf("/users/%d/assessments", userID)
	return doJSON[[]entity.Assessment](c, ctx, http.MethodGet, c.endpoint(path, query), nil)
}

func (c *Client) GetUserProgress(ctx context.Context, userID int64) (*Response[entity.UserProgress], error) {
	path := fmt.Sprintf("/users/%d/progress", userID)
	return doJSON[entity.UserProgress](c, ctx, http.MethodGet, c.endpoint(path, nil), nil)
}
