package apiclient

import (
	"context"
	"net/http"

	"github.com/eslsoft/pronadmin/internal/entity"
)

func (c *Client) ListCategories(ctx context.Context) (*Response[[]entity.Category], error) {
	return doJSON[[]entity.Category](c, ctx, http.MethodGet, c.endpoint("/categories", nil), nil)
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*Response[entity.Category], error) {
	return doJSON[entity.Category](c, ctx, http.MethodGet, c.endpoint(idPath("categories", id), nil), nil)
}

func (c *Client) CreateCategory(ctx context.Context, payload entity.CategoryCreate) (*Response[entity.Category], error) {
	return doJSON[entity.Category](c, ctx, http.MethodPost, c.endpoint("/categories", nil), payload)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, patch entity.CategoryUpdate) (*Response[entity.Category], error) {
	return doJSON[entity.Category](c, ctx, http.MethodPut, c.endpoint(idPath("categories", id), nil), patch)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) (*Response[struct{}], error) {
	return doDelete(c, ctx, c.endpoint(idPath("categories", id), nil))
}
