package apiclient

import (
	"context"
	"net/http"

	"github.com/eslsoft/pronadmin/internal/entity"
)

func (c *Client) ListDialogs(ctx context.Context) (*Response[[]entity.Dialog], error) {
	return doJSON[[]entity.Dialog](c, ctx, http.MethodGet, c.endpoint("/dialogs", nil), nil)
}

func (c *Client) GetDialog(ctx context.Context, id int64) (*Response[entity.Dialog], error) {
	return doJSON[entity.Dialog](c, ctx, http.MethodGet, c.endpoint(idPath("dialogs", id), nil), nil)
}

// CreateDialog encodes the payload in the client's schema version.
func (c *Client) CreateDialog(ctx context.Context, payload entity.DialogCreate) (*Response[entity.Dialog], error) {
	return doJSON[entity.Dialog](c, ctx, http.MethodPost, c.endpoint("/dialogs", nil), payload.Wire(c.schema))
}

// UpdateDialog sends only the fields set on patch.
func (c *Client) UpdateDialog(ctx context.Context, id int64, patch entity.DialogUpdate) (*Response[entity.Dialog], error) {
	return doJSON[entity.Dialog](c, ctx, http.MethodPut, c.endpoint(idPath("dialogs", id), nil), patch.Wire(c.schema))
}

func (c *Client) DeleteDialog(ctx context.Context, id int64) (*Response[struct{}], error) {
	return doDelete(c, ctx, c.endpoint(idPath("dialogs", id), nil))
}
