package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// ListPhrases lists every phrase, or only those of dialogID when it is non-nil.
func (c *Client) ListPhrases(ctx context.Context, dialogID *int64) (*Response[[]entity.Phrase], error) {
	query := url.Values{}
	if dialogID != nil {
		query.Set("dialog_id", strconv.FormatInt(*dialogID, 10))
	}
	return doJSON[[]entity.Phrase](c, ctx, http.MethodGet, c.endpoint("/phrases", query), nil)
}

func (c *Client) GetPhrase(ctx context.Context, id int64) (*Response[entity.Phrase], error) {
	return doJSON[entity.Phrase](c, ctx, http.MethodGet, c.endpoint(idPath("phrases", id), nil), nil)
}

func (c *Client) CreatePhrase(ctx context.Context, payload entity.PhraseCreate) (*Response[entity.Phrase], error) {
	return doJSON[entity.Phrase](c, ctx, http.MethodPost, c.endpoint("/phrases", nil), payload)
}

func (c *Client) UpdatePhrase(ctx context.Context, id int64, patch entity.PhraseUpdate) (*Response[entity.Phrase], error) {
	return doJSON[entity.Phrase](c, ctx, http.MethodPut, c.endpoint(idPath("phrases", id), nil), patch)
}

func (c *Client) DeletePhrase(ctx context.Context, id int64) (*Response[struct{}], error) {
	return doDelete(c, ctx, c.endpoint(idPath("phrases", id), nil))
}
