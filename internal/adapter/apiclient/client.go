// Package apiclient talks to the PronIELTS REST API. Every method is a single
// HTTP call: no retries, caching or batching.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/entity"
)

const (
	DefaultBaseURL     = "http://localhost:8000/api/v1"
	DefaultVersionPath = "/api/v1"
	defaultTimeout     = 30 * time.Second
	defaultUserAgent   = "pronadmin"
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL     string
	VersionPath string
	Schema      entity.SchemaVersion
	Timeout     time.Duration
	UserAgent   string
	HTTPClient  *http.Client
	Logger      logrus.FieldLogger
}

// Client is a thin JSON client over the REST API.
type Client struct {
	baseURL     string
	versionPath string
	schema      entity.SchemaVersion
	userAgent   string
	http        *http.Client
	log         logrus.FieldLogger
}

// Response carries the decoded body together with the transport status.
type Response[T any] struct {
	Data       T
	StatusCode int
}

// HTTPError reports a non-2xx response. The body is kept verbatim.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Is lets errors.Is(err, entity.ErrNotFound) match a 404.
func (e *HTTPError) Is(target error) bool {
	return target == entity.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// StatusCode extracts the HTTP status from err, or 0 for transport failures.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}
	if opts.VersionPath == "" {
		opts.VersionPath = DefaultVersionPath
	}
	if opts.Schema == "" {
		opts.Schema = entity.DefaultSchemaVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		versionPath: opts.VersionPath,
		schema:      opts.Schema,
		userAgent:   opts.UserAgent,
		http:        httpClient,
		log:         log.WithField("client", "apiclient"),
	}, nil
}

// BaseURL returns the versioned API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Schema returns the dialog schema version the client encodes with.
func (c *Client) Schema() entity.SchemaVersion { return c.schema }

// HealthURL is the unversioned service root plus /health: the first
// occurrence of the version path is removed from the base URL.
func (c *Client) HealthURL() string {
	return strings.Replace(c.baseURL, c.versionPath, "", 1) + "/health"
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs one request. out may be nil when the body is not needed.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, rawURL, err)
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, rawURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "url": rawURL}).Debug("api request failed")
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s %s: %w", method, rawURL, err)
	}
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": time.Since(started),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &HTTPError{Method: method, URL: rawURL, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, rawURL, err)
	}
	return resp.StatusCode, nil
}

func doJSON[T any](c *Client, ctx context.Context, method, rawURL string, body any) (*Response[T], error) {
	var out T
	status, err := c.do(ctx, method, rawURL, body, &out)
	if err != nil {
		return nil, err
	}
	return &Response[T]{Data: out, StatusCode: status}, nil
}

func doDelete(c *Client, ctx context.Context, rawURL string) (*Response[struct{}], error) {
	status, err := c.do(ctx, http.MethodDelete, rawURL, nil, nil)
	if err != nil {
		return nil, err
	}
	return &Response[struct{}]{StatusCode: status}, nil
}

func idPath(collection string, id int64) string {
	return fmt.Sprintf("/%s/%d", collection, id)
}
