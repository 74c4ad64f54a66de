package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        map[string]any
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) last() recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[len(r.requests)-1]
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		entry := recordedRequest{
			Method:      req.Method,
			Path:        req.URL.Path,
			Query:       req.URL.RawQuery,
			ContentType: req.Header.Get("Content-Type"),
		}
		raw, _ := io.ReadAll(req.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &entry.Body)
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, entry)
		rec.mu.Unlock()
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, baseURL string, schema entity.SchemaVersion) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: baseURL, Schema: schema})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestListDialogsDecodesBody(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"title":"Hotel","category_id":2,"difficulty_level":"Beginner","phrases":[{"id":5,"dialog_id":1,"reference_text":"Hello","order":0,"difficulty":"Beginner"}],"created_at":"2024-01-01T00:00:00","updated_at":"2024-01-01T00:00:00"}]`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	resp, err := c.ListDialogs(context.Background())
	if err != nil {
		t.Fatalf("ListDialogs returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Hotel" || len(resp.Data[0].Phrases) != 1 {
		t.Fatalf("unexpected dialogs: %#v", resp.Data)
	}
	got := rec.last()
	if got.Method != http.MethodGet || got.Path != "/api/v1/dialogs" {
		t.Fatalf("unexpected request: %s %s", got.Method, got.Path)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", got.ContentType)
	}
}

func TestCreateDialogEncodesSchemaVersion(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"title":"Hotel","category":"Travel","difficulty_level":"advanced","phrases":[]}`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV1)

	resp, err := c.CreateDialog(context.Background(), entity.DialogCreate{Title: "Hotel", Category: "Travel", DifficultyLevel: entity.DifficultyAdvanced})
	if err != nil {
		t.Fatalf("CreateDialog returned error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated || resp.Data.ID != 9 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	body := rec.last().Body
	if body["category"] != "Travel" || body["difficulty_level"] != "advanced" {
		t.Fatalf("unexpected v1 body: %#v", body)
	}
	if _, ok := body["category_id"]; ok {
		t.Fatalf("v1 body must not carry category_id: %#v", body)
	}
}

func TestUpdatePhraseSendsOnlySetFields(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":3,"dialog_id":1,"reference_text":"Good morning","order":2,"difficulty":"Intermediate"}`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	text := "Good morning"
	if _, err := c.UpdatePhrase(context.Background(), 3, entity.PhraseUpdate{ReferenceText: &text}); err != nil {
		t.Fatalf("UpdatePhrase returned error: %v", err)
	}
	got := rec.last()
	if got.Method != http.MethodPut || got.Path != "/api/v1/phrases/3" {
		t.Fatalf("unexpected request: %s %s", got.Method, got.Path)
	}
	if len(got.Body) != 1 || got.Body["reference_text"] != "Good morning" {
		t.Fatalf("expected only reference_text, got %#v", got.Body)
	}
}

func TestListPhrasesFiltersByDialog(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	id := int64(4)
	if _, err := c.ListPhrases(context.Background(), &id); err != nil {
		t.Fatalf("ListPhrases returned error: %v", err)
	}
	if q := rec.last().Query; q != "dialog_id=4" {
		t.Fatalf("unexpected query %q", q)
	}
	if _, err := c.ListPhrases(context.Background(), nil); err != nil {
		t.Fatalf("ListPhrases returned error: %v", err)
	}
	if q := rec.last().Query; q != "" {
		t.Fatalf("expected no query, got %q", q)
	}
}

func TestListUserAssessmentsSendsWindowAsGiven(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	if _, err := c.ListUserAssessments(context.Background(), 7, repository.Pagination{Limit: 50}); err != nil {
		t.Fatalf("ListUserAssessments returned error: %v", err)
	}
	got := rec.last()
	if got.Path != "/api/v1/users/7/assessments" || got.Query != "limit=50&offset=0" {
		t.Fatalf("unexpected request: %s?%s", got.Path, got.Query)
	}
	if _, err := c.ListUserAssessments(context.Background(), 7, repository.Pagination{Limit: 500, Offset: 10}); err != nil {
		t.Fatalf("ListUserAssessments returned error: %v", err)
	}
	if q := rec.last().Query; q != "limit=500&offset=10" {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestNonSuccessStatusReturnsHTTPError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Dialog not found"}`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	_, err := c.GetDialog(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusNotFound || !strings.Contains(httpErr.Body, "Dialog not found") {
		t.Fatalf("unexpected error fields: %#v", httpErr)
	}
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected 404 to match ErrNotFound")
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("StatusCode = %d", StatusCode(err))
	}
}

func TestDeleteAcceptsEmptyBody(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	resp, err := c.DeleteCategory(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteCategory returned error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := rec.last(); got.Method != http.MethodDelete || got.Path != "/api/v1/categories/5" {
		t.Fatalf("unexpected request: %s %s", got.Method, got.Path)
	}
}

func TestTransportFailureIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/v1"
	srv.Close()

	c := newTestClient(t, base, entity.SchemaV2)
	if _, err := c.ListCategories(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	} else if StatusCode(err) != 0 {
		t.Fatalf("transport failures carry no status, got %d", StatusCode(err))
	}
}

func TestHealthTargetsUnversionedRoot(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"healthy","version":"1.0.0","project":"PronIELTS","mock_mode":true}`)
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)

	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if !resp.Data.Healthy() || !resp.Data.MockMode {
		t.Fatalf("unexpected health: %#v", resp.Data)
	}
	if got := rec.last().Path; got != "/health" {
		t.Fatalf("expected /health, got %s", got)
	}
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	if _, err := New(Options{BaseURL: "localhost"}); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.BaseURL() != DefaultBaseURL || c.HealthURL() != "http://localhost:8000/health" {
		t.Fatalf("unexpected defaults: %s %s", c.BaseURL(), c.HealthURL())
	}
}

func TestRepositoryViews(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodGet && req.URL.Path == "/api/v1/categories":
			_, _ = io.WriteString(w, `null`)
		case req.Method == http.MethodPost && req.URL.Path == "/api/v1/categories":
			_, _ = io.WriteString(w, `{"id":1,"name":"Travel","dialog_count":0}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	c := newTestClient(t, srv.URL+"/api/v1", entity.SchemaV2)
	repo := c.Categories()

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
	created, err := repo.Create(context.Background(), entity.CategoryCreate{Name: "Travel"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 1 || created.Name != "Travel" {
		t.Fatalf("unexpected category: %#v", created)
	}
	if err := repo.Delete(context.Background(), 1); StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 error, got %v", err)
	}
}
