// Package console serves the server-rendered admin pages. Each page reads
// from the resource stores and mutates only through them, so what the
// browser sees is always the server-confirmed mirror.
package console

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
	"github.com/eslsoft/pronadmin/internal/usecase"
	"github.com/eslsoft/pronadmin/internal/usecase/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "dashboard", "dialogs", "categories", "users", "confirm"}

// Handler is the console's http.Handler.
type Handler struct {
	router     *mux.Router
	pages      map[string]*template.Template
	dialogs    *usecase.DialogStore
	categories *usecase.CategoryStore
	users      usecase.UserLookup
	dashboard  usecase.Dashboard
	creds      *session.Credentials
	cookies    cookieSigner
	schema     entity.SchemaVersion
	log        logrus.FieldLogger
}

// Deps are the usecases the pages drive.
type Deps struct {
	Dialogs     *usecase.DialogStore
	Categories  *usecase.CategoryStore
	Users       usecase.UserLookup
	Dashboard   usecase.Dashboard
	Credentials *session.Credentials
	Schema      entity.SchemaVersion
}

// NewHandler parses the page templates and registers the routes.
func NewHandler(cfg *config.Config, deps Deps, logger *logrus.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	creds := deps.Credentials
	if creds == nil {
		creds = session.DefaultCredentials()
	}
	schema := deps.Schema
	if schema == "" {
		schema = entity.DefaultSchemaVersion
	}
	var log logrus.FieldLogger = logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	h := &Handler{
		router:     mux.NewRouter(),
		pages:      pages,
		dialogs:    deps.Dialogs,
		categories: deps.Categories,
		users:      deps.Users,
		dashboard:  deps.Dashboard,
		creds:      creds,
		cookies:    newCookieSigner(cfg.Console.SessionSecret, cfg.Console.SessionTTL),
		schema:     schema,
		log:        log.WithField("component", "console"),
	}
	h.routes()
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("/login", h.loginPage).Methods(http.MethodGet)
	h.router.HandleFunc("/login", h.login).Methods(http.MethodPost)
	h.router.HandleFunc("/logout", h.logout).Methods(http.MethodGet, http.MethodPost)

	app := h.router.NewRoute().Subrouter()
	app.Use(h.requireAuth)

	app.HandleFunc("/", h.dashboardPage).Methods(http.MethodGet)

	app.HandleFunc("/dialogs", h.dialogsPage).Methods(http.MethodGet)
	app.HandleFunc("/dialogs", h.createDialog).Methods(http.MethodPost)
	app.HandleFunc("/dialogs/{id:[0-9]+}", h.updateDialog).Methods(http.MethodPost)
	app.HandleFunc("/dialogs/{id:[0-9]+}/delete", h.confirmDeleteDialog).Methods(http.MethodGet)
	app.HandleFunc("/dialogs/{id:[0-9]+}/delete", h.deleteDialog).Methods(http.MethodPost)
	app.HandleFunc("/dialogs/{id:[0-9]+}/phrases", h.createPhrase).Methods(http.MethodPost)
	app.HandleFunc("/phrases/{id:[0-9]+}", h.updatePhrase).Methods(http.MethodPost)
	app.HandleFunc("/phrases/{id:[0-9]+}/delete", h.confirmDeletePhrase).Methods(http.MethodGet)
	app.HandleFunc("/phrases/{id:[0-9]+}/delete", h.deletePhrase).Methods(http.MethodPost)

	app.HandleFunc("/categories", h.categoriesPage).Methods(http.MethodGet)
	app.HandleFunc("/categories", h.createCategory).Methods(http.MethodPost)
	app.HandleFunc("/categories/{id:[0-9]+}", h.updateCategory).Methods(http.MethodPost)
	app.HandleFunc("/categories/{id:[0-9]+}/delete", h.confirmDeleteCategory).Methods(http.MethodGet)
	app.HandleFunc("/categories/{id:[0-9]+}/delete", h.deleteCategory).Methods(http.MethodPost)

	app.HandleFunc("/users", h.usersPage).Methods(http.MethodGet)
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"displayName": entity.DisplayName,
		"band":        func(score float64) string { return string(entity.BandOf(score)) },
		"score":       func(score float64) string { return strconv.FormatFloat(score, 'f', 1, 64) },
		"inc":         func(i int) int { return i + 1 },
		"date": func(ts entity.Timestamp) string {
			if ts.IsZero() {
				return ""
			}
			return ts.Local().Format("2006-01-02")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// layout is embedded in every page model.
type layout struct {
	User   *entity.AuthUser
	Title  string
	Active string
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := h.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.WithError(err).WithField("page", page).Error("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}

func (h *Handler) layoutFor(r *http.Request, title, active string) layout {
	l := layout{Title: title, Active: active}
	if user, ok := userFrom(r.Context()); ok {
		l.User = &user
	}
	return l
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryID(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
