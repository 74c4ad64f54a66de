package console

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

type fetcher interface {
	Loaded() bool
	Fetch(ctx context.Context) error
}

// sync fetches each store that has never loaded, or all of them on
// ?refresh. Failures are logged by the store and shown through Error().
func (h *Handler) sync(r *http.Request, stores ...fetcher) {
	refresh := r.URL.Query().Has("refresh")
	for _, s := range stores {
		if refresh || !s.Loaded() {
			_ = s.Fetch(r.Context())
		}
	}
}

// categoryOptions returns the categories offered by the dialog form.
func (h *Handler) categoryOptions(r *http.Request) []entity.Category {
	if h.categories == nil || !h.schema.HasCategoryAPI() {
		return nil
	}
	if !h.categories.Loaded() {
		h.sync(r, h.categories)
	}
	return h.categories.Items()
}

func queryFrom(r *http.Request) usecase.Query {
	q := r.URL.Query()
	return usecase.Query{Filter: q.Get("filter"), OrderBy: q.Get("order")}
}

func formConfirmer(r *http.Request) usecase.Confirmer {
	return usecase.ConfirmFunc(func(context.Context, string) (bool, error) {
		return r.PostFormValue("confirm") == "yes", nil
	})
}

type confirmPage struct {
	layout
	Message string
	Action  string
	Cancel  string
}

func (h *Handler) renderConfirm(w http.ResponseWriter, r *http.Request, title, message, action, cancel string) {
	h.render(w, http.StatusOK, "confirm", confirmPage{
		layout:  h.layoutFor(r, title, ""),
		Message: message,
		Action:  action,
		Cancel:  cancel,
	})
}

type dashboardPage struct {
	layout
	View  *usecase.DashboardView
	Error string
}

func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Load(r.Context())
	page := dashboardPage{layout: h.layoutFor(r, "Dashboard", "dashboard"), View: view}
	if err != nil {
		page.Error = "Failed to load dashboard data"
	}
	h.render(w, http.StatusOK, "dashboard", page)
}

type usersPage struct {
	layout
	UserID       string
	Report       *usecase.UserReport
	Categories   []categoryCount
	Error        string
	Assessments  bool
	Searched     bool
	Limit        int
	Offset       int
	NextOffset   int
	PrevOffset   int
	HasPrev      bool
	MaybeHasNext bool
}

type categoryCount struct {
	Category string
	Count    int
}

func (h *Handler) usersPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := usersPage{
		layout:      h.layoutFor(r, "User Management", "users"),
		UserID:      q.Get("id"),
		Assessments: q.Has("history"),
	}
	if !q.Has("id") {
		h.render(w, http.StatusOK, "users", page)
		return
	}

	paging := pagination(q)
	page.Searched = true
	page.Limit, page.Offset = paging.Limit, paging.Offset
	report, err := h.users.Lookup(r.Context(), page.UserID, paging)
	if err != nil {
		page.Error = usecase.LookupMessage(err)
		status := http.StatusOK
		if page.Error == usecase.InvalidUserIDMessage {
			status = http.StatusUnprocessableEntity
		}
		h.render(w, status, "users", page)
		return
	}
	page.Report = report
	page.Categories = lo.MapToSlice(report.Progress.CategoriesPracticed, func(k string, v int) categoryCount {
		return categoryCount{Category: k, Count: v}
	})
	sortCategoryCounts(page.Categories)
	page.HasPrev = paging.Offset > 0
	page.PrevOffset = max(0, paging.Offset-paging.Limit)
	page.NextOffset = paging.Offset + paging.Limit
	page.MaybeHasNext = len(report.Assessments) == paging.Limit
	h.render(w, http.StatusOK, "users", page)
}

func pagination(q url.Values) repository.Pagination {
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return repository.Pagination{Limit: limit, Offset: offset}.Normalize()
}

func sortCategoryCounts(items []categoryCount) {
	slices.SortFunc(items, func(a, b categoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Category, b.Category)
	})
}
