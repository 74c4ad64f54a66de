package console

import (
	"fmt"
	"net/http"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

type categoriesPage struct {
	layout
	Loading     bool
	Error       string
	FetchFailed bool
	Count       int
	Categories  []entity.Category
	Form        *categoryForm
	Query       usecase.Query
	QueryError  string
}

func (h *Handler) buildCategoriesPage(r *http.Request) *categoriesPage {
	h.sync(r, h.categories)
	page := &categoriesPage{
		layout:      h.layoutFor(r, "Category Management", "categories"),
		Loading:     h.categories.Loading(),
		Error:       h.categories.Error(),
		FetchFailed: h.categories.FetchFailed(),
		Query:       queryFrom(r),
	}
	items, err := h.categories.Select(page.Query)
	if err != nil {
		page.QueryError = err.Error()
		items = h.categories.Items()
	}
	page.Categories = items
	page.Count = len(h.categories.Items())

	q := r.URL.Query()
	switch {
	case q.Has("new"):
		page.Form = &categoryForm{}
	case queryID(r, "edit") > 0:
		if c, ok := h.categories.Find(queryID(r, "edit")); ok {
			page.Form = categoryFormFrom(c)
		}
	}
	return page
}

func (h *Handler) categoriesPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "categories", h.buildCategoriesPage(r))
}

func (h *Handler) invalidCategory(w http.ResponseWriter, r *http.Request, form *categoryForm, err error) {
	page := h.buildCategoriesPage(r)
	form.Error = formMessage(err)
	page.Form = form
	h.render(w, http.StatusUnprocessableEntity, "categories", page)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := parseCategoryForm(r)
	payload, err := form.create()
	if err != nil {
		h.invalidCategory(w, r, form, err)
		return
	}
	_, _ = h.categories.Add(r.Context(), payload)
	redirect(w, r, "/categories")
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := pathID(r)
	form := parseCategoryForm(r)
	form.ID = id
	patch, err := form.update()
	if err != nil {
		h.invalidCategory(w, r, form, err)
		return
	}
	_, _ = h.categories.Edit(r.Context(), id, patch)
	redirect(w, r, "/categories")
}

func (h *Handler) confirmDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	c, err := h.categories.Lookup(r.Context(), id)
	if err != nil {
		h.lookupFailed(w, r, err, "/categories")
		return
	}
	h.renderConfirm(w, r, "Delete category", usecase.CategoryDeletePrompt(*c),
		fmt.Sprintf("/categories/%d/delete", id), "/categories")
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if _, err := h.categories.RemoveConfirmed(r.Context(), pathID(r), formConfirmer(r)); err != nil {
		h.log.WithError(err).Debug("category not deleted")
	}
	redirect(w, r, "/categories")
}
