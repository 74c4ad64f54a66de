package console

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/eslsoft/pronadmin/internal/adapter/apiclient"
	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

type dialogRow struct {
	entity.Dialog
	Label    string
	Expanded bool
}

type dialogsPage struct {
	layout
	Loading      bool
	Error        string
	FetchFailed  bool
	Count        int
	Rows         []dialogRow
	Form         *dialogForm
	FreeCategory bool
	Categories   []entity.Category
	Difficulties []entity.Difficulty
	Expanded     int64
	PhraseForm   *phraseForm
	Query        usecase.Query
	QueryError   string
}

func dialogLabel(d entity.Dialog, categories []entity.Category) string {
	if d.Category != "" {
		return entity.DisplayName(d.Category)
	}
	if d.CategoryID != nil {
		if c, ok := lo.Find(categories, func(c entity.Category) bool { return c.ID == *d.CategoryID }); ok {
			return c.Label()
		}
	}
	return d.CategoryKey()
}

// buildDialogsPage assembles the page from the mirror and the query-string
// UI state.
func (h *Handler) buildDialogsPage(r *http.Request) *dialogsPage {
	h.sync(r, h.dialogs)
	categories := h.categoryOptions(r)
	q := r.URL.Query()

	page := &dialogsPage{
		layout:       h.layoutFor(r, "Dialog Management", "dialogs"),
		Loading:      h.dialogs.Loading(),
		Error:        h.dialogs.Error(),
		FetchFailed:  h.dialogs.FetchFailed(),
		FreeCategory: !h.schema.HasCategoryAPI(),
		Categories:   categories,
		Difficulties: entity.Difficulties(),
		Expanded:     queryID(r, "expand"),
		Query:        queryFrom(r),
	}

	dialogs, err := h.dialogs.Select(page.Query)
	if err != nil {
		page.QueryError = err.Error()
		dialogs = h.dialogs.Items()
	}
	page.Count = len(h.dialogs.Items())

	switch {
	case q.Has("new"):
		page.Form = newDialogForm(categories)
	case queryID(r, "edit") > 0:
		if d, ok := h.dialogs.Find(queryID(r, "edit")); ok {
			page.Form = dialogFormFrom(d, categories)
		}
	}

	if id := queryID(r, "phrase"); id > 0 {
		page.Expanded = id
		page.PhraseForm = newPhraseForm(id)
	}
	if id := queryID(r, "edit_phrase"); id > 0 {
		if p, ok := h.dialogs.FindPhrase(id); ok {
			page.Expanded = p.DialogID
			page.PhraseForm = phraseFormFrom(p)
		}
	}

	page.Rows = lo.Map(dialogs, func(d entity.Dialog, _ int) dialogRow {
		return dialogRow{Dialog: d, Label: dialogLabel(d, categories), Expanded: d.ID == page.Expanded}
	})
	return page
}

func (h *Handler) dialogsPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "dialogs", h.buildDialogsPage(r))
}

func (h *Handler) invalidDialog(w http.ResponseWriter, r *http.Request, form *dialogForm, err error) {
	page := h.buildDialogsPage(r)
	form.Error = formMessage(err)
	page.Form = form
	h.render(w, http.StatusUnprocessableEntity, "dialogs", page)
}

func (h *Handler) createDialog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := parseDialogForm(r)
	payload, err := form.create(h.schema, h.categoryOptions(r))
	if err != nil {
		h.invalidDialog(w, r, form, err)
		return
	}
	// A failed create is reported through the store's error banner.
	_, _ = h.dialogs.Add(r.Context(), payload)
	redirect(w, r, "/dialogs")
}

func (h *Handler) updateDialog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := pathID(r)
	form := parseDialogForm(r)
	form.ID = id
	patch, err := form.update(h.schema, h.categoryOptions(r))
	if err != nil {
		h.invalidDialog(w, r, form, err)
		return
	}
	_, _ = h.dialogs.Edit(r.Context(), id, patch)
	redirect(w, r, "/dialogs")
}

func (h *Handler) confirmDeleteDialog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := h.dialogs.Lookup(r.Context(), id); err != nil {
		h.lookupFailed(w, r, err, "/dialogs")
		return
	}
	h.renderConfirm(w, r, "Delete dialog", usecase.DialogDeletePrompt, fmt.Sprintf("/dialogs/%d/delete", id), "/dialogs")
}

func (h *Handler) deleteDialog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_, _ = h.dialogs.RemoveConfirmed(r.Context(), pathID(r), formConfirmer(r))
	redirect(w, r, "/dialogs")
}

func (h *Handler) createPhrase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	dialogID := pathID(r)
	form := parsePhraseForm(r, dialogID)
	payload, err := form.create()
	if err != nil {
		h.invalidPhrase(w, r, form, err)
		return
	}
	_, _ = h.dialogs.AddPhrase(r.Context(), payload)
	redirect(w, r, fmt.Sprintf("/dialogs?expand=%d", dialogID))
}

func (h *Handler) updatePhrase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := pathID(r)
	existing, ok := h.dialogs.FindPhrase(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := parsePhraseForm(r, existing.DialogID)
	form.ID = id
	patch, err := form.update()
	if err != nil {
		h.invalidPhrase(w, r, form, err)
		return
	}
	_, _ = h.dialogs.EditPhrase(r.Context(), id, patch)
	redirect(w, r, fmt.Sprintf("/dialogs?expand=%d", existing.DialogID))
}

func (h *Handler) invalidPhrase(w http.ResponseWriter, r *http.Request, form *phraseForm, err error) {
	page := h.buildDialogsPage(r)
	form.Error = formMessage(err)
	page.Expanded = form.DialogID
	page.PhraseForm = form
	for i := range page.Rows {
		page.Rows[i].Expanded = page.Rows[i].ID == form.DialogID
	}
	h.render(w, http.StatusUnprocessableEntity, "dialogs", page)
}

func (h *Handler) confirmDeletePhrase(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	p, ok := h.dialogs.FindPhrase(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.renderConfirm(w, r, "Delete phrase", usecase.PhraseDeletePrompt,
		fmt.Sprintf("/phrases/%d/delete", id), fmt.Sprintf("/dialogs?expand=%d", p.DialogID))
}

func (h *Handler) deletePhrase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := pathID(r)
	target := "/dialogs"
	if p, ok := h.dialogs.FindPhrase(id); ok {
		target = fmt.Sprintf("/dialogs?expand=%d", p.DialogID)
	}
	_, _ = h.dialogs.RemovePhraseConfirmed(r.Context(), id, formConfirmer(r))
	redirect(w, r, target)
}

// lookupFailed answers 404 for missing entities and otherwise sends the
// browser back to the list, where the failure is logged.
// lookupFailed answers a delete prompt whose record could not be loaded.
// Unreachable or failing upstreams surface as 502; other client errors send
// the operator back to the list.
func (h *Handler) lookupFailed(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, entity.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	status := apiclient.StatusCode(err)
	h.log.WithError(err).WithField("upstream_status", status).Warn("lookup before delete failed")
	if status == 0 || status >= http.StatusInternalServerError {
		http.Error(w, "Failed to load record. Make sure the backend is running.", http.StatusBadGateway)
		return
	}
	redirect(w, r, back)
}
