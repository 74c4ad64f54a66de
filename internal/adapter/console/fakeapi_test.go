package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// fakeAPI is an in-memory PronIELTS backend.
type fakeAPI struct {
	mu         sync.RWMutex
	categories []entity.Category
	dialogs    []entity.Dialog
	nextID     int64
	failWrites bool
	failReads  bool
	writes     []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	one := int64(1)
	api := &fakeAPI{
		categories: []entity.Category{
			{ID: 1, Name: "IELTS_Part1", DialogCount: 2},
			{ID: 2, Name: "Travel"},
		},
		dialogs: []entity.Dialog{
			{ID: 10, Title: "Hometown", CategoryID: &one, DifficultyLevel: entity.DifficultyBeginner, Phrases: []entity.Phrase{
				{ID: 50, DialogID: 10, ReferenceText: "I grew up in a small town.", Difficulty: entity.DifficultyBeginner},
			}},
			{ID: 11, Title: "Work", CategoryID: &one, DifficultyLevel: entity.DifficultyIntermediate, Phrases: []entity.Phrase{}},
		},
		nextID: 100,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, entity.HealthCheck{Status: "healthy", Version: "1.0.0", MockMode: true})
	})
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/categories", api.listCategories).Methods(http.MethodGet)
	v1.HandleFunc("/categories", api.createCategory).Methods(http.MethodPost)
	v1.HandleFunc("/categories/{id}", api.getCategory).Methods(http.MethodGet)
	v1.HandleFunc("/categories/{id}", api.deleteCategory).Methods(http.MethodDelete)
	v1.HandleFunc("/dialogs", api.listDialogs).Methods(http.MethodGet)
	v1.HandleFunc("/dialogs", api.createDialog).Methods(http.MethodPost)
	v1.HandleFunc("/dialogs/{id}", api.getDialog).Methods(http.MethodGet)
	v1.HandleFunc("/dialogs/{id}", api.updateDialog).Methods(http.MethodPut)
	v1.HandleFunc("/dialogs/{id}", api.deleteDialog).Methods(http.MethodDelete)
	v1.HandleFunc("/phrases", api.createPhrase).Methods(http.MethodPost)
	v1.HandleFunc("/phrases/{id}", api.deletePhrase).Methods(http.MethodDelete)
	v1.HandleFunc("/users/{id}/assessments", api.assessments).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id}/progress", api.progress).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func idVar(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// write records a mutation and reports whether it may proceed.
func (a *fakeAPI) write(w http.ResponseWriter, r *http.Request) bool {
	a.writes = append(a.writes, r.Method+" "+r.URL.Path)
	if a.failWrites {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return false
	}
	return true
}

func (a *fakeAPI) writeCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.writes)
}

func (a *fakeAPI) setFailWrites(v bool) {
	a.mu.Lock()
	a.failWrites = v
	a.mu.Unlock()
}

func (a *fakeAPI) setFailReads(v bool) {
	a.mu.Lock()
	a.failReads = v
	a.mu.Unlock()
}

func (a *fakeAPI) listCategories(w http.ResponseWriter, _ *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.failReads {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, a.categories)
}

func (a *fakeAPI) getCategory(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := lo.Find(a.categories, func(c entity.Category) bool { return c.ID == idVar(r) })
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Category not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *fakeAPI) createCategory(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	var in entity.CategoryCreate
	_ = json.NewDecoder(r.Body).Decode(&in)
	a.nextID++
	c := entity.Category{ID: a.nextID, Name: in.Name, Description: in.Description}
	a.categories = append(a.categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (a *fakeAPI) deleteCategory(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	a.categories = lo.Reject(a.categories, func(c entity.Category, _ int) bool { return c.ID == idVar(r) })
	w.WriteHeader(http.StatusNoContent)
}

func (a *fakeAPI) listDialogs(w http.ResponseWriter, _ *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.failReads {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, a.dialogs)
}

func (a *fakeAPI) getDialog(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.failReads {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	d, ok := lo.Find(a.dialogs, func(d entity.Dialog) bool { return d.ID == idVar(r) })
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Dialog not found"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type dialogBody struct {
	Title           *string `json:"title"`
	CategoryID      *int64  `json:"category_id"`
	DifficultyLevel *string `json:"difficulty_level"`
	Description     *string `json:"description"`
}

func (a *fakeAPI) createDialog(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	var in dialogBody
	_ = json.NewDecoder(r.Body).Decode(&in)
	a.nextID++
	d := entity.Dialog{ID: a.nextID, Title: *in.Title, CategoryID: in.CategoryID, Description: in.Description, Phrases: []entity.Phrase{}}
	if in.DifficultyLevel != nil {
		d.DifficultyLevel = entity.ParseDifficulty(*in.DifficultyLevel)
	}
	a.dialogs = append(a.dialogs, d)
	writeJSON(w, http.StatusCreated, d)
}

func (a *fakeAPI) updateDialog(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	var in dialogBody
	_ = json.NewDecoder(r.Body).Decode(&in)
	for i := range a.dialogs {
		if a.dialogs[i].ID != idVar(r) {
			continue
		}
		if in.Title != nil {
			a.dialogs[i].Title = *in.Title
		}
		if in.CategoryID != nil {
			a.dialogs[i].CategoryID = in.CategoryID
		}
		writeJSON(w, http.StatusOK, a.dialogs[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Dialog not found"})
}

func (a *fakeAPI) deleteDialog(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	a.dialogs = lo.Reject(a.dialogs, func(d entity.Dialog, _ int) bool { return d.ID == idVar(r) })
	w.WriteHeader(http.StatusNoContent)
}

func (a *fakeAPI) createPhrase(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	var in entity.PhraseCreate
	_ = json.NewDecoder(r.Body).Decode(&in)
	a.nextID++
	p := entity.Phrase{ID: a.nextID, DialogID: in.DialogID, ReferenceText: in.ReferenceText, PhoneticTranscription: in.PhoneticTranscription}
	if in.Difficulty != nil {
		p.Difficulty = *in.Difficulty
	}
	for i := range a.dialogs {
		if a.dialogs[i].ID == in.DialogID {
			p.Order = len(a.dialogs[i].Phrases)
			a.dialogs[i].Phrases = append(a.dialogs[i].Phrases, p)
		}
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *fakeAPI) deletePhrase(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.write(w, r) {
		return
	}
	for i := range a.dialogs {
		a.dialogs[i].Phrases = lo.Reject(a.dialogs[i].Phrases, func(p entity.Phrase, _ int) bool { return p.ID == idVar(r) })
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *fakeAPI) assessments(w http.ResponseWriter, r *http.Request) {
	if idVar(r) != 7 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, []entity.Assessment{{ID: 1, PhraseID: 50, PhraseText: "I grew up in a small town.", OverallScore: 82.5}})
}

func (a *fakeAPI) progress(w http.ResponseWriter, r *http.Request) {
	if idVar(r) != 7 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, entity.UserProgress{UserID: 7, TotalAssessments: 1, AverageOverallScore: 82.5, CategoriesPracticed: map[string]int{"IELTS_Part1": 1}})
}
