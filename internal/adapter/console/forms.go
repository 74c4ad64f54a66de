package console

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// formMessage turns a validation error into the inline form message.
func formMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidDialogTitle):
		return "Title is required (at most 255 characters)"
	case errors.Is(err, entity.ErrInvalidCategoryRef), errors.Is(err, entity.ErrUnknownCategory):
		return "Choose a category"
	case errors.Is(err, entity.ErrInvalidDifficulty):
		return "Choose a difficulty level"
	case errors.Is(err, entity.ErrInvalidCategoryName):
		return "Category name is required (at most 100 characters)"
	case errors.Is(err, entity.ErrInvalidReferenceText):
		return "Phrase text is required (at most 1000 characters)"
	case errors.Is(err, entity.ErrInvalidPhraseOrder):
		return "Order must be zero or greater"
	case errors.Is(err, entity.ErrEmptyUpdate):
		return "Nothing to update"
	default:
		return err.Error()
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type dialogForm struct {
	ID          int64
	Title       string
	Category    string
	CategoryID  int64
	Difficulty  string
	Description string
	Error       string
}

func (f dialogForm) Editing() bool { return f.ID > 0 }

func newDialogForm(categories []entity.Category) *dialogForm {
	f := &dialogForm{Difficulty: string(entity.DifficultyIntermediate)}
	if len(categories) > 0 {
		f.CategoryID = categories[0].ID
	}
	return f
}

func dialogFormFrom(d entity.Dialog, categories []entity.Category) *dialogForm {
	f := &dialogForm{
		ID:          d.ID,
		Title:       d.Title,
		Category:    d.Category,
		Difficulty:  string(d.DifficultyLevel.OrDefault()),
		Description: d.DescriptionText(),
	}
	if d.CategoryID != nil {
		f.CategoryID = *d.CategoryID
	} else if id, err := entity.ResolveCategoryID(d.Category, categories); err == nil {
		f.CategoryID = id
	}
	return f
}

func parseDialogForm(r *http.Request) *dialogForm {
	id, _ := strconv.ParseInt(r.PostFormValue("category_id"), 10, 64)
	return &dialogForm{
		Title:       r.PostFormValue("title"),
		Category:    r.PostFormValue("category"),
		CategoryID:  id,
		Difficulty:  r.PostFormValue("difficulty_level"),
		Description: r.PostFormValue("description"),
	}
}

// category resolves the chosen category. Label-only servers take a free
// text label instead of a selection.
func (f *dialogForm) category(v entity.SchemaVersion, categories []entity.Category) (entity.Category, error) {
	if !v.HasCategoryAPI() {
		name := strings.TrimSpace(f.Category)
		if name == "" {
			return entity.Category{}, entity.ErrInvalidCategoryRef
		}
		return entity.Category{Name: name}, nil
	}
	c, ok := lo.Find(categories, func(c entity.Category) bool { return c.ID == f.CategoryID })
	if !ok {
		return entity.Category{}, entity.ErrInvalidCategoryRef
	}
	return c, nil
}

func (f *dialogForm) create(v entity.SchemaVersion, categories []entity.Category) (entity.DialogCreate, error) {
	c, err := f.category(v, categories)
	if err != nil && strings.TrimSpace(f.Title) != "" {
		return entity.DialogCreate{}, err
	}
	payload := entity.DialogCreate{
		Title:           strings.TrimSpace(f.Title),
		Category:        c.Name,
		DifficultyLevel: entity.ParseDifficulty(f.Difficulty),
		Description:     optional(f.Description),
	}
	if c.ID > 0 {
		payload.CategoryID = &c.ID
	}
	return payload, payload.Validate(v)
}

// update sends every field the form shows, like the create form does.
func (f *dialogForm) update(v entity.SchemaVersion, categories []entity.Category) (entity.DialogUpdate, error) {
	title := strings.TrimSpace(f.Title)
	difficulty := entity.ParseDifficulty(f.Difficulty)
	patch := entity.DialogUpdate{
		Title:           &title,
		DifficultyLevel: &difficulty,
		Description:     optional(f.Description),
	}
	if err := patch.Validate(); err != nil {
		return patch, err
	}
	c, err := f.category(v, categories)
	if err != nil {
		return patch, err
	}
	patch.Category = &c.Name
	if c.ID > 0 {
		patch.CategoryID = &c.ID
	}
	return patch, nil
}

type categoryForm struct {
	ID          int64
	Name        string
	Description string
	Error       string
}

func (f categoryForm) Editing() bool { return f.ID > 0 }

func categoryFormFrom(c entity.Category) *categoryForm {
	return &categoryForm{ID: c.ID, Name: c.Name, Description: c.DescriptionText()}
}

func parseCategoryForm(r *http.Request) *categoryForm {
	return &categoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}

func (f *categoryForm) create() (entity.CategoryCreate, error) {
	payload := entity.CategoryCreate{Name: strings.TrimSpace(f.Name), Description: optional(f.Description)}
	return payload, payload.Validate()
}

func (f *categoryForm) update() (entity.CategoryUpdate, error) {
	name := strings.TrimSpace(f.Name)
	patch := entity.CategoryUpdate{Name: &name, Description: optional(f.Description)}
	return patch, patch.Validate()
}

type phraseForm struct {
	ID            int64
	DialogID      int64
	ReferenceText string
	Phonetic      string
	Difficulty    string
	Error         string
}

func (f phraseForm) Editing() bool { return f.ID > 0 }

func newPhraseForm(dialogID int64) *phraseForm {
	return &phraseForm{DialogID: dialogID, Difficulty: string(entity.DifficultyIntermediate)}
}

func phraseFormFrom(p entity.Phrase) *phraseForm {
	return &phraseForm{
		ID:            p.ID,
		DialogID:      p.DialogID,
		ReferenceText: p.ReferenceText,
		Phonetic:      p.Phonetic(),
		Difficulty:    string(p.Difficulty.OrDefault()),
	}
}

func parsePhraseForm(r *http.Request, dialogID int64) *phraseForm {
	return &phraseForm{
		DialogID:      dialogID,
		ReferenceText: r.PostFormValue("reference_text"),
		Phonetic:      r.PostFormValue("phonetic_transcription"),
		Difficulty:    r.PostFormValue("difficulty"),
	}
}

func (f *phraseForm) create() (entity.PhraseCreate, error) {
	difficulty := entity.ParseDifficulty(f.Difficulty).OrDefault()
	payload := entity.PhraseCreate{
		DialogID:              f.DialogID,
		ReferenceText:         strings.TrimSpace(f.ReferenceText),
		PhoneticTranscription: optional(f.Phonetic),
		Difficulty:            &difficulty,
	}
	return payload, payload.Validate()
}

func (f *phraseForm) update() (entity.PhraseUpdate, error) {
	text := strings.TrimSpace(f.ReferenceText)
	difficulty := entity.ParseDifficulty(f.Difficulty).OrDefault()
	patch := entity.PhraseUpdate{
		ReferenceText:         &text,
		PhoneticTranscription: optional(f.Phonetic),
		Difficulty:            &difficulty,
	}
	return patch, patch.Validate()
}
