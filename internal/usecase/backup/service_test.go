package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/samber/lo"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

type memStore struct {
	mu         sync.RWMutex
	categories []entity.Category
	dialogs    []entity.Dialog
	nextID     int64
	creates    int
}

func (m *memStore) id() int64 {
	m.nextID++
	m.creates++
	return m.nextID
}

type memCategories struct{ *memStore }

func (m memCategories) List(context.Context) ([]entity.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entity.Category{}, m.categories...), nil
}

func (m memCategories) Get(_ context.Context, id int64) (*entity.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := lo.Find(m.categories, func(c entity.Category) bool { return c.ID == id })
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &c, nil
}

func (m memCategories) Create(_ context.Context, in entity.CategoryCreate) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := entity.Category{ID: m.id(), Name: in.Name, Description: in.Description}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m memCategories) Update(context.Context, int64, entity.CategoryUpdate) (*entity.Category, error) {
	return nil, entity.ErrNotFound
}

func (m memCategories) Delete(context.Context, int64) error { return nil }

type memDialogs struct{ *memStore }

func (m memDialogs) List(context.Context) ([]entity.Dialog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entity.Dialog{}, m.dialogs...), nil
}

func (m memDialogs) Get(_ context.Context, id int64) (*entity.Dialog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := lo.Find(m.dialogs, func(d entity.Dialog) bool { return d.ID == id })
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &d, nil
}

func (m memDialogs) Create(_ context.Context, in entity.DialogCreate) (*entity.Dialog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := entity.Dialog{ID: m.id(), Title: in.Title, CategoryID: in.CategoryID, DifficultyLevel: in.DifficultyLevel, Description: in.Description, Phrases: []entity.Phrase{}}
	m.dialogs = append(m.dialogs, d)
	return &d, nil
}

func (m memDialogs) Update(context.Context, int64, entity.DialogUpdate) (*entity.Dialog, error) {
	return nil, entity.ErrNotFound
}

func (m memDialogs) Delete(context.Context, int64) error { return nil }

type memPhrases struct{ *memStore }

func (m memPhrases) List(ctx context.Context) ([]entity.Phrase, error) {
	dialogs, _ := memDialogs(m).List(ctx)
	return lo.FlatMap(dialogs, func(d entity.Dialog, _ int) []entity.Phrase { return d.Phrases }), nil
}

func (m memPhrases) ListByDialog(ctx context.Context, dialogID int64) ([]entity.Phrase, error) {
	all, _ := m.List(ctx)
	return lo.Filter(all, func(p entity.Phrase, _ int) bool { return p.DialogID == dialogID }), nil
}

func (m memPhrases) Get(ctx context.Context, id int64) (*entity.Phrase, error) {
	all, _ := m.List(ctx)
	p, ok := lo.Find(all, func(p entity.Phrase) bool { return p.ID == id })
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &p, nil
}

func (m memPhrases) Create(_ context.Context, in entity.PhraseCreate) (*entity.Phrase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := entity.Phrase{ID: m.id(), DialogID: in.DialogID, ReferenceText: in.ReferenceText, PhoneticTranscription: in.PhoneticTranscription}
	if in.Order != nil {
		p.Order = *in.Order
	}
	if in.Difficulty != nil {
		p.Difficulty = *in.Difficulty
	}
	for i := range m.dialogs {
		if m.dialogs[i].ID == in.DialogID {
			m.dialogs[i].Phrases = append(m.dialogs[i].Phrases, p)
			return &p, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m memPhrases) Update(context.Context, int64, entity.PhraseUpdate) (*entity.Phrase, error) {
	return nil, entity.ErrNotFound
}

func (m memPhrases) Delete(context.Context, int64) error { return nil }

var (
	_ repository.CategoryRepository = memCategories{}
	_ repository.DialogRepository   = memDialogs{}
	_ repository.PhraseRepository   = memPhrases{}
)

func newService(store *memStore, opts ...Option) *Service {
	return NewService(memCategories{store}, memDialogs{store}, memPhrases{store}, entity.SchemaV2, opts...)
}

func seededStore() *memStore {
	one, two := int64(1), int64(2)
	ipa := "/həˈləʊ/"
	return &memStore{
		categories: []entity.Category{{ID: 1, Name: "IELTS_Part1"}, {ID: 2, Name: "Travel"}},
		dialogs: []entity.Dialog{
			{ID: 10, Title: "Hometown", CategoryID: &one, DifficultyLevel: entity.DifficultyBeginner, Phrases: []entity.Phrase{
				{ID: 100, DialogID: 10, ReferenceText: "Hello", PhoneticTranscription: &ipa, Order: 0, Difficulty: entity.DifficultyBeginner},
				{ID: 101, DialogID: 10, ReferenceText: "I live in Leeds.", Order: 1, Difficulty: entity.DifficultyIntermediate},
			}},
			{ID: 11, Title: "Airport", CategoryID: &two, DifficultyLevel: entity.DifficultyAdvanced, Phrases: []entity.Phrase{
				{ID: 102, DialogID: 11, ReferenceText: "Window seat, please.", Order: 0, Difficulty: entity.DifficultyAdvanced},
			}},
		},
		nextID: 1000,
	}
}

type recordingProgress struct {
	started  map[string]int
	counts   map[string]int
	finished []string
}

func (p *recordingProgress) StartTable(table string, total int) { p.started[table] = total }
func (p *recordingProgress) Increment(table string, delta int)  { p.counts[table] += delta }
func (p *recordingProgress) FinishTable(table string)           { p.finished = append(p.finished, table) }

func TestExportWritesMetaAndSections(t *testing.T) {
	var buf bytes.Buffer
	progress := &recordingProgress{started: map[string]int{}, counts: map[string]int{}}
	if err := newService(seededStore()).Export(context.Background(), &buf, WithProgressReporter(progress)); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1+2+2+3 {
		t.Fatalf("expected 8 lines, got %d", len(lines))
	}
	var meta rawRecord
	if err := json.Unmarshal([]byte(lines[0]), &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Type != "meta" || meta.Version != formatVersion || meta.Schema != "v2" {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if meta.RowCounts[SectionPhrases] != 3 || meta.RowCounts[SectionDialogs] != 2 {
		t.Fatalf("unexpected row counts %v", meta.RowCounts)
	}
	if strings.Contains(lines[3], "Hello") {
		t.Fatalf("dialog records must not embed phrases: %s", lines[3])
	}
	if progress.counts[SectionPhrases] != 3 || len(progress.finished) != 3 {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	if err := newService(seededStore()).Export(ctx, &buf); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	dst := &memStore{categories: []entity.Category{{ID: 5, Name: "Travel"}}, nextID: 500}
	summary, err := newService(dst).Import(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if summary.Created[SectionCategories] != 1 || summary.Reused[SectionCategories] != 1 {
		t.Fatalf("unexpected category summary %+v", summary)
	}
	if summary.Created[SectionDialogs] != 2 || summary.Created[SectionPhrases] != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	airport, ok := lo.Find(dst.dialogs, func(d entity.Dialog) bool { return d.Title == "Airport" })
	if !ok || airport.CategoryID == nil || *airport.CategoryID != 5 {
		t.Fatalf("expected Airport mapped onto existing Travel category, got %+v", airport)
	}
	hometown, _ := lo.Find(dst.dialogs, func(d entity.Dialog) bool { return d.Title == "Hometown" })
	if len(hometown.Phrases) != 2 || hometown.Phrases[1].Order != 1 || hometown.Phrases[0].Phonetic() != "/həˈləʊ/" {
		t.Fatalf("unexpected phrases %+v", hometown.Phrases)
	}
}

func TestImportDryRunCreatesNothing(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	_ = newService(seededStore()).Export(ctx, &buf)

	dst := &memStore{}
	summary, err := newService(dst).Import(ctx, &buf, WithDryRun(true))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if dst.creates != 0 {
		t.Fatalf("dry run must not create anything, got %d", dst.creates)
	}
	if summary.Created[SectionCategories] != 2 || summary.Created[SectionDialogs] != 2 || summary.Created[SectionPhrases] != 3 {
		t.Fatalf("expected dry run to count every record, got %+v", summary)
	}
}

func TestImportDryRunWithNewAndExistingCategories(t *testing.T) {
	in := strings.Join([]string{
		`{"type":"meta","version":1,"schema":"v2"}`,
		`{"type":"categories","payload":{"id":7,"name":"Work"}}`,
		`{"type":"categories","payload":{"id":8,"name":"Travel"}}`,
		`{"type":"dialogs","payload":{"id":20,"title":"Meeting","category_id":7,"difficulty_level":"Beginner"}}`,
		`{"type":"dialogs","payload":{"id":21,"title":"Airport","category_id":8,"difficulty_level":"Advanced"}}`,
		`{"type":"phrases","payload":{"id":30,"dialog_id":20,"reference_text":"Shall we start?","order":0}}`,
	}, "\n") + "\n"

	dst := &memStore{categories: []entity.Category{{ID: 5, Name: "Travel"}}}
	summary, err := newService(dst).Import(context.Background(), strings.NewReader(in), WithDryRun(true))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if dst.creates != 0 {
		t.Fatalf("dry run must not create anything, got %d", dst.creates)
	}
	if summary.Created[SectionCategories] != 1 || summary.Reused[SectionCategories] != 1 {
		t.Fatalf("unexpected category summary %+v", summary)
	}
	if summary.Created[SectionDialogs] != 2 || summary.Created[SectionPhrases] != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestPlaceholderIDsStartAboveListedCategories(t *testing.T) {
	st := &importState{lastID: 12}
	if a, b := st.placeholderID(), st.placeholderID(); a != 13 || b != 14 {
		t.Fatalf("unexpected placeholder ids %d %d", a, b)
	}
}

func TestImportRejectsMissingMeta(t *testing.T) {
	in := strings.NewReader(`{"type":"categories","payload":{"id":1,"name":"x"}}` + "\n")
	if _, err := newService(&memStore{}).Import(context.Background(), in); err == nil {
		t.Fatalf("expected error for missing meta")
	}
	in = strings.NewReader(`{"type":"meta","version":9}` + "\n")
	if _, err := newService(&memStore{}).Import(context.Background(), in); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}

func TestSectionSelection(t *testing.T) {
	svc := newService(seededStore())
	if _, err := svc.selectSections([]string{"words"}); err == nil {
		t.Fatalf("expected unknown section error")
	}
	got, err := svc.selectSections([]string{"Phrases", "dialogs"})
	if err != nil {
		t.Fatalf("selectSections returned error: %v", err)
	}
	if strings.Join(got, ",") != "dialogs,phrases" {
		t.Fatalf("expected canonical order, got %v", got)
	}

	v1 := NewService(nil, memDialogs{seededStore()}, memPhrases{seededStore()}, entity.SchemaV1)
	all, _ := v1.selectSections(nil)
	if strings.Join(all, ",") != "dialogs,phrases" {
		t.Fatalf("label-only servers have no categories section, got %v", all)
	}
}
