// Package backup exports the console's content (categories, dialogs and
// phrases) to NDJSON through the API and replays such a file against another
// deployment.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

const formatVersion = 1

// Sections of a backup, in the order they are written and replayed.
const (
	SectionCategories = "categories"
	SectionDialogs    = "dialogs"
	SectionPhrases    = "phrases"
)

var allSections = []string{SectionCategories, SectionDialogs, SectionPhrases}

var errNoSectionsSelected = errors.New("backup: no sections selected")

type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

type Service struct {
	categories repository.CategoryRepository
	dialogs    repository.DialogRepository
	phrases    repository.PhraseRepository
	schema     entity.SchemaVersion
	log        logrus.FieldLogger
}

type Option func(*Service)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService builds a backup service over the API repositories. categories
// may be nil for label-only servers.
func NewService(categories repository.CategoryRepository, dialogs repository.DialogRepository, phrases repository.PhraseRepository, schema entity.SchemaVersion, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	svc := &Service{
		categories: categories,
		dialogs:    dialogs,
		phrases:    phrases,
		schema:     schema,
		log:        discard,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	sections []string
	reporter ProgressReporter
}

// WithSections restricts export to the named sections.
func WithSections(sections []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]string{}, sections...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	sections []string
	dryRun   bool
}

// WithImportSections restricts import to the named sections.
func WithImportSections(sections []string) ImportOption {
	return func(cfg *importConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]string{}, sections...)
	}
}

// WithDryRun validates every record without calling the API.
func WithDryRun(dryRun bool) ImportOption {
	return func(cfg *importConfig) {
		cfg.dryRun = dryRun
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Schema     string         `json:"schema,omitempty"`
	Sections   []string       `json:"sections,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	ExportedAt *time.Time      `json:"exported_at"`
	Schema     string          `json:"schema"`
	Sections   []string        `json:"sections"`
	RowCounts  map[string]int  `json:"row_counts"`
	Payload    json.RawMessage `json:"payload"`
}

// ImportSummary counts what an import created, reused or skipped.
type ImportSummary struct {
	Created map[string]int
	Reused  map[string]int
	Skipped map[string]int
}

func newImportSummary() *ImportSummary {
	return &ImportSummary{Created: map[string]int{}, Reused: map[string]int{}, Skipped: map[string]int{}}
}

// Export writes a meta record followed by one record per category, dialog
// and phrase. Dialog records carry no embedded phrases.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sections, err := s.selectSections(cfg.sections)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	var categories []entity.Category
	if slices.Contains(sections, SectionCategories) {
		if categories, err = s.categories.List(ctx); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
	}
	var dialogs []entity.Dialog
	if slices.Contains(sections, SectionDialogs) || slices.Contains(sections, SectionPhrases) {
		if dialogs, err = s.dialogs.List(ctx); err != nil {
			return fmt.Errorf("list dialogs: %w", err)
		}
	}
	phrases := lo.FlatMap(dialogs, func(d entity.Dialog, _ int) []entity.Phrase { return d.Phrases })

	payloads := map[string][]any{
		SectionCategories: lo.ToAnySlice(categories),
		SectionDialogs: lo.Map(dialogs, func(d entity.Dialog, _ int) any {
			d.Phrases = nil
			return d
		}),
		SectionPhrases: lo.ToAnySlice(phrases),
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	counts := make(map[string]int, len(sections))
	for _, sec := range sections {
		counts[sec] = len(payloads[sec])
	}

	now := time.Now().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		Schema:     s.schema.String(),
		Sections:   sections,
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, sec := range sections {
		items := payloads[sec]
		reporter.StartTable(sec, len(items))
		for _, item := range items {
			if err := writeRecord(writer, record{Type: sec, Payload: item}); err != nil {
				return err
			}
			reporter.Increment(sec, 1)
		}
		reporter.FinishTable(sec)
	}
	return writer.Flush()
}

// importState maps ids from the backup to ids on the target server.
type importState struct {
	categories   []entity.Category
	categoryIDs  map[int64]int64
	dialogIDs    map[int64]int64
	dialogLabels map[int64]string
	lastID       int64
}

// Import replays a backup. Categories are matched by name and reused when
// they already exist; dialogs and phrases are always created. Records must
// follow the section order Export writes.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (*ImportSummary, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sections, err := s.selectSections(cfg.sections)
	if err != nil {
		return nil, err
	}

	state := &importState{
		categoryIDs:  map[int64]int64{},
		dialogIDs:    map[int64]int64{},
		dialogLabels: map[int64]string{},
	}
	if s.schema.HasCategoryAPI() && s.categories != nil {
		if state.categories, err = s.categories.List(ctx); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		state.lastID = lo.Max(lo.Map(state.categories, func(c entity.Category, _ int) int64 { return c.ID }))
	}

	summary := newImportSummary()
	br := bufio.NewReader(r)
	metaSeen := false
	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return summary, fmt.Errorf("read backup: %w", readErr)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return summary, fmt.Errorf("line %d: decode record: %w", lineNo, err)
			}
			switch {
			case rec.Type == "meta":
				if rec.Version != formatVersion {
					return summary, fmt.Errorf("backup: unsupported format version %d", rec.Version)
				}
				metaSeen = true
			case !metaSeen:
				return summary, errors.New("backup: missing meta record")
			case !slices.Contains(sections, rec.Type):
				summary.Skipped[rec.Type]++
			default:
				if len(rec.Payload) == 0 {
					return summary, fmt.Errorf("backup: missing payload for %s on line %d", rec.Type, lineNo)
				}
				if err := s.importRecord(ctx, rec, state, summary, cfg.dryRun); err != nil {
					return summary, fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}
	if !metaSeen {
		return summary, errors.New("backup: missing meta record")
	}
	return summary, nil
}

func (s *Service) importRecord(ctx context.Context, rec rawRecord, state *importState, summary *ImportSummary, dryRun bool) error {
	switch rec.Type {
	case SectionCategories:
		var c entity.Category
		if err := json.Unmarshal(rec.Payload, &c); err != nil {
			return fmt.Errorf("decode category: %w", err)
		}
		return s.importCategory(ctx, c, state, summary, dryRun)
	case SectionDialogs:
		var d entity.Dialog
		if err := json.Unmarshal(rec.Payload, &d); err != nil {
			return fmt.Errorf("decode dialog: %w", err)
		}
		return s.importDialog(ctx, d, state, summary, dryRun)
	case SectionPhrases:
		var p entity.Phrase
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode phrase: %w", err)
		}
		return s.importPhrase(ctx, p, state, summary, dryRun)
	default:
		summary.Skipped[rec.Type]++
		return nil
	}
}

func (s *Service) importCategory(ctx context.Context, c entity.Category, state *importState, summary *ImportSummary, dryRun bool) error {
	if existing, ok := lo.Find(state.categories, func(e entity.Category) bool { return e.Name == c.Name }); ok {
		state.categoryIDs[c.ID] = existing.ID
		summary.Reused[SectionCategories]++
		return nil
	}
	payload := entity.CategoryCreate{Name: c.Name, Description: c.Description}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("category %q: %w", c.Name, err)
	}
	created := entity.Category{ID: state.placeholderID(), Name: c.Name, Description: c.Description}
	if !dryRun {
		out, err := s.categories.Create(ctx, payload)
		if err != nil {
			return fmt.Errorf("create category %q: %w", c.Name, err)
		}
		created = *out
	}
	state.categories = append(state.categories, created)
	state.categoryIDs[c.ID] = created.ID
	summary.Created[SectionCategories]++
	return nil
}

func (s *Service) importDialog(ctx context.Context, d entity.Dialog, state *importState, summary *ImportSummary, dryRun bool) error {
	payload := entity.DialogCreate{
		Title:           d.Title,
		Category:        d.Category,
		DifficultyLevel: d.DifficultyLevel,
		Description:     d.Description,
	}
	if s.schema.HasCategoryAPI() {
		id, err := state.resolveCategory(d)
		if err != nil {
			return fmt.Errorf("dialog %q: %w", d.Title, err)
		}
		payload.CategoryID = &id
	}
	if err := payload.Validate(s.schema); err != nil {
		return fmt.Errorf("dialog %q: %w", d.Title, err)
	}

	newID := state.placeholderID()
	if !dryRun {
		out, err := s.dialogs.Create(ctx, payload)
		if err != nil {
			return fmt.Errorf("create dialog %q: %w", d.Title, err)
		}
		newID = out.ID
	}
	state.dialogIDs[d.ID] = newID
	summary.Created[SectionDialogs]++
	return nil
}

func (s *Service) importPhrase(ctx context.Context, p entity.Phrase, state *importState, summary *ImportSummary, dryRun bool) error {
	dialogID, ok := state.dialogIDs[p.DialogID]
	if !ok {
		s.log.WithField("phrase_id", p.ID).Warn("skipping phrase of a dialog that was not imported")
		summary.Skipped[SectionPhrases]++
		return nil
	}
	order := p.Order
	payload := entity.PhraseCreate{
		DialogID:              dialogID,
		ReferenceText:         p.ReferenceText,
		PhoneticTranscription: p.PhoneticTranscription,
		Order:                 &order,
	}
	if p.Difficulty != entity.DifficultyUnspecified {
		difficulty := p.Difficulty
		payload.Difficulty = &difficulty
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("phrase %d: %w", p.ID, err)
	}
	if !dryRun {
		if _, err := s.phrases.Create(ctx, payload); err != nil {
			return fmt.Errorf("create phrase %d: %w", p.ID, err)
		}
	}
	summary.Created[SectionPhrases]++
	return nil
}

// resolveCategory maps a dialog's category to the target server, first
// through imported ids, then by label.
func (st *importState) resolveCategory(d entity.Dialog) (int64, error) {
	if d.CategoryID != nil {
		if id, ok := st.categoryIDs[*d.CategoryID]; ok {
			return id, nil
		}
	}
	if d.Category != "" {
		return entity.ResolveCategoryID(d.Category, st.categories)
	}
	return 0, entity.ErrUnknownCategory
}

// placeholderID hands out ids for records a dry run pretends to create.
// They start above every listed category id.
func (st *importState) placeholderID() int64 {
	st.lastID++
	return st.lastID
}

func (s *Service) selectSections(requested []string) ([]string, error) {
	available := allSections
	if !s.schema.HasCategoryAPI() || s.categories == nil {
		available = []string{SectionDialogs, SectionPhrases}
	}
	if len(requested) == 0 {
		return append([]string{}, available...), nil
	}

	wanted := lo.Uniq(lo.Map(requested, func(sec string, _ int) string { return strings.ToLower(strings.TrimSpace(sec)) }))
	if unknown := lo.Without(wanted, available...); len(unknown) > 0 {
		return nil, fmt.Errorf("backup: unknown sections: %s", strings.Join(unknown, ", "))
	}
	selected := lo.Filter(available, func(sec string, _ int) bool { return slices.Contains(wanted, sec) })
	if len(selected) == 0 {
		return nil, errNoSectionsSelected
	}
	return selected, nil
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", rec.Type, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s record: %w", rec.Type, err)
	}
	return nil
}
