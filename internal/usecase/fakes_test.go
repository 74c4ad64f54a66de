package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

var errNetwork = errors.New("network error")

type fakeCategoryRepo struct {
	mu        sync.RWMutex
	seq       int64
	items     []entity.Category
	failList  bool
	failWrite bool
	calls     []string
}

func (r *fakeCategoryRepo) record(call string) {
	r.calls = append(r.calls, call)
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("list")
	if r.failList {
		return nil, errNetwork
	}
	return append([]entity.Category(nil), r.items...), nil
}

func (r *fakeCategoryRepo) Get(_ context.Context, id int64) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeCategoryRepo) Create(_ context.Context, payload entity.CategoryCreate) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("create")
	if r.failWrite {
		return nil, errNetwork
	}
	r.seq++
	c := entity.Category{ID: r.seq, Name: payload.Name, Description: payload.Description}
	r.items = append(r.items, c)
	return &c, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, id int64, patch entity.CategoryUpdate) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("update")
	if r.failWrite {
		return nil, errNetwork
	}
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if patch.Name != nil {
			r.items[i].Name = *patch.Name
		}
		if patch.Description != nil {
			r.items[i].Description = patch.Description
		}
		clone := r.items[i]
		return &clone, nil
	}
	return nil, entity.ErrNotFound
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("delete")
	if r.failWrite {
		return errNetwork
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

type fakeDialogRepo struct {
	mu        sync.RWMutex
	seq       int64
	items     []entity.Dialog
	failList  bool
	failWrite bool
	listCalls int
	// gates lets a test hold individual List calls until released.
	gates []chan struct{}
}

func (r *fakeDialogRepo) snapshot() []entity.Dialog {
	out := make([]entity.Dialog, len(r.items))
	for i, d := range r.items {
		d.Phrases = append([]entity.Phrase{}, d.Phrases...)
		out[i] = d
	}
	return out
}

func (r *fakeDialogRepo) List(ctx context.Context) ([]entity.Dialog, error) {
	r.mu.Lock()
	call := r.listCalls
	r.listCalls++
	var gate chan struct{}
	if call < len(r.gates) {
		gate = r.gates[call]
	}
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failList {
		return nil, errNetwork
	}
	return r.snapshot(), nil
}

func (r *fakeDialogRepo) Get(_ context.Context, id int64) (*entity.Dialog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.snapshot() {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeDialogRepo) Create(_ context.Context, payload entity.DialogCreate) (*entity.Dialog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return nil, errNetwork
	}
	r.seq++
	d := entity.Dialog{
		ID:              r.seq,
		Title:           payload.Title,
		Category:        payload.Category,
		CategoryID:      payload.CategoryID,
		DifficultyLevel: payload.DifficultyLevel.OrDefault(),
		Description:     payload.Description,
		Phrases:         []entity.Phrase{},
	}
	r.items = append(r.items, d)
	return &d, nil
}

func (r *fakeDialogRepo) Update(_ context.Context, id int64, patch entity.DialogUpdate) (*entity.Dialog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return nil, errNetwork
	}
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if patch.Title != nil {
			r.items[i].Title = *patch.Title
		}
		if patch.DifficultyLevel != nil {
			r.items[i].DifficultyLevel = *patch.DifficultyLevel
		}
		clone := r.items[i]
		return &clone, nil
	}
	return nil, entity.ErrNotFound
}

func (r *fakeDialogRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errNetwork
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

// fakePhraseRepo stores phrases inside the dialogs of a fakeDialogRepo.
type fakePhraseRepo struct {
	dialogs   *fakeDialogRepo
	seq       int64
	failWrite bool
}

func (r *fakePhraseRepo) List(ctx context.Context) ([]entity.Phrase, error) {
	dialogs, err := r.dialogs.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []entity.Phrase
	for _, d := range dialogs {
		out = append(out, d.Phrases...)
	}
	return out, nil
}

func (r *fakePhraseRepo) ListByDialog(ctx context.Context, dialogID int64) ([]entity.Phrase, error) {
	d, err := r.dialogs.Get(ctx, dialogID)
	if err != nil {
		return nil, err
	}
	return d.Phrases, nil
}

func (r *fakePhraseRepo) Get(_ context.Context, id int64) (*entity.Phrase, error) {
	r.dialogs.mu.RLock()
	defer r.dialogs.mu.RUnlock()
	for _, d := range r.dialogs.items {
		for _, p := range d.Phrases {
			if p.ID == id {
				clone := p
				return &clone, nil
			}
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakePhraseRepo) Create(_ context.Context, payload entity.PhraseCreate) (*entity.Phrase, error) {
	r.dialogs.mu.Lock()
	defer r.dialogs.mu.Unlock()
	if r.failWrite {
		return nil, errNetwork
	}
	for i := range r.dialogs.items {
		if r.dialogs.items[i].ID != payload.DialogID {
			continue
		}
		r.seq++
		p := entity.Phrase{ID: r.seq, DialogID: payload.DialogID, ReferenceText: payload.ReferenceText, Difficulty: entity.DifficultyIntermediate}
		if payload.Order != nil {
			p.Order = *payload.Order
		}
		r.dialogs.items[i].Phrases = append(r.dialogs.items[i].Phrases, p)
		return &p, nil
	}
	return nil, entity.ErrNotFound
}

func (r *fakePhraseRepo) Update(_ context.Context, id int64, patch entity.PhraseUpdate) (*entity.Phrase, error) {
	r.dialogs.mu.Lock()
	defer r.dialogs.mu.Unlock()
	if r.failWrite {
		return nil, errNetwork
	}
	for i := range r.dialogs.items {
		for j := range r.dialogs.items[i].Phrases {
			p := &r.dialogs.items[i].Phrases[j]
			if p.ID != id {
				continue
			}
			if patch.ReferenceText != nil {
				p.ReferenceText = *patch.ReferenceText
			}
			clone := *p
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakePhraseRepo) Delete(_ context.Context, id int64) error {
	r.dialogs.mu.Lock()
	defer r.dialogs.mu.Unlock()
	if r.failWrite {
		return errNetwork
	}
	for i := range r.dialogs.items {
		phrases := r.dialogs.items[i].Phrases
		for j := range phrases {
			if phrases[j].ID == id {
				r.dialogs.items[i].Phrases = append(phrases[:j:j], phrases[j+1:]...)
				return nil
			}
		}
	}
	return entity.ErrNotFound
}

type fakeUserRepo struct {
	assessments  []entity.Assessment
	progress     *entity.UserProgress
	failProgress bool
	gotPage      repository.Pagination
	mu           sync.Mutex
}

func (r *fakeUserRepo) ListAssessments(_ context.Context, _ int64, page repository.Pagination) ([]entity.Assessment, error) {
	r.mu.Lock()
	r.gotPage = page
	r.mu.Unlock()
	return r.assessments, nil
}

func (r *fakeUserRepo) Progress(_ context.Context, userID int64) (*entity.UserProgress, error) {
	if r.failProgress || r.progress == nil {
		return nil, entity.ErrNotFound
	}
	clone := *r.progress
	clone.UserID = userID
	return &clone, nil
}

type fakeHealthRepo struct {
	health *entity.HealthCheck
	err    error
}

func (r *fakeHealthRepo) Health(context.Context) (*entity.HealthCheck, error) {
	return r.health, r.err
}
