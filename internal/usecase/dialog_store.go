package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

// DialogStore mirrors the dialogs collection together with their phrases.
// Phrase mutations go through the phrase API and are followed by a full
// re-fetch of the dialogs, since phrases are embedded in dialog responses.
type DialogStore struct {
	*Collection[entity.Dialog, entity.DialogCreate, entity.DialogUpdate]
	repo    repository.DialogRepository
	phrases repository.PhraseRepository
	log     logrus.FieldLogger
}

func NewDialogStore(repo repository.DialogRepository, phrases repository.PhraseRepository, log logrus.FieldLogger) *DialogStore {
	c := NewCollection("dialogs", "dialog", repository.Resource[entity.Dialog, entity.DialogCreate, entity.DialogUpdate](repo), dialogID, log)
	return &DialogStore{
		Collection: c,
		repo:       repo,
		phrases:    phrases,
		log:        c.log,
	}
}

func dialogID(d entity.Dialog) int64 { return d.ID }

// Select filters and orders the mirrored dialogs.
func (s *DialogStore) Select(q Query) ([]entity.Dialog, error) {
	return Select(s.Items(), q, DialogFields)
}

// Lookup returns the mirrored dialog or asks the server for it.
func (s *DialogStore) Lookup(ctx context.Context, id int64) (*entity.Dialog, error) {
	if d, ok := s.Find(id); ok {
		return &d, nil
	}
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dialog %d: %w", id, err)
	}
	return d, nil
}

// FindPhrase locates a mirrored phrase by id across all dialogs.
func (s *DialogStore) FindPhrase(id int64) (entity.Phrase, bool) {
	for _, d := range s.Items() {
		for _, p := range d.Phrases {
			if p.ID == id {
				return p, true
			}
		}
	}
	return entity.Phrase{}, false
}

// AddPhrase creates a phrase then refreshes the dialogs.
func (s *DialogStore) AddPhrase(ctx context.Context, payload entity.PhraseCreate) (*entity.Phrase, error) {
	created, err := s.phrases.Create(ctx, payload)
	if err != nil {
		return nil, s.phraseFailure("create", payload.DialogID, err)
	}
	s.refresh(ctx)
	return created, nil
}

// EditPhrase updates a phrase then refreshes the dialogs.
func (s *DialogStore) EditPhrase(ctx context.Context, id int64, patch entity.PhraseUpdate) (*entity.Phrase, error) {
	updated, err := s.phrases.Update(ctx, id, patch)
	if err != nil {
		return nil, s.phraseFailure("update", id, err)
	}
	s.refresh(ctx)
	return updated, nil
}

// RemovePhrase deletes a phrase then refreshes the dialogs.
func (s *DialogStore) RemovePhrase(ctx context.Context, id int64) error {
	if err := s.phrases.Delete(ctx, id); err != nil {
		return s.phraseFailure("delete", id, err)
	}
	s.refresh(ctx)
	return nil
}

// RemoveConfirmed deletes a dialog after the operator agrees.
func (s *DialogStore) RemoveConfirmed(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	ok, err := confirmed(ctx, confirm, DialogDeletePrompt)
	if err != nil || !ok {
		return false, err
	}
	if err := s.Remove(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// RemovePhraseConfirmed deletes a phrase after the operator agrees.
func (s *DialogStore) RemovePhraseConfirmed(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	ok, err := confirmed(ctx, confirm, PhraseDeletePrompt)
	if err != nil || !ok {
		return false, err
	}
	if err := s.RemovePhrase(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// refresh re-fetches dialogs after a phrase mutation. A failure only shows
// up in Error(); the phrase mutation itself already succeeded.
func (s *DialogStore) refresh(ctx context.Context) {
	if err := s.Fetch(ctx); err != nil {
		s.log.WithError(err).Warn("refresh after phrase change failed")
	}
}

func (s *DialogStore) phraseFailure(op string, id int64, err error) error {
	s.log.WithError(err).WithFields(logrus.Fields{"op": op + "_phrase", "id": id}).Error(op + " phrase failed")
	s.setError(fmt.Sprintf("Failed to %s phrase", op))
	return fmt.Errorf("%s phrase %d: %w", op, id, err)
}
