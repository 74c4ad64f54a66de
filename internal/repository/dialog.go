package repository

import (
	"context"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// DialogRepository abstracts the dialogs API.
type DialogRepository interface {
	Resource[entity.Dialog, entity.DialogCreate, entity.DialogUpdate]
	Get(ctx context.Context, id int64) (*entity.Dialog, error)
}

// PhraseRepository abstracts the phrases API. List returns every phrase;
// ListByDialog narrows to one dialog.
type PhraseRepository interface {
	Resource[entity.Phrase, entity.PhraseCreate, entity.PhraseUpdate]
	Get(ctx context.Context, id int64) (*entity.Phrase, error)
	ListByDialog(ctx context.Context, dialogID int64) ([]entity.Phrase, error)
}
