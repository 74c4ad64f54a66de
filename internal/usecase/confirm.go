package usecase

import (
	"context"
	"fmt"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// Prompts shown before a destructive call. They are part of the console's
// contract and must not be reworded.
const (
	DialogDeletePrompt = "Are you sure you want to delete this dialog and all its phrases?"
	PhraseDeletePrompt = "Delete this phrase?"
)

// CategoryDeletePrompt warns about the dialogs that go with the category.
func CategoryDeletePrompt(c entity.Category) string {
	if c.DialogCount > 0 {
		return fmt.Sprintf("Are you sure you want to delete \"%s\"?\n\nWARNING: This will also delete %d dialog(s) and all their phrases and assessments. This action cannot be undone.", c.Name, c.DialogCount)
	}
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", c.Name)
}

// Confirmer asks the operator a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AlwaysConfirm answers yes without asking, e.g. for --yes.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func confirmed(ctx context.Context, confirm Confirmer, message string) (bool, error) {
	if confirm == nil {
		return false, fmt.Errorf("confirmation required: %s", message)
	}
	ok, err := confirm.Confirm(ctx, message)
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
