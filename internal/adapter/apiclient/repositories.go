package apiclient

import (
	"context"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

// Categories exposes the client as a repository.CategoryRepository.
func (c *Client) Categories() repository.CategoryRepository { return categoryRepository{c} }

// Dialogs exposes the client as a repository.DialogRepository.
func (c *Client) Dialogs() repository.DialogRepository { return dialogRepository{c} }

// Phrases exposes the client as a repository.PhraseRepository.
func (c *Client) Phrases() repository.PhraseRepository { return phraseRepository{c} }

// Users exposes the client as a repository.UserRepository.
func (c *Client) Users() repository.UserRepository { return userRepository{c} }

// HealthChecker exposes the client as a repository.HealthRepository.
func (c *Client) HealthChecker() repository.HealthRepository { return healthRepository{c} }

func data[T any](resp *Response[T], err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func list[T any](resp *Response[[]T], err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []T{}, nil
	}
	return resp.Data, nil
}

type categoryRepository struct{ c *Client }

func (r categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	return list(r.c.ListCategories(ctx))
}

func (r categoryRepository) Get(ctx context.Context, id int64) (*entity.Category, error) {
	return data(r.c.GetCategory(ctx, id))
}

func (r categoryRepository) Create(ctx context.Context, payload entity.CategoryCreate) (*entity.Category, error) {
	return data(r.c.CreateCategory(ctx, payload))
}

func (r categoryRepository) Update(ctx context.Context, id int64, patch entity.CategoryUpdate) (*entity.Category, error) {
	return data(r.c.UpdateCategory(ctx, id, patch))
}

func (r categoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.c.DeleteCategory(ctx, id)
	return err
}

type dialogRepository struct{ c *Client }

func (r dialogRepository) List(ctx context.Context) ([]entity.Dialog, error) {
	return list(r.c.ListDialogs(ctx))
}

func (r dialogRepository) Get(ctx context.Context, id int64) (*entity.Dialog, error) {
	return data(r.c.GetDialog(ctx, id))
}

func (r dialogRepository) Create(ctx context.Context, payload entity.DialogCreate) (*entity.Dialog, error) {
	return data(r.c.CreateDialog(ctx, payload))
}

func (r dialogRepository) Update(ctx context.Context, id int64, patch entity.DialogUpdate) (*entity.Dialog, error) {
	return data(r.c.UpdateDialog(ctx, id, patch))
}

func (r dialogRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.c.DeleteDialog(ctx, id)
	return err
}

type phraseRepository struct{ c *Client }

func (r phraseRepository) List(ctx context.Context) ([]entity.Phrase, error) {
	return list(r.c.ListPhrases(ctx, nil))
}

func (r phraseRepository) ListByDialog(ctx context.Context, dialogID int64) ([]entity.Phrase, error) {
	return list(r.c.ListPhrases(ctx, &dialogID))
}

func (r phraseRepository) Get(ctx context.Context, id int64) (*entity.Phrase, error) {
	return data(r.c.GetPhrase(ctx, id))
}

func (r phraseRepository) Create(ctx context.Context, payload entity.PhraseCreate) (*entity.Phrase, error) {
	return data(r.c.CreatePhrase(ctx, payload))
}

func (r phraseRepository) Update(ctx context.Context, id int64, patch entity.PhraseUpdate) (*entity.Phrase, error) {
	return data(r.c.UpdatePhrase(ctx, id, patch))
}

func (r phraseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.c.DeletePhrase(ctx, id)
	return err
}

type userRepository struct{ c *Client }

func (r userRepository) ListAssessments(ctx context.Context, userID int64, page repository.Pagination) ([]entity.Assessment, error) {
	return list(r.c.ListUserAssessments(ctx, userID, page))
}

func (r userRepository) Progress(ctx context.Context, userID int64) (*entity.UserProgress, error) {
	return data(r.c.GetUserProgress(ctx, userID))
}

type healthRepository struct{ c *Client }

func (r healthRepository) Health(ctx context.Context) (*entity.HealthCheck, error) {
	return data(r.c.Health(ctx))
}
