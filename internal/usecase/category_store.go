package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

// CategoryStore mirrors the categories collection.
type CategoryStore struct {
	*Collection[entity.Category, entity.CategoryCreate, entity.CategoryUpdate]
	repo repository.CategoryRepository
}

func NewCategoryStore(repo repository.CategoryRepository, log logrus.FieldLogger) *CategoryStore {
	return &CategoryStore{
		Collection: NewCollection("categories", "category", repository.Resource[entity.Category, entity.CategoryCreate, entity.CategoryUpdate](repo), categoryID, log),
		repo:       repo,
	}
}

func categoryID(c entity.Category) int64 { return c.ID }

// Select filters and orders the mirrored categories.
func (s *CategoryStore) Select(q Query) ([]entity.Category, error) {
	return Select(s.Items(), q, CategoryFields)
}

// Lookup returns the mirrored category, asking the server when it is not
// mirrored yet.
func (s *CategoryStore) Lookup(ctx context.Context, id int64) (*entity.Category, error) {
	if c, ok := s.Find(id); ok {
		return &c, nil
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// RemoveConfirmed asks confirm with the cascade warning and deletes only on
// a yes. It reports whether the category was deleted.
func (s *CategoryStore) RemoveConfirmed(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return false, err
	}
	ok, err := confirmed(ctx, confirm, CategoryDeletePrompt(*c))
	if err != nil || !ok {
		return false, err
	}
	if err := s.Remove(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
