package repository

import (
	"context"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// CategoryRepository abstracts the categories API to keep usecases transport agnostic.
type CategoryRepository interface {
	Resource[entity.Category, entity.CategoryCreate, entity.CategoryUpdate]
	Get(ctx context.Context, id int64) (*entity.Category, error)
}
