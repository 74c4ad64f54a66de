package repository

import (
	"context"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// UserRepository reads a learner's assessment history and aggregate progress.
type UserRepository interface {
	ListAssessments(ctx context.Context, userID int64, page Pagination) ([]entity.Assessment, error)
	Progress(ctx context.Context, userID int64) (*entity.UserProgress, error)
}

// HealthRepository reports upstream API health.
type HealthRepository interface {
	Health(ctx context.Context) (*entity.HealthCheck, error)
}
