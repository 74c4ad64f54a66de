package repository

import "context"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// Pagination holds limit/offset parameters for listing assessments.
type Pagination struct {
	Limit  int
	Offset int
}

// Normalize clamps the window to what the API accepts.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Resource is the list/create/update/delete surface every mirrored
// collection is built on. C and U are the create and partial-update payloads.
type Resource[T, C, U any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload C) (*T, error)
	Update(ctx context.Context, id int64, patch U) (*T, error)
	Delete(ctx context.Context, id int64) error
}
