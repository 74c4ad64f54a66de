package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/repository"
)

// Collection mirrors a server-side collection and keeps the mirror in step
// with server-confirmed results. Mutations never touch local state before the
// server answers: on failure the mirror is left exactly as it was.
//
// Concurrent Adds are not de-duplicated; each appends its own result in the
// order the responses arrive. Fetch is last-call-wins: a response belonging
// to an older Fetch is dropped once a newer Fetch has been issued.
type Collection[T, C, U any] struct {
	plural   string
	singular string
	idOf     func(T) int64
	repo     repository.Resource[T, C, U]
	log      logrus.FieldLogger

	mu       sync.Mutex
	items    []T
	loading  bool
	loaded   bool
	errMsg   string
	fetchErr bool
	fetchSeq uint64
}

// NewCollection builds a collection named after its resource, e.g.
// ("dialogs", "dialog"). A nil logger discards diagnostics.
func NewCollection[T, C, U any](plural, singular string, repo repository.Resource[T, C, U], idOf func(T) int64, log logrus.FieldLogger) *Collection[T, C, U] {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Collection[T, C, U]{
		plural:   plural,
		singular: singular,
		idOf:     idOf,
		repo:     repo,
		log:      log.WithField("resource", plural),
		items:    []T{},
	}
}

// Items returns a copy of the mirrored list in server order.
func (c *Collection[T, C, U]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Find returns the mirrored entity with the given id.
func (c *Collection[T, C, U]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.Find(c.items, func(item T) bool { return c.idOf(item) == id })
}

func (c *Collection[T, C, U]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Loaded reports whether a Fetch has completed successfully at least once.
func (c *Collection[T, C, U]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Error returns the user-facing message of the last failure, or "".
func (c *Collection[T, C, U]) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// FetchFailed reports whether the current error came from Fetch, in which
// case the mirror does not reflect the server.
func (c *Collection[T, C, U]) FetchFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchErr && c.errMsg != ""
}

// Fetch replaces the whole mirror with the server's list.
func (c *Collection[T, C, U]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.loading = true
	c.errMsg = ""
	c.fetchErr = false
	c.mu.Unlock()

	items, err := c.repo.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.fetchSeq {
		c.log.WithField("op", "fetch").Debug("dropping stale fetch result")
		return err
	}
	c.loading = false
	if err != nil {
		c.errMsg = "Failed to fetch " + c.plural
		c.fetchErr = true
		c.log.WithError(err).WithField("op", "fetch").Error("fetch failed")
		return fmt.Errorf("fetch %s: %w", c.plural, err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.loaded = true
	return nil
}

// Add creates an entity and appends the server's copy of it.
func (c *Collection[T, C, U]) Add(ctx context.Context, payload C) (*T, error) {
	created, err := c.repo.Create(ctx, payload)
	if err != nil {
		return nil, c.fail("create", 0, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, 0, len(c.items)+1)
	next = append(next, c.items...)
	c.items = append(next, *created)
	c.errMsg = ""
	return created, nil
}

// Edit sends a partial update and swaps the matching entity in place.
func (c *Collection[T, C, U]) Edit(ctx context.Context, id int64, patch U) (*T, error) {
	updated, err := c.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, c.fail("update", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = lo.Map(c.items, func(item T, _ int) T {
		if c.idOf(item) == id {
			return *updated
		}
		return item
	})
	c.errMsg = ""
	return updated, nil
}

// Remove deletes an entity and filters it out of the mirror.
func (c *Collection[T, C, U]) Remove(ctx context.Context, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return c.fail("delete", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = lo.Reject(c.items, func(item T, _ int) bool { return c.idOf(item) == id })
	c.errMsg = ""
	return nil
}

func (c *Collection[T, C, U]) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *Collection[T, C, U]) fail(op string, id int64, err error) error {
	entry := c.log.WithError(err).WithField("op", op)
	if id > 0 {
		entry = entry.WithField("id", id)
	}
	entry.Error(op + " failed")

	c.setError(fmt.Sprintf("Failed to %s %s", op, c.singular))
	if id > 0 {
		return fmt.Errorf("%s %s %d: %w", op, c.singular, id, err)
	}
	return fmt.Errorf("%s %s: %w", op, c.singular, err)
}
