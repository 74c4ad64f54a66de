// Package session implements the console's mock sign-in. It is a local
// convenience gate, not an access-control boundary: the API never sees it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/infrastructure/storage"
)

// StorageKey is where the signed-in user is persisted.
const StorageKey = "pronielts_user"

// Session moves between Anonymous and Authenticated(user).
type Session struct {
	mu    sync.RWMutex
	kv    storage.KV
	creds *Credentials
	log   logrus.FieldLogger
	user  *entity.AuthUser
}

type Option func(*Session)

func WithCredentials(c *Credentials) Option {
	return func(s *Session) { s.creds = c }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) { s.log = log }
}

// Open binds a session to kv and restores a previously stored user. A record
// that cannot be decoded is dropped and the session starts anonymous.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Session, error) {
	if kv == nil {
		return nil, errors.New("session: nil store")
	}
	s := &Session{kv: kv, creds: DefaultCredentials()}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}

	raw, err := kv.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("restore session: %w", err)
	}

	var user entity.AuthUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Email == "" {
		s.log.WithError(err).Warn("discarding unreadable session record")
		if delErr := kv.Delete(ctx, StorageKey); delErr != nil {
			s.log.WithError(delErr).Warn("failed to clear session record")
		}
		return s, nil
	}
	s.user = &user
	return s, nil
}

// Login checks the credential table. A mismatch returns false and leaves the
// session untouched; err is only set when persisting fails.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	user, ok, err := s.creds.Verify(email, password)
	if err != nil {
		return false, fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		return false, nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, string(data)); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.log.WithField("email", user.Email).Info("signed in")
	return true, nil
}

// Logout clears the stored record. The session becomes anonymous even when
// the store fails, and the failure is returned.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// User returns the signed-in user, if any.
func (s *Session) User() (entity.AuthUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entity.AuthUser{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}
