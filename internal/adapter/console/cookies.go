package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eslsoft/pronadmin/internal/infrastructure/storage"
)

type cookieSigner struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

func newCookieSigner(secret string, ttl time.Duration) cookieSigner {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return cookieSigner{secret: []byte(secret), ttl: ttl, clock: time.Now}
}

type stateClaims struct {
	Value string `json:"val"`
	jwt.RegisteredClaims
}

func (s cookieSigner) sign(value string) (string, time.Time, error) {
	now := s.clock()
	expires := now.Add(s.ttl)
	claims := stateClaims{
		Value: value,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    "pronadmin",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign cookie: %w", err)
	}
	return token, expires, nil
}

func (s cookieSigner) verify(token string) (string, error) {
	claims := &stateClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Value, nil
}

// cookieKV is a per-request storage.KV whose records live in signed
// cookies, so each browser carries its own session.
type cookieKV struct {
	signer cookieSigner
	w      http.ResponseWriter
	r      *http.Request
}

var _ storage.KV = (*cookieKV)(nil)

func (h *Handler) cookieStore(w http.ResponseWriter, r *http.Request) *cookieKV {
	return &cookieKV{signer: h.cookies, w: w, r: r}
}

func (c *cookieKV) Get(_ context.Context, key string) (string, error) {
	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", storage.ErrKeyNotFound
	}
	value, err := c.signer.verify(cookie.Value)
	if err != nil {
		// An expired or tampered cookie reads as absent.
		return "", storage.ErrKeyNotFound
	}
	return value, nil
}

func (c *cookieKV) Put(_ context.Context, key, value string) error {
	token, expires, err := c.signer.sign(value)
	if err != nil {
		return err
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *cookieKV) Delete(_ context.Context, key string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *cookieKV) Close() error { return nil }
