package console

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase/session"
)

const invalidLoginMessage = "Invalid email or password"

type userKey struct{}

func withUser(ctx context.Context, user entity.AuthUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func userFrom(ctx context.Context) (entity.AuthUser, bool) {
	user, ok := ctx.Value(userKey{}).(entity.AuthUser)
	return user, ok
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	return session.Open(r.Context(), h.cookieStore(w, r),
		session.WithCredentials(h.creds),
		session.WithLogger(h.log),
	)
}

// requireAuth sends anonymous browsers to the login page.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.openSession(w, r)
		if err != nil {
			h.log.WithError(err).Error("open session failed")
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		user, ok := sess.User()
		if !ok {
			target := "/login"
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			redirect(w, r, target)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

type loginPage struct {
	layout
	Email string
	Next  string
	Error string
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.openSession(w, r)
	if err == nil && sess.Authenticated() {
		redirect(w, r, "/")
		return
	}
	h.render(w, http.StatusOK, "login", loginPage{
		layout: layout{Title: "Sign in"},
		Next:   safeNext(r.URL.Query().Get("next")),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	page := loginPage{layout: layout{Title: "Sign in"}, Email: email, Next: safeNext(r.PostFormValue("next"))}

	if email == "" || password == "" {
		page.Error = "Email and password are required"
		h.render(w, http.StatusUnprocessableEntity, "login", page)
		return
	}

	sess, err := h.openSession(w, r)
	if err != nil {
		h.log.WithError(err).Error("open session failed")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	ok, err := sess.Login(r.Context(), email, password)
	if err != nil {
		h.log.WithError(err).Error("login failed")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		page.Error = invalidLoginMessage
		h.render(w, http.StatusUnauthorized, "login", page)
		return
	}
	target := page.Next
	if target == "" {
		target = "/"
	}
	redirect(w, r, target)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.openSession(w, r)
	if err == nil {
		if err := sess.Logout(r.Context()); err != nil {
			h.log.WithError(err).Warn("logout failed")
		}
	}
	redirect(w, r, "/login")
}

// safeNext only allows local paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
