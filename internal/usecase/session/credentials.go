package session

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/eslsoft/pronadmin/internal/entity"
)

type account struct {
	user     entity.AuthUser
	password string
	hash     []byte
}

// Credentials is a fixed table of accounts the console accepts. Passwords are
// hashed on first use and compared with bcrypt afterwards.
type Credentials struct {
	once     sync.Once
	accounts []*account
	hashErr  error
}

// NewCredentials builds a table from email/password pairs.
func NewCredentials(entries ...Entry) *Credentials {
	c := &Credentials{}
	for _, e := range entries {
		c.accounts = append(c.accounts, &account{user: e.User, password: e.Password})
	}
	return c
}

// Entry is one row of the credential table.
type Entry struct {
	User     entity.AuthUser
	Password string
}

// DefaultCredentials is the built-in admin account.
func DefaultCredentials() *Credentials {
	return NewCredentials(Entry{
		User:     entity.AuthUser{Email: "admin@pronielts.com", Name: "Admin User", Role: entity.RoleAdmin},
		Password: "admin123",
	})
}

func (c *Credentials) hashAll() {
	for _, a := range c.accounts {
		h, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.MinCost)
		if err != nil {
			c.hashErr = err
			return
		}
		a.hash = h
		a.password = ""
	}
}

// Verify returns the user for a matching email and password. Emails match
// exactly, as the login form submits them.
func (c *Credentials) Verify(email, password string) (entity.AuthUser, bool, error) {
	c.once.Do(c.hashAll)
	if c.hashErr != nil {
		return entity.AuthUser{}, false, c.hashErr
	}
	for _, a := range c.accounts {
		if a.user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
			return entity.AuthUser{}, false, nil
		}
		return a.user, true, nil
	}
	return entity.AuthUser{}, false, nil
}
