// Package session describes the signed-in user the bill pages run for.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/billed/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

// Keys under which the session is kept in a KV store
const (
	KeyUser = "user"
	KeyJWT  = "jwt"
)

// UserType is the role of a signed-in user
type UserType string

const (
	UserTypeEmployee UserType = "Employee"
	UserTypeAdmin    UserType = "Admin"
)

// User is the signed-in user as stored under KeyUser
type User struct {
	Type  UserType `json:"type" validate:"required,oneof=Employee Admin"`
	Email string   `json:"email" validate:"required,max=254,login"`
}

// Context is the session handed explicitly to the bill pages
type Context struct {
	User User
	JWT  string
}

// IsEmployee reports whether the session belongs to an employee
func (c Context) IsEmployee() bool {
	return c.User.Type == UserTypeEmployee
}

// ErrNoSession is returned when no user is stored
var ErrNoSession = shared.NewDomainError("NO_SESSION", "No user is signed in")

// ErrNotFound must be returned by KV implementations for a missing key
var ErrNotFound = shared.ErrNotFound

// KV is the string key-value store the session lives in
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("login", isLogin)
	return v
}

// isLogin accepts "local@domain" with both parts non-empty. The domain needs
// no dot: the reference employee account is "a@a".
func isLogin(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if strings.ContainsAny(v, " \t\r\n") {
		return false
	}
	local, domain, ok := strings.Cut(v, "@")
	return ok && local != "" && domain != "" && !strings.Contains(domain, "@")
}

// Validate checks the user fields
func (u User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// Load reads and validates the session from kv
func Load(ctx context.Context, kv KV) (Context, error) {
	raw, err := kv.Get(ctx, KeyUser)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Context{}, ErrNoSession
		}
		return Context{}, fmt.Errorf("failed to read session user: %w", err)
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return Context{}, fmt.Errorf("%w: malformed session user: %v", shared.ErrInvalidInput, err)
	}
	if err := user.Validate(); err != nil {
		return Context{}, err
	}

	token, err := kv.Get(ctx, KeyJWT)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Context{}, fmt.Errorf("failed to read session token: %w", err)
	}

	return Context{User: user, JWT: token}, nil
}

// Save writes the session to kv
func Save(ctx context.Context, kv KV, s Context) error {
	if err := s.User.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	if err := kv.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to store session user: %w", err)
	}
	if s.JWT != "" {
		if err := kv.Set(ctx, KeyJWT, s.JWT); err != nil {
			return fmt.Errorf("failed to store session token: %w", err)
		}
	}
	return nil
}

// Clear removes the session from kv
func Clear(ctx context.Context, kv KV) error {
	if err := kv.Delete(ctx, KeyUser); err != nil {
		return err
	}
	return kv.Delete(ctx, KeyJWT)
}
