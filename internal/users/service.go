package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Store interface {
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, actor string, u User) (User, error)
	Update(ctx context.Context, actor string, u User) (User, error)
	Delete(ctx context.Context, actor, id string) error
}

type Service struct {
	Store  Store
	Tokens *Tokens
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
	Sections  []Section `json:"sections"`
}

func (s *Service) List(ctx context.Context) ([]User, error) { return s.Store.List(ctx) }

func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (User, error) {
	perms, err := checkPermissions(in.Permissions)
	if err != nil {
		return User{}, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.Store.Create(ctx, actor, User{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Role:        in.Role,
		Password:    hash,
		Permissions: perms,
	})
}

func (s *Service) Update(ctx context.Context, actor, id string, in UpdateInput) (User, error) {
	perms, err := checkPermissions(in.Permissions)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Role:        in.Role,
		Permissions: perms,
	}
	if in.Password != "" {
		if u.Password, err = HashPassword(in.Password); err != nil {
			return User{}, err
		}
	}
	return s.Store.Update(ctx, actor, u)
}

func (s *Service) Delete(ctx context.Context, actor, id string) error {
	if id == SystemID {
		return ErrProtected
	}
	return s.Store.Delete(ctx, actor, id)
}

// Login checks the password and issues a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Store.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if ComparePassword(u.Password, password) != nil {
		return Session{}, ErrInvalidCredentials
	}
	tok, exp, err := s.Tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp, User: u, Sections: Visible(u.Role, u.Permissions)}, nil
}

// EnsureAdmin creates an ADMIN account, or promotes and re-keys the
// existing account with that email.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (User, error) {
	u, err := s.Store.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.Create(ctx, SystemID, CreateInput{Name: name, Email: email, Role: RoleAdmin, Password: password})
	case err != nil:
		return User{}, err
	}
	return s.Update(ctx, SystemID, u.ID, UpdateInput{Name: name, Email: email, Role: RoleAdmin, Password: password, Permissions: u.Permissions})
}
