package users

import (
	"errors"
	"time"
)

// SystemID is the seeded account used as the actor of automated changes.
const SystemID = "system"

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("Email already registered")
	ErrProtected          = errors.New("the system account cannot be deleted")
	ErrInUse              = errors.New("user has recorded orders and cannot be deleted")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownSection     = errors.New("unknown permission section")
)

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Password    string    `json:"-"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Email       string   `json:"email" validate:"required,email"`
	Role        Role     `json:"role" validate:"required,oneof=ADMIN MANAGER ANALYST"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Permissions []string `json:"permissions"`
}

// UpdateInput keeps the stored password when Password is empty.
type UpdateInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Email       string   `json:"email" validate:"required,email"`
	Role        Role     `json:"role" validate:"required,oneof=ADMIN MANAGER ANALYST"`
	Password    string   `json:"password" validate:"omitempty,min=8,max=72"`
	Permissions []string `json:"permissions"`
}

func checkPermissions(perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	seen := map[string]bool{}
	for _, p := range perms {
		if !ValidSection(p) {
			return nil, ErrUnknownSection
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}
