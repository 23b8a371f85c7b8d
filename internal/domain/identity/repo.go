package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

var (
	// ErrNotFound is returned when no user matches the given id or email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role auth.Role) ([]*User, error)
	CountByRole(ctx context.Context, role auth.Role) (int, error)
}
