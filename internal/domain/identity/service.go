package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/session"
)

var (
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures do not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 8

type Service struct {
	repo     Repository
	issuer   *auth.TokenIssuer
	revoked  auth.RevocationStore
	sessions session.Store
	now      func() time.Time
}

func NewService(repo Repository, issuer *auth.TokenIssuer, revoked auth.RevocationStore, sessions session.Store) *Service {
	return &Service{
		repo:     repo,
		issuer:   issuer,
		revoked:  revoked,
		sessions: sessions,
		now:      time.Now,
	}
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

// Register creates a doctor or patient account. Admin accounts are created
// from the CLI only.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if role == auth.RoleAdmin {
		return nil, fmt.Errorf("admin accounts cannot self-register: %w", ErrValidation)
	}
	u, err := s.newUser(req.Name, req.Email, req.Password, role, req.Specialty)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateAdmin provisions an admin account. Reachable from the CLI, not HTTP.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*User, error) {
	u, err := s.newUser(name, email, password, auth.RoleAdmin, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) newUser(name, email, password string, role auth.Role, specialty string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, ErrValidation)
	}
	if role == auth.RoleDoctor && strings.TrimSpace(specialty) == "" {
		return nil, fmt.Errorf("specialty is required for doctors: %w", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Specialty:    strings.TrimSpace(specialty),
		CreatedAt:    s.now(),
	}, nil
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login checks credentials, issues a token, and caches the session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(u.ID, u.Name, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if s.sessions != nil {
		cached := &session.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
		if err := s.sessions.Put(ctx, cached, s.issuer.TTL()); err != nil {
			return nil, fmt.Errorf("cache session: %w", err)
		}
	}
	return &LoginResult{Token: token, User: u}, nil
}

// Logout revokes the presented token and drops the cached session.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if tokenID != "" && s.revoked != nil {
		if err := s.revoked.Revoke(ctx, tokenID, s.issuer.TTL()); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, userID); err != nil {
			return fmt.Errorf("drop session: %w", err)
		}
	}
	return nil
}

// Lookup resolves a user id to its display name and role, trying the session
// cache before the users table. Other domains depend on this to validate the
// parties of an appointment or message.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (string, auth.Role, error) {
	if s.sessions != nil {
		if cached, err := s.sessions.Get(ctx, id); err == nil {
			role, err := auth.ParseRole(cached.Role)
			if err == nil {
				return cached.Name, role, nil
			}
		}
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if s.sessions != nil {
		cached := &session.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
		_ = s.sessions.Put(ctx, cached, s.issuer.TTL())
	}
	return u.Name, u.Role, nil
}

// Doctors lists registered doctors for the booking flow.
func (s *Service) Doctors(ctx context.Context) ([]*User, error) {
	return s.repo.ListByRole(ctx, auth.RoleDoctor)
}

// CountByRole exposes registration counts for the admin dashboard.
func (s *Service) CountByRole(ctx context.Context, role auth.Role) (int, error) {
	return s.repo.CountByRole(ctx, role)
}
