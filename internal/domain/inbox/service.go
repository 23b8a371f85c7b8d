package inbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

var (
	ErrForbidden  = errors.New("operation not permitted for caller")
	ErrValidation = errors.New("validation failed")
)

// UserDirectory resolves a recipient id to a display name.
type UserDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (name string, role auth.Role, err error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	now   func() time.Time
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

type SendRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
}

// Send delivers a message from the actor to another clinic user.
func (s *Service) Send(ctx context.Context, actor auth.Identity, req SendRequest) (*Message, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("subject is required: %w", ErrValidation)
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("body is required: %w", ErrValidation)
	}
	if req.RecipientID == actor.ID {
		return nil, fmt.Errorf("cannot message yourself: %w", ErrValidation)
	}
	name, _, err := s.users.Lookup(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("recipient not found: %w", ErrValidation)
	}

	m := &Message{
		SenderID:      actor.ID,
		SenderName:    actor.Name,
		RecipientID:   req.RecipientID,
		RecipientName: name,
		Subject:       strings.TrimSpace(req.Subject),
		Body:          strings.TrimSpace(req.Body),
		SentAt:        s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns one message the actor participates in.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(m, actor) {
		return nil, fmt.Errorf("get message: %w", ErrForbidden)
	}
	return m, nil
}

// List returns the actor's messages, newest first.
func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*Message, int, error) {
	var (
		items []*Message
		err   error
	)
	if actor.Role == auth.RoleAdmin {
		items, err = s.repo.ListAll(ctx)
	} else {
		items, err = s.repo.ListByParticipant(ctx, actor.ID)
	}
	if err != nil {
		return nil, 0, err
	}
	total := len(items)
	if offset >= total {
		return []*Message{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return items[offset:end], total, nil
}

// MarkRead flags a message as read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.RecipientID != actor.ID {
		return nil, fmt.Errorf("mark read: %w", ErrForbidden)
	}
	if !m.Read {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		m.Read = true
	}
	return m, nil
}

func visible(m *Message, actor auth.Identity) bool {
	if actor.Role == auth.RoleAdmin {
		return true
	}
	return m.SenderID == actor.ID || m.RecipientID == actor.ID
}
