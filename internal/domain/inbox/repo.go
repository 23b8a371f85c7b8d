package inbox

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no message matches the given id.
var ErrNotFound = errors.New("message not found")

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Message, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]*Message, error)
}
