package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no appointment exists with the given id.
	ErrNotFound = errors.New("appointment not found")
	// ErrVersionConflict means the row changed since the caller read it.
	ErrVersionConflict = errors.New("appointment was modified concurrently")
)

// Repository is the persistence boundary for appointments. List methods
// return rows in booking order, newest first.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// Update writes back a row read at a.Version and bumps the version.
	// It returns ErrVersionConflict if the stored version no longer matches.
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetPaymentStatus updates only the denormalized payment_status column.
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status string) error
	ListAll(ctx context.Context) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, doctorName string) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, patientName string) ([]*Appointment, error)
}
