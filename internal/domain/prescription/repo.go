package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound means no prescription exists with the given id.
var ErrNotFound = errors.New("prescription not found")

// Repository is the persistence boundary for prescriptions.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Prescription, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)
}
