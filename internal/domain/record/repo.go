package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("medical record not found")

type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	ListAll(ctx context.Context) ([]*MedicalRecord, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error)
}
