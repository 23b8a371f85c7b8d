package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no payment exists with the given id.
	ErrNotFound = errors.New("payment not found")
	// ErrDuplicate means the appointment already has a payment row.
	ErrDuplicate = errors.New("appointment already has a payment")
)

// Repository is the persistence boundary for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error
	ListAll(ctx context.Context) ([]*Payment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, doctorName string) ([]*Payment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, patientName string) ([]*Payment, error)
	// StatsByDoctor aggregates paid payments only.
	StatsByDoctor(ctx context.Context, doctorID uuid.UUID) (*Stats, error)
	// ListPaidByDoctorBetween returns paid payments in [from, to], oldest
	// first, for statement rendering.
	ListPaidByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Payment, error)
}
