package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/platform/auth"
)

var (
	// ErrForbidden means the caller's role or ownership does not permit the
	// operation.
	ErrForbidden = errors.New("operation not permitted for caller")
	// ErrValidation marks input the server rejects.
	ErrValidation = errors.New("validation failed")
)

// AppointmentSource resolves the appointment a prescription is issued for.
type AppointmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

type Service struct {
	repo  Repository
	appts AppointmentSource
	now   func() time.Time
}

func NewService(repo Repository, appts AppointmentSource) *Service {
	return &Service{repo: repo, appts: appts, now: time.Now}
}

// CreateRequest is the doctor-facing input for issuing a prescription.
type CreateRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Medication    string    `json:"medication"`
	Dosage        string    `json:"dosage"`
	Instructions  string    `json:"instructions"`
}

// Create issues a prescription. Only the appointment's doctor may issue one,
// and only once the visit is on the calendar or already held.
func (s *Service) Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Prescription, error) {
	if strings.TrimSpace(req.Medication) == "" {
		return nil, fmt.Errorf("medication is required: %w", ErrValidation)
	}
	if strings.TrimSpace(req.Dosage) == "" {
		return nil, fmt.Errorf("dosage is required: %w", ErrValidation)
	}

	a, err := s.appts.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return nil, fmt.Errorf("appointment not found: %w", ErrValidation)
		}
		return nil, err
	}
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleDoctor:
		if a.DoctorID != actor.ID {
			return nil, fmt.Errorf("issue prescription: %w", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("issue prescription: %w", ErrForbidden)
	}
	if a.Status != appointment.StatusScheduled && a.Status != appointment.StatusCompleted {
		return nil, fmt.Errorf("appointment is %s: %w", a.Status, ErrValidation)
	}

	p := &Prescription{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		Medication:    strings.TrimSpace(req.Medication),
		Dosage:        strings.TrimSpace(req.Dosage),
		Instructions:  strings.TrimSpace(req.Instructions),
		IssuedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one prescription the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(p, actor) {
		return nil, fmt.Errorf("get prescription: %w", ErrForbidden)
	}
	return p, nil
}

// List returns the actor's role-scoped prescriptions, newest first.
func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*Prescription, int, error) {
	var (
		items []*Prescription
		err   error
	)
	switch actor.Role {
	case auth.RoleAdmin:
		items, err = s.repo.ListAll(ctx)
	case auth.RoleDoctor:
		items, err = s.repo.ListByDoctor(ctx, actor.ID)
	case auth.RolePatient:
		items, err = s.repo.ListByPatient(ctx, actor.ID)
	default:
		return nil, 0, fmt.Errorf("list prescriptions: %w", ErrForbidden)
	}
	if err != nil {
		return nil, 0, err
	}
	total := len(items)
	if offset >= total {
		return []*Prescription{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return items[offset:end], total, nil
}

// Delete withdraws a prescription. Only the issuing doctor or an admin.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RoleDoctor && p.DoctorID == actor.ID) {
		return fmt.Errorf("delete prescription: %w", ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

func visible(p *Prescription, actor auth.Identity) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return p.DoctorID == actor.ID
	case auth.RolePatient:
		return p.PatientID == actor.ID
	}
	return false
}
