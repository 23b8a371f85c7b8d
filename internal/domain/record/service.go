package record

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

// UserDirectory verifies the patient a record is written for.
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

type CreateRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Diagnosis string    `json:"diagnosis"`
	Notes     string    `json:"notes"`
}

// Create writes a medical record. Doctors only; the record is attributed to
// the writing doctor.
func (s *Service) Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*MedicalRecord, error) {
	if actor.Role != auth.RoleDoctor && actor.Role != auth.RoleAdmin {
		return nil, fmt.Errorf("write medical record: %w", ErrForbidden)
	}
	if strings.TrimSpace(req.Diagnosis) == "" {
		return nil, fmt.Errorf("diagnosis is required: %w", ErrValidation)
	}
	_, role, err := s.users.Lookup(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", ErrValidation)
	}
	if role != auth.RolePatient {
		return nil, fmt.Errorf("user %s is not a patient: %w", req.PatientID, ErrValidation)
	}

	m := &MedicalRecord{
		PatientID:  req.PatientID,
		DoctorID:   actor.ID,
		Diagnosis:  strings.TrimSpace(req.Diagnosis),
		Notes:      strings.TrimSpace(req.Notes),
		RecordedAt: s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns one record the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*MedicalRecord, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(m, actor) {
		return nil, fmt.Errorf("get medical record: %w", ErrForbidden)
	}
	return m, nil
}

// List returns the actor's role-scoped records, newest first.
func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*MedicalRecord, int, error) {
	var (
		items []*MedicalRecord
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
		return nil, 0, fmt.Errorf("list medical records: %w", ErrForbidden)
	}
	if err != nil {
		return nil, 0, err
	}
	total := len(items)
	if offset >= total {
		return []*MedicalRecord{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return items[offset:end], total, nil
}

func visible(m *MedicalRecord, actor auth.Identity) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return m.DoctorID == actor.ID
	case auth.RolePatient:
		return m.PatientID == actor.ID
	}
	return false
}
