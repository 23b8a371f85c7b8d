package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

// ErrValidation marks booking and update input the server rejects.
var ErrValidation = errors.New("validation failed")

// UserDirectory resolves account ids to display info at booking time.
// Implemented by the identity service.
type UserDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (name string, role auth.Role, err error)
}

// Hours is the clinic's bookable window, inclusive of both bounds.
type Hours struct {
	Open  int // first bookable hour, 24h
	Close int // last bookable hour, 24h
}

type Service struct {
	repo  Repository
	users UserDirectory
	hours Hours
	now   func() time.Time
}

func NewService(repo Repository, users UserDirectory, hours Hours) *Service {
	return &Service{repo: repo, users: users, hours: hours, now: time.Now}
}

// BookRequest is the patient-facing booking input. Time accepts 24-hour
// ("14:30") or 12-hour ("02:30 PM") form.
type BookRequest struct {
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Reason        string    `json:"reason"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
}

var validMethods = map[string]bool{MethodCash: true, MethodVisa: true}

// Book creates a new appointment in pending_approval. Patients book for
// themselves; admins may book on a patient's behalf.
func (s *Service) Book(ctx context.Context, actor auth.Identity, req BookRequest) (*Appointment, error) {
	switch actor.Role {
	case auth.RolePatient:
		req.PatientID = actor.ID
	case auth.RoleAdmin:
		if req.PatientID == uuid.Nil {
			return nil, fmt.Errorf("patient_id is required: %w", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("book: %w", ErrForbidden)
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required: %w", ErrValidation)
	}

	clock, err := s.validateSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !ValidReason(req.Reason) {
		return nil, fmt.Errorf("unknown reason %q: %w", req.Reason, ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	if !validMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("unknown payment method %q: %w", req.PaymentMethod, ErrValidation)
	}

	patientName, patientRole, err := s.users.Lookup(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", ErrValidation)
	}
	if patientRole != auth.RolePatient {
		return nil, fmt.Errorf("%s is not a patient: %w", req.PatientID, ErrValidation)
	}
	doctorName, doctorRole, err := s.users.Lookup(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("doctor not found: %w", ErrValidation)
	}
	if doctorRole != auth.RoleDoctor {
		return nil, fmt.Errorf("%s is not a doctor: %w", req.DoctorID, ErrValidation)
	}

	a := &Appointment{
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		PatientName:   patientName,
		DoctorName:    doctorName,
		Date:          truncateToDay(req.Date),
		Time:          clock,
		Reason:        req.Reason,
		Status:        StatusPendingApproval,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: PaymentPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// validateSlot checks the booking window rules and returns the normalized
// 24-hour clock string.
func (s *Service) validateSlot(date time.Time, clock string) (string, error) {
	if date.IsZero() {
		return "", fmt.Errorf("date is required: %w", ErrValidation)
	}
	normalized, err := NormalizeClock(clock)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrValidation)
	}

	now := s.now()
	day := truncateToDay(date)
	today := truncateToDay(now)
	if day.Before(today) {
		return "", fmt.Errorf("date is in the past: %w", ErrValidation)
	}

	at, err := Combine(day, normalized)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if at.Minute() != 0 && at.Minute() != 30 {
		return "", fmt.Errorf("time must be on a 30-minute boundary: %w", ErrValidation)
	}
	if at.Hour() < s.hours.Open || at.Hour() > s.hours.Close ||
		(at.Hour() == s.hours.Close && at.Minute() > 0) {
		return "", fmt.Errorf("time outside clinic hours %02d:00-%02d:00: %w",
			s.hours.Open, s.hours.Close, ErrValidation)
	}
	if day.Equal(today) && !at.After(now) {
		return "", fmt.Errorf("time already passed today: %w", ErrValidation)
	}
	return normalized, nil
}

// Get returns one appointment the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Visible(a, actor) {
		return nil, fmt.Errorf("get: %w", ErrForbidden)
	}
	return a, nil
}

// List returns the actor's role-scoped appointments matching q, newest
// first, plus the total before pagination.
func (s *Service) List(ctx context.Context, actor auth.Identity, q Query, limit, offset int) ([]*Appointment, int, error) {
	var (
		scope []*Appointment
		err   error
	)
	switch actor.Role {
	case auth.RoleAdmin:
		scope, err = s.repo.ListAll(ctx)
	case auth.RoleDoctor:
		scope, err = s.repo.ListByDoctor(ctx, actor.ID, actor.Name)
	case auth.RolePatient:
		scope, err = s.repo.ListByPatient(ctx, actor.ID, actor.Name)
	default:
		return nil, 0, fmt.Errorf("list: %w", ErrForbidden)
	}
	if err != nil {
		return nil, 0, err
	}

	matched := make([]*Appointment, 0, len(scope))
	for _, a := range scope {
		if q.Matches(a) {
			matched = append(matched, a)
		}
	}
	total := len(matched)
	if offset >= total {
		return []*Appointment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// UpdateRequest carries the fields a pending appointment may still change.
// Version must match the version the caller last read.
type UpdateRequest struct {
	Date    time.Time `json:"date"`
	Time    string    `json:"time"`
	Reason  string    `json:"reason"`
	Version int       `json:"version"`
}

// Update rewrites the slot details of a pending appointment. Only the owning
// patient or an admin may update, and only while still pending approval.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, req UpdateRequest) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RolePatient && Visible(a, actor)) {
		return nil, fmt.Errorf("update: %w", ErrForbidden)
	}
	if a.Status != StatusPendingApproval {
		return nil, fmt.Errorf("update from %s: %w", a.Status, ErrInvalidTransition)
	}
	if req.Version != a.Version {
		return nil, ErrVersionConflict
	}

	clock, err := s.validateSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !ValidReason(req.Reason) {
		return nil, fmt.Errorf("unknown reason %q: %w", req.Reason, ErrValidation)
	}

	a.Date = truncateToDay(req.Date)
	a.Time = clock
	a.Reason = req.Reason
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Approve moves a pending appointment to accepted.
func (s *Service) Approve(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, func(a *Appointment) error { return a.Approve(actor) })
}

// Deny moves a pending appointment to denied.
func (s *Service) Deny(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, func(a *Appointment) error { return a.Deny(actor) })
}

// Schedule puts an accepted appointment on the calendar.
func (s *Service) Schedule(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, func(a *Appointment) error { return a.Schedule(actor) })
}

// Complete marks a scheduled appointment as held.
func (s *Service) Complete(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, func(a *Appointment) error { return a.Complete(actor) })
}

// Cancel cancels an accepted or scheduled appointment with a message.
func (s *Service) Cancel(ctx context.Context, actor auth.Identity, id uuid.UUID, message string) (*Appointment, error) {
	return s.transition(ctx, id, func(a *Appointment) error {
		return a.Cancel(actor, message, s.now())
	})
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, apply func(*Appointment) error) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete hard-deletes an appointment. Admins always; patients only their own
// while the clinic has not scheduled it yet.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.CanDelete(actor) {
		return fmt.Errorf("delete: %w", ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}
