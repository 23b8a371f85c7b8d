package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/invoice"
)

var (
	// ErrForbidden means the caller's role or ownership does not permit the
	// operation.
	ErrForbidden = errors.New("operation not permitted for caller")
	// ErrValidation marks input the server rejects.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyPaid means the payment is settled and cannot change again.
	ErrAlreadyPaid = errors.New("payment already paid")
	// ErrNotPaid means a receipt was requested for an unsettled payment.
	ErrNotPaid = errors.New("payment is not paid")
)

// AppointmentSource is the slice of the appointment repository the payment
// service needs: reading the booking and mirroring the settlement state.
type AppointmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status string) error
}

// TxRunner runs fn atomically. Settling a payment touches both the payments
// table and the appointment's payment_status mirror.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo  Repository
	appts AppointmentSource
	tx    TxRunner
	now   func() time.Time
}

func NewService(repo Repository, appts AppointmentSource) *Service {
	return &Service{
		repo:  repo,
		appts: appts,
		tx:    func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) },
		now:   time.Now,
	}
}

// SetTxRunner attaches a transaction runner so that settlement writes commit
// atomically. Without one, the writes run sequentially on the pool.
func (s *Service) SetTxRunner(run TxRunner) {
	s.tx = run
}

// visible reports whether the actor may see the payment. Same scoping as
// appointments, including the legacy display-name fallback.
func visible(p *Payment, actor auth.Identity) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return p.DoctorID == actor.ID || p.DoctorName == actor.Name
	case auth.RolePatient:
		return p.PatientID == actor.ID || p.PatientName == actor.Name
	}
	return false
}

// Create opens a pending payment for an appointment, snapshotting the
// booking details and computing the split. One payment per appointment.
func (s *Service) Create(ctx context.Context, actor auth.Identity, appointmentID uuid.UUID) (*Payment, error) {
	a, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return nil, fmt.Errorf("appointment not found: %w", ErrValidation)
		}
		return nil, err
	}
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RolePatient && a.PatientID == actor.ID) {
		return nil, fmt.Errorf("create payment: %w", ErrForbidden)
	}
	if a.Amount <= 0 {
		return nil, fmt.Errorf("appointment amount must be positive: %w", ErrValidation)
	}

	tax, earning := Split(a.Amount)
	p := &Payment{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		PatientName:   a.PatientName,
		DoctorName:    a.DoctorName,
		Date:          a.Date,
		Time:          a.Time,
		Reason:        a.Reason,
		Amount:        round2(a.Amount),
		ClinicTax:     tax,
		DoctorEarning: earning,
		Method:        a.PaymentMethod,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one payment the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(p, actor) {
		return nil, fmt.Errorf("get payment: %w", ErrForbidden)
	}
	return p, nil
}

// List returns the actor's role-scoped payments, newest first, plus the
// total before pagination.
func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*Payment, int, error) {
	var (
		items []*Payment
		err   error
	)
	switch actor.Role {
	case auth.RoleAdmin:
		items, err = s.repo.ListAll(ctx)
	case auth.RoleDoctor:
		items, err = s.repo.ListByDoctor(ctx, actor.ID, actor.Name)
	case auth.RolePatient:
		items, err = s.repo.ListByPatient(ctx, actor.ID, actor.Name)
	default:
		return nil, 0, fmt.Errorf("list payments: %w", ErrForbidden)
	}
	if err != nil {
		return nil, 0, err
	}
	total := len(items)
	if offset >= total {
		return []*Payment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return items[offset:end], total, nil
}

// Pay settles a pending or previously failed payment. The appointment's
// lifecycle status is untouched; only its payment_status mirror moves.
func (s *Service) Pay(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RolePatient && visible(p, actor)) {
		return nil, fmt.Errorf("pay: %w", ErrForbidden)
	}
	if p.Status == StatusPaid {
		return nil, ErrAlreadyPaid
	}
	paidAt := s.now()
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStatus(ctx, p.ID, StatusPaid, &paidAt); err != nil {
			return err
		}
		return s.appts.SetPaymentStatus(ctx, p.AppointmentID, appointment.PaymentPaid)
	})
	if err != nil {
		return nil, err
	}
	p.Status = StatusPaid
	p.PaidAt = &paidAt
	return p, nil
}

// Fail marks a pending payment failed.
func (s *Service) Fail(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RolePatient && visible(p, actor)) {
		return nil, fmt.Errorf("fail: %w", ErrForbidden)
	}
	if p.Status == StatusPaid {
		return nil, ErrAlreadyPaid
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStatus(ctx, p.ID, StatusFailed, nil); err != nil {
			return err
		}
		return s.appts.SetPaymentStatus(ctx, p.AppointmentID, appointment.PaymentFailed)
	})
	if err != nil {
		return nil, err
	}
	p.Status = StatusFailed
	p.PaidAt = nil
	return p, nil
}

// StatsForDoctor aggregates a doctor's paid payments. Doctors may only read
// their own numbers.
func (s *Service) StatsForDoctor(ctx context.Context, actor auth.Identity, doctorID uuid.UUID) (*Stats, error) {
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RoleDoctor && actor.ID == doctorID) {
		return nil, fmt.Errorf("stats: %w", ErrForbidden)
	}
	return s.repo.StatsByDoctor(ctx, doctorID)
}

// Receipt renders the PDF receipt for a paid payment.
func (s *Service) Receipt(ctx context.Context, actor auth.Identity, id uuid.UUID) ([]byte, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPaid {
		return nil, ErrNotPaid
	}
	return invoice.RenderReceipt(invoice.Receipt{
		PaymentID:     p.ID.String(),
		AppointmentID: p.AppointmentID.String(),
		PatientName:   p.PatientName,
		DoctorName:    p.DoctorName,
		Date:          p.Date.Format("2006-01-02"),
		Time:          p.Time,
		Reason:        p.Reason,
		Method:        p.Method,
		Amount:        p.Amount,
		ClinicTax:     p.ClinicTax,
		DoctorEarning: p.DoctorEarning,
		PaidAt:        *p.PaidAt,
	})
}

// Statement renders the PDF earnings statement for a doctor over [from, to].
func (s *Service) Statement(ctx context.Context, actor auth.Identity, doctorID uuid.UUID, from, to time.Time) ([]byte, error) {
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RoleDoctor && actor.ID == doctorID) {
		return nil, fmt.Errorf("statement: %w", ErrForbidden)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("statement period ends before it starts: %w", ErrValidation)
	}
	items, err := s.repo.ListPaidByDoctorBetween(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	st := invoice.Statement{PeriodStart: from, PeriodEnd: to}
	for _, p := range items {
		st.DoctorName = p.DoctorName
		st.Lines = append(st.Lines, invoice.StatementLine{
			Date:        p.Date.Format("2006-01-02"),
			PatientName: p.PatientName,
			Reason:      p.Reason,
			Amount:      p.Amount,
			Earning:     p.DoctorEarning,
		})
		st.TotalAmount = round2(st.TotalAmount + p.Amount)
		st.TotalEarning = round2(st.TotalEarning + p.DoctorEarning)
	}
	return invoice.RenderStatement(st)
}
