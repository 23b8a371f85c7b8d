package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/platform/auth"
)

var ErrForbidden = errors.New("operation not permitted for caller")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard assembles the clinic-wide snapshot. Admins only.
func (s *Service) Dashboard(ctx context.Context, actor auth.Identity) (*Dashboard, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, fmt.Errorf("dashboard: %w", ErrForbidden)
	}

	byStatus, err := s.repo.AppointmentCountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	counts := AppointmentCounts{
		PendingApproval: byStatus[string(appointment.StatusPendingApproval)],
		Accepted:        byStatus[string(appointment.StatusAccepted)],
		Denied:          byStatus[string(appointment.StatusDenied)],
		Scheduled:       byStatus[string(appointment.StatusScheduled)],
		Completed:       byStatus[string(appointment.StatusCompleted)],
		Cancelled:       byStatus[string(appointment.StatusCancelled)],
	}
	counts.Total = counts.PendingApproval + counts.Accepted + counts.Denied +
		counts.Scheduled + counts.Completed + counts.Cancelled

	revenue, err := s.repo.RevenueTotals(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.repo.CountUsersByRole(ctx, auth.RolePatient)
	if err != nil {
		return nil, err
	}
	doctors, err := s.repo.CountUsersByRole(ctx, auth.RoleDoctor)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Appointments: counts,
		Revenue:      *revenue,
		Patients:     patients,
		Doctors:      doctors,
		GeneratedAt:  s.now(),
	}, nil
}
