package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clinic/clinic/internal/platform/auth"
)

var (
	// ErrInvalidTransition means the current status does not permit the
	// requested transition.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden means the caller's role or ownership does not permit the
	// requested transition.
	ErrForbidden = errors.New("transition not permitted for caller")
	// ErrTimePassed means the appointment moment is already in the past.
	ErrTimePassed = errors.New("appointment time has passed")
	// ErrSameDayCancel means a doctor attempted to cancel on the day of the
	// appointment.
	ErrSameDayCancel = errors.New("doctors cannot cancel on the appointment day")
	// ErrMessageRequired means a cancellation was attempted without a message.
	ErrMessageRequired = errors.New("cancellation message is required")
)

// Approve moves a pending appointment to accepted. Admin only.
func (a *Appointment) Approve(actor auth.Identity) error {
	if actor.Role != auth.RoleAdmin {
		return fmt.Errorf("approve: %w", ErrForbidden)
	}
	if a.Status != StatusPendingApproval {
		return fmt.Errorf("approve from %s: %w", a.Status, ErrInvalidTransition)
	}
	a.Status = StatusAccepted
	return nil
}

// Deny moves a pending appointment to denied. Admin only.
func (a *Appointment) Deny(actor auth.Identity) error {
	if actor.Role != auth.RoleAdmin {
		return fmt.Errorf("deny: %w", ErrForbidden)
	}
	if a.Status != StatusPendingApproval {
		return fmt.Errorf("deny from %s: %w", a.Status, ErrInvalidTransition)
	}
	a.Status = StatusDenied
	return nil
}

// Schedule moves an accepted appointment onto the calendar. Admin only.
func (a *Appointment) Schedule(actor auth.Identity) error {
	if actor.Role != auth.RoleAdmin {
		return fmt.Errorf("schedule: %w", ErrForbidden)
	}
	if a.Status != StatusAccepted {
		return fmt.Errorf("schedule from %s: %w", a.Status, ErrInvalidTransition)
	}
	a.Status = StatusScheduled
	return nil
}

// Complete marks a scheduled appointment as held. The appointment's doctor
// or an admin may complete it.
func (a *Appointment) Complete(actor auth.Identity) error {
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleDoctor:
		if actor.ID != a.DoctorID {
			return fmt.Errorf("complete: %w", ErrForbidden)
		}
	default:
		return fmt.Errorf("complete: %w", ErrForbidden)
	}
	if a.Status != StatusScheduled {
		return fmt.Errorf("complete from %s: %w", a.Status, ErrInvalidTransition)
	}
	a.Status = StatusCompleted
	return nil
}

// Cancel moves an accepted or scheduled appointment to cancelled, recording
// the message and the cancelling role. Patients and doctors may only cancel
// their own appointments and only while the appointment moment is still in
// the future; doctors additionally may not cancel on the appointment day.
func (a *Appointment) Cancel(actor auth.Identity, message string, now time.Time) error {
	if strings.TrimSpace(message) == "" {
		return ErrMessageRequired
	}

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RolePatient:
		if actor.ID != a.PatientID {
			return fmt.Errorf("cancel: %w", ErrForbidden)
		}
	case auth.RoleDoctor:
		if actor.ID != a.DoctorID {
			return fmt.Errorf("cancel: %w", ErrForbidden)
		}
	default:
		return fmt.Errorf("cancel: %w", ErrForbidden)
	}

	if a.Status != StatusAccepted && a.Status != StatusScheduled {
		return fmt.Errorf("cancel from %s: %w", a.Status, ErrInvalidTransition)
	}
	if TimePassed(a.Date, a.Time, now) {
		return ErrTimePassed
	}
	if actor.Role == auth.RoleDoctor && SameCalendarDay(a.Date, now) {
		return ErrSameDayCancel
	}

	msg := strings.TrimSpace(message)
	role := string(actor.Role)
	a.Status = StatusCancelled
	a.CancelMessage = &msg
	a.CancelledBy = &role
	return nil
}

// CanDelete reports whether the actor may hard-delete the appointment.
// Admins always may; patients only their own and only before the clinic has
// scheduled it.
func (a *Appointment) CanDelete(actor auth.Identity) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RolePatient:
		return actor.ID == a.PatientID &&
			(a.Status == StatusPendingApproval || a.Status == StatusAccepted)
	}
	return false
}
