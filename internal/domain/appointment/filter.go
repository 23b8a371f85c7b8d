package appointment

import (
	"strings"
	"time"

	"github.com/clinic/clinic/internal/platform/auth"
)

// Visible reports whether the actor is allowed to see the appointment.
// Admins see everything, doctors and patients only their own rows. Matching
// falls back to exact display-name equality for rows created before the name
// was linked to an account id.
func Visible(a *Appointment, actor auth.Identity) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return a.DoctorID == actor.ID || a.DoctorName == actor.Name
	case auth.RolePatient:
		return a.PatientID == actor.ID || a.PatientName == actor.Name
	}
	return false
}

// Query is the set of optional list filters, applied conjunctively after
// role scoping. Zero values mean "no filter".
type Query struct {
	Search string
	Status Status
	From   time.Time
	To     time.Time
}

// Matches reports whether the appointment satisfies every set filter.
// The search term matches either party's name or the reason,
// case-insensitively.
func (q Query) Matches(a *Appointment) bool {
	if q.Search != "" {
		term := strings.ToLower(strings.TrimSpace(q.Search))
		if !strings.Contains(strings.ToLower(a.PatientName), term) &&
			!strings.Contains(strings.ToLower(a.DoctorName), term) &&
			!strings.Contains(strings.ToLower(a.Reason), term) {
			return false
		}
	}
	if q.Status != "" && a.Status != q.Status {
		return false
	}
	if !q.From.IsZero() && a.Date.Before(truncateToDay(q.From)) {
		return false
	}
	if !q.To.IsZero() && a.Date.After(truncateToDay(q.To)) {
		return false
	}
	return true
}
