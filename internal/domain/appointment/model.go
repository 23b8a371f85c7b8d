package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment. It is only ever mutated
// through the transition methods in this package.
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusAccepted        Status = "accepted"
	StatusScheduled       Status = "scheduled"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusDenied          Status = "denied"
)

// Valid reports whether s is one of the six lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusAccepted, StatusScheduled,
		StatusCompleted, StatusCancelled, StatusDenied:
		return true
	}
	return false
}

// Terminal reports whether s accepts no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusDenied:
		return true
	}
	return false
}

// StatusDisplay is the one canonical mapping from status to user-facing
// label and badge style. Clients must not maintain their own copies.
type StatusDisplay struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
}

var statusDisplays = map[Status]StatusDisplay{
	StatusPendingApproval: {Label: "Pending approval", Badge: "warning"},
	StatusAccepted:        {Label: "Accepted", Badge: "info"},
	StatusScheduled:       {Label: "Scheduled", Badge: "primary"},
	StatusCompleted:       {Label: "Completed", Badge: "success"},
	StatusCancelled:       {Label: "Cancelled", Badge: "secondary"},
	StatusDenied:          {Label: "Denied", Badge: "danger"},
}

// Display returns the label and badge style for s.
func (s Status) Display() StatusDisplay {
	return statusDisplays[s]
}

// Reasons a patient can book for. Free-text variants of the source system
// collapsed to this fixed list.
var Reasons = []string{
	"general_checkup",
	"follow_up",
	"consultation",
	"vaccination",
	"lab_results",
	"chronic_care",
	"emergency",
}

// ValidReason reports whether reason is on the fixed list.
func ValidReason(reason string) bool {
	for _, r := range Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Payment methods accepted at the clinic.
const (
	MethodCash = "CASH"
	MethodVisa = "VISA"
)

// Payment states, independent of the appointment lifecycle.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Appointment maps to the appointment table.
type Appointment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	DoctorName    string    `db:"doctor_name" json:"doctor_name"`
	Date          time.Time `db:"date" json:"date"`
	Time          string    `db:"time" json:"time"` // normalized 24-hour "HH:MM"
	Reason        string    `db:"reason" json:"reason"`
	Status        Status    `db:"status" json:"status"`
	Amount        float64   `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	CancelMessage *string   `db:"cancel_message" json:"cancel_message,omitempty"`
	CancelledBy   *string   `db:"cancelled_by" json:"cancelled_by,omitempty"`
	Version       int       `db:"version" json:"version"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StartsAt combines the appointment's date and wall-clock time.
func (a *Appointment) StartsAt() (time.Time, error) {
	return Combine(a.Date, a.Time)
}
