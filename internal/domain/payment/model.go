package payment

import (
	"time"

	"github.com/google/uuid"
)

// Payment states. Independent of the appointment lifecycle: marking a
// payment paid or failed never moves the appointment.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// Payment maps to the payment table, one row per appointment. The
// appointment's slot details are snapshotted at creation so receipts and
// statements survive later appointment edits.
type Payment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AppointmentID uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	PatientName   string     `db:"patient_name" json:"patient_name"`
	DoctorName    string     `db:"doctor_name" json:"doctor_name"`
	Date          time.Time  `db:"date" json:"date"`
	Time          string     `db:"time" json:"time"`
	Reason        string     `db:"reason" json:"reason"`
	Amount        float64    `db:"amount" json:"amount"`
	ClinicTax     float64    `db:"clinic_tax" json:"clinic_tax"`
	DoctorEarning float64    `db:"doctor_earning" json:"doctor_earning"`
	Method        string     `db:"method" json:"method"`
	Status        string     `db:"status" json:"status"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Stats aggregates a doctor's paid payments.
type Stats struct {
	DoctorID     uuid.UUID `json:"doctor_id"`
	PaidCount    int       `json:"paid_count"`
	TotalAmount  float64   `json:"total_amount"`
	TotalTax     float64   `json:"total_tax"`
	TotalEarning float64   `json:"total_earning"`
}
