package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescription table. Issued by the appointment's
// doctor after the visit.
type Prescription struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Medication    string    `db:"medication" json:"medication"`
	Dosage        string    `db:"dosage" json:"dosage"`
	Instructions  string    `db:"instructions" json:"instructions"`
	IssuedAt      time.Time `db:"issued_at" json:"issued_at"`
}
