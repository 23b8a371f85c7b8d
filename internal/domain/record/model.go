package record

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a clinical note a doctor writes about a patient.
type MedicalRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID   uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Diagnosis  string    `db:"diagnosis" json:"diagnosis"`
	Notes      string    `db:"notes" json:"notes"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
