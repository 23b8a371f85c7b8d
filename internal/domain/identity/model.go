package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

// User is a clinic account: admin, doctor, or patient.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	Specialty    string    `db:"specialty" json:"specialty,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
