package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, patient_name, doctor_name,
	date, time, reason, status, amount, payment_method, payment_status,
	cancel_message, cancelled_by, version, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.PatientName, &a.DoctorName,
		&a.Date, &a.Time, &a.Reason, &a.Status, &a.Amount, &a.PaymentMethod, &a.PaymentStatus,
		&a.CancelMessage, &a.CancelledBy, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.Version = 1
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, patient_name, doctor_name,
			date, time, reason, status, amount, payment_method, payment_status, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		a.ID, a.PatientID, a.DoctorID, a.PatientName, a.DoctorName,
		a.Date, a.Time, a.Reason, a.Status, a.Amount, a.PaymentMethod, a.PaymentStatus, a.Version)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET patient_name=$2, doctor_name=$3, date=$4, time=$5,
			reason=$6, status=$7, amount=$8, payment_method=$9, payment_status=$10,
			cancel_message=$11, cancelled_by=$12, version=version+1, updated_at=NOW()
		WHERE id = $1 AND version = $13`,
		a.ID, a.PatientName, a.DoctorName, a.Date, a.Time,
		a.Reason, a.Status, a.Amount, a.PaymentMethod, a.PaymentStatus,
		a.CancelMessage, a.CancelledBy, a.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a stale version from a vanished row.
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrVersionConflict
		}
		return ErrNotFound
	}
	a.Version++
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SetPaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET payment_status=$2, version=version+1, updated_at=NOW()
		WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointments ORDER BY date DESC, time DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, doctorName string) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE doctor_id = $1 OR doctor_name = $2
		ORDER BY date DESC, time DESC, created_at DESC`, doctorID, doctorName)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, patientName string) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE patient_id = $1 OR patient_name = $2
		ORDER BY date DESC, time DESC, created_at DESC`, patientID, patientName)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
