package payment

import (
	"context"
	"errors"
	"time"

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

const payCols = `id, appointment_id, patient_id, doctor_id, patient_name, doctor_name,
	date, time, reason, amount, clinic_tax, doctor_earning, method, status, paid_at,
	created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.AppointmentID, &p.PatientID, &p.DoctorID, &p.PatientName, &p.DoctorName,
		&p.Date, &p.Time, &p.Reason, &p.Amount, &p.ClinicTax, &p.DoctorEarning, &p.Method, &p.Status, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payments (id, appointment_id, patient_id, doctor_id, patient_name, doctor_name,
			date, time, reason, amount, clinic_tax, doctor_earning, method, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.AppointmentID, p.PatientID, p.DoctorID, p.PatientName, p.DoctorName,
		p.Date, p.Time, p.Reason, p.Amount, p.ClinicTax, p.DoctorEarning, p.Method, p.Status)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+payCols+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+payCols+` FROM payments WHERE appointment_id = $1`, appointmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) SetStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE payments SET status=$2, paid_at=$3, updated_at=NOW() WHERE id = $1`,
		id, status, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+payCols+` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, doctorName string) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+payCols+` FROM payments
		WHERE doctor_id = $1 OR doctor_name = $2
		ORDER BY created_at DESC`, doctorID, doctorName)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, patientName string) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+payCols+` FROM payments
		WHERE patient_id = $1 OR patient_name = $2
		ORDER BY created_at DESC`, patientID, patientName)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) StatsByDoctor(ctx context.Context, doctorID uuid.UUID) (*Stats, error) {
	s := Stats{DoctorID: doctorID}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(clinic_tax), 0),
			COALESCE(SUM(doctor_earning), 0)
		FROM payments WHERE doctor_id = $1 AND status = 'paid'`, doctorID).
		Scan(&s.PaidCount, &s.TotalAmount, &s.TotalTax, &s.TotalEarning)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) ListPaidByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+payCols+` FROM payments
		WHERE doctor_id = $1 AND status = 'paid' AND date >= $2 AND date <= $3
		ORDER BY date, time`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Payment, error) {
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
