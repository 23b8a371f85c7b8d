package record

import (
	"context"
	"errors"
	"fmt"

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

const recordCols = `id, patient_id, doctor_id, diagnosis, notes, recorded_at`

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var m MedicalRecord
	err := row.Scan(&m.ID, &m.PatientID, &m.DoctorID, &m.Diagnosis, &m.Notes, &m.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *MedicalRecord) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_records (`+recordCols+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.PatientID, m.DoctorID, m.Diagnosis, m.Notes, m.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert medical record: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	m, err := scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM medical_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get medical record: %w", err)
	}
	return m, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*MedicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM medical_records ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list medical records: %w", err)
	}
	return collect(rows)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*MedicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM medical_records
		WHERE doctor_id = $1 ORDER BY recorded_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list medical records by doctor: %w", err)
	}
	return collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM medical_records
		WHERE patient_id = $1 ORDER BY recorded_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list medical records by patient: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*MedicalRecord, error) {
	defer rows.Close()
	var out []*MedicalRecord
	for rows.Next() {
		m, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medical record: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
