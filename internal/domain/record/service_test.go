package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

type mockRepo struct {
	items []*MedicalRecord
}

func (m *mockRepo) Create(_ context.Context, r *MedicalRecord) error {
	cp := *r
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	m.items = append(m.items, &cp)
	r.ID = cp.ID
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalRecord, error) {
	for _, r := range m.items {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) ListAll(_ context.Context) ([]*MedicalRecord, error) {
	out := make([]*MedicalRecord, 0, len(m.items))
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*MedicalRecord, error) {
	var out []*MedicalRecord
	for _, r := range m.items {
		if r.DoctorID == doctorID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	var out []*MedicalRecord
	for _, r := range m.items {
		if r.PatientID == patientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockDirectory struct {
	users map[uuid.UUID]auth.Role
}

func (m *mockDirectory) Lookup(_ context.Context, id uuid.UUID) (string, auth.Role, error) {
	role, ok := m.users[id]
	if !ok {
		return "", "", errors.New("user not found")
	}
	return "Someone", role, nil
}

type fixture struct {
	svc     *Service
	repo    *mockRepo
	dir     *mockDirectory
	doctor  auth.Identity
	patient auth.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &mockRepo{}
	dir := &mockDirectory{users: map[uuid.UUID]auth.Role{}}
	svc := NewService(repo, dir)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	doctor := auth.Identity{ID: uuid.New(), Name: "Dr Dolittle", Role: auth.RoleDoctor}
	patient := auth.Identity{ID: uuid.New(), Name: "Pat Patient", Role: auth.RolePatient}
	dir.users[doctor.ID] = auth.RoleDoctor
	dir.users[patient.ID] = auth.RolePatient
	return &fixture{svc: svc, repo: repo, dir: dir, doctor: doctor, patient: patient}
}

func (f *fixture) write(t *testing.T) *MedicalRecord {
	t.Helper()
	m, err := f.svc.Create(context.Background(), f.doctor, CreateRequest{
		PatientID: f.patient.ID,
		Diagnosis: "Seasonal allergic rhinitis",
		Notes:     "Prescribed antihistamines, review in two weeks.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return m
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	m := f.write(t)

	if m.DoctorID != f.doctor.ID {
		t.Errorf("record not attributed to writing doctor: %+v", m)
	}
	if m.PatientID != f.patient.ID {
		t.Errorf("wrong patient: %+v", m)
	}
	if m.RecordedAt.IsZero() {
		t.Error("RecordedAt not set")
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"empty diagnosis", CreateRequest{PatientID: f.patient.ID, Diagnosis: "   "}},
		{"unknown patient", CreateRequest{PatientID: uuid.New(), Diagnosis: "flu"}},
		{"target is a doctor", CreateRequest{PatientID: f.doctor.ID, Diagnosis: "flu"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(context.Background(), f.doctor, tc.req); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreate_PatientForbidden(t *testing.T) {
	f := newFixture(t)
	req := CreateRequest{PatientID: f.patient.ID, Diagnosis: "self-diagnosis"}
	if _, err := f.svc.Create(context.Background(), f.patient, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	m := f.write(t)

	for _, actor := range []auth.Identity{
		f.doctor,
		f.patient,
		{ID: uuid.New(), Name: "Root", Role: auth.RoleAdmin},
	} {
		if _, err := f.svc.Get(context.Background(), actor, m.ID); err != nil {
			t.Errorf("%s: %v", actor.Role, err)
		}
	}
	other := auth.Identity{ID: uuid.New(), Name: "Other", Role: auth.RolePatient}
	if _, err := f.svc.Get(context.Background(), other, m.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("other patient: got %v, want ErrForbidden", err)
	}
}

func TestList_RoleScoping(t *testing.T) {
	f := newFixture(t)
	f.write(t)
	f.write(t)
	f.repo.items = append(f.repo.items, &MedicalRecord{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	})

	for _, actor := range []auth.Identity{f.doctor, f.patient} {
		items, total, err := f.svc.List(context.Background(), actor, 20, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 2 || len(items) != 2 {
			t.Errorf("%s sees %d/%d, want 2/2", actor.Role, len(items), total)
		}
	}
	adm := auth.Identity{ID: uuid.New(), Name: "Root", Role: auth.RoleAdmin}
	_, total, err := f.svc.List(context.Background(), adm, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("admin sees %d, want 3", total)
	}
}
