package prescription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/platform/auth"
)

type mockRepo struct {
	items []*Prescription
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	cp := *p
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	m.items = append(m.items, &cp)
	p.ID = cp.ID
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	for _, p := range m.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Prescription, error) {
	out := make([]*Prescription, 0, len(m.items))
	for _, p := range m.items {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*Prescription, error) {
	var out []*Prescription
	for _, p := range m.items {
		if p.DoctorID == doctorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	var out []*Prescription
	for _, p := range m.items {
		if p.PatientID == patientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockApptSource struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func (m *mockApptSource) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, appointment.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	appts     *mockApptSource
	patientID uuid.UUID
	doctorID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &mockRepo{}
	appts := &mockApptSource{appts: map[uuid.UUID]*appointment.Appointment{}}
	svc := NewService(repo, appts)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return &fixture{
		svc:       svc,
		repo:      repo,
		appts:     appts,
		patientID: uuid.New(),
		doctorID:  uuid.New(),
	}
}

func (f *fixture) addAppointment(status appointment.Status) *appointment.Appointment {
	a := &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Status:    status,
	}
	f.appts.appts[a.ID] = a
	return a
}

func (f *fixture) doctor() auth.Identity {
	return auth.Identity{ID: f.doctorID, Name: "Dr Dolittle", Role: auth.RoleDoctor}
}

func (f *fixture) patient() auth.Identity {
	return auth.Identity{ID: f.patientID, Name: "Pat Patient", Role: auth.RolePatient}
}

func admin() auth.Identity {
	return auth.Identity{ID: uuid.New(), Name: "Root", Role: auth.RoleAdmin}
}

func issueRequest(apptID uuid.UUID) CreateRequest {
	return CreateRequest{
		AppointmentID: apptID,
		Medication:    "Amoxicillin",
		Dosage:        "500mg",
		Instructions:  "Three times daily after meals",
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusCompleted)

	p, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.PatientID != f.patientID || p.DoctorID != f.doctorID {
		t.Errorf("parties not copied from appointment: %+v", p)
	}
	if p.Medication != "Amoxicillin" || p.Dosage != "500mg" {
		t.Errorf("unexpected content: %+v", p)
	}
	if p.IssuedAt.IsZero() {
		t.Error("IssuedAt not set")
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusCompleted)

	cases := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"empty medication", func(r *CreateRequest) { r.Medication = "   " }},
		{"empty dosage", func(r *CreateRequest) { r.Dosage = "" }},
		{"unknown appointment", func(r *CreateRequest) { r.AppointmentID = uuid.New() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := issueRequest(a.ID)
			tc.mutate(&req)
			if _, err := f.svc.Create(context.Background(), f.doctor(), req); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreate_AppointmentMustBeScheduledOrCompleted(t *testing.T) {
	f := newFixture(t)
	for _, status := range []appointment.Status{
		appointment.StatusPendingApproval,
		appointment.StatusAccepted,
		appointment.StatusDenied,
		appointment.StatusCancelled,
	} {
		a := f.addAppointment(status)
		if _, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID)); !errors.Is(err, ErrValidation) {
			t.Errorf("status %s: got %v, want ErrValidation", status, err)
		}
	}
	for _, status := range []appointment.Status{appointment.StatusScheduled, appointment.StatusCompleted} {
		a := f.addAppointment(status)
		if _, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID)); err != nil {
			t.Errorf("status %s: %v", status, err)
		}
	}
}

func TestCreate_OnlyOwnDoctor(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusScheduled)

	other := auth.Identity{ID: uuid.New(), Name: "Dr Other", Role: auth.RoleDoctor}
	if _, err := f.svc.Create(context.Background(), other, issueRequest(a.ID)); !errors.Is(err, ErrForbidden) {
		t.Errorf("other doctor: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Create(context.Background(), f.patient(), issueRequest(a.ID)); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Create(context.Background(), admin(), issueRequest(a.ID)); err != nil {
		t.Errorf("admin: %v", err)
	}
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusCompleted)
	p, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, actor := range []auth.Identity{f.doctor(), f.patient(), admin()} {
		if _, err := f.svc.Get(context.Background(), actor, p.ID); err != nil {
			t.Errorf("%s: %v", actor.Role, err)
		}
	}
	stranger := auth.Identity{ID: uuid.New(), Name: "Someone", Role: auth.RolePatient}
	if _, err := f.svc.Get(context.Background(), stranger, p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: got %v, want ErrForbidden", err)
	}
}

func TestList_RoleScoping(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusCompleted)
	for i := 0; i < 2; i++ {
		if _, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	f.repo.items = append(f.repo.items, &Prescription{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	})

	items, total, err := f.svc.List(context.Background(), f.doctor(), 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("doctor sees %d/%d, want 2/2", len(items), total)
	}
	items, total, err = f.svc.List(context.Background(), f.patient(), 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("patient sees %d/%d, want 2/2", len(items), total)
	}
	_, total, err = f.svc.List(context.Background(), admin(), 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("admin sees %d, want 3", total)
	}
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusCompleted)
	for i := 0; i < 5; i++ {
		if _, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	items, total, err := f.svc.List(context.Background(), f.doctor(), 2, 4)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(items) != 1 {
		t.Errorf("got %d/%d, want 1/5", len(items), total)
	}
	items, _, err = f.svc.List(context.Background(), f.doctor(), 2, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("offset past end returned %d items", len(items))
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(appointment.StatusCompleted)
	p, err := f.svc.Create(context.Background(), f.doctor(), issueRequest(a.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.svc.Delete(context.Background(), f.patient(), p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient delete: got %v, want ErrForbidden", err)
	}
	other := auth.Identity{ID: uuid.New(), Name: "Dr Other", Role: auth.RoleDoctor}
	if err := f.svc.Delete(context.Background(), other, p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("other doctor delete: got %v, want ErrForbidden", err)
	}
	if err := f.svc.Delete(context.Background(), f.doctor(), p.ID); err != nil {
		t.Fatalf("doctor delete: %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.doctor(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
