package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

func TestVisible(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	a := &Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		PatientName: "Pat Patient",
		DoctorName:  "Dr Dolittle",
	}

	tests := []struct {
		name  string
		actor auth.Identity
		want  bool
	}{
		{"admin sees all", auth.Identity{ID: uuid.New(), Role: auth.RoleAdmin}, true},
		{"owning doctor by id", auth.Identity{ID: doctorID, Role: auth.RoleDoctor}, true},
		{"doctor by legacy name", auth.Identity{ID: uuid.New(), Name: "Dr Dolittle", Role: auth.RoleDoctor}, true},
		{"doctor name is case-sensitive", auth.Identity{ID: uuid.New(), Name: "dr dolittle", Role: auth.RoleDoctor}, false},
		{"other doctor", auth.Identity{ID: uuid.New(), Name: "Dr Strange", Role: auth.RoleDoctor}, false},
		{"owning patient by id", auth.Identity{ID: patientID, Role: auth.RolePatient}, true},
		{"patient by legacy name", auth.Identity{ID: uuid.New(), Name: "Pat Patient", Role: auth.RolePatient}, true},
		{"other patient", auth.Identity{ID: uuid.New(), Name: "Someone Else", Role: auth.RolePatient}, false},
		{"unknown role", auth.Identity{ID: patientID}, false},
	}
	for _, tt := range tests {
		if got := Visible(a, tt.actor); got != tt.want {
			t.Errorf("%s: Visible = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQueryMatches(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	a := &Appointment{
		PatientName: "Pat Patient",
		DoctorName:  "Dr Dolittle",
		Reason:      "general_checkup",
		Status:      StatusAccepted,
		Date:        day,
	}

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"empty query matches", Query{}, true},
		{"search patient name", Query{Search: "pat"}, true},
		{"search doctor name", Query{Search: "DOLITTLE"}, true},
		{"search reason", Query{Search: "checkup"}, true},
		{"search miss", Query{Search: "cardio"}, false},
		{"status match", Query{Status: StatusAccepted}, true},
		{"status miss", Query{Status: StatusScheduled}, false},
		{"range containing", Query{From: day.AddDate(0, 0, -1), To: day.AddDate(0, 0, 1)}, true},
		{"range boundary inclusive", Query{From: day, To: day}, true},
		{"range before", Query{From: day.AddDate(0, 0, 1)}, false},
		{"range after", Query{To: day.AddDate(0, 0, -1)}, false},
		{"filters are conjunctive", Query{Search: "pat", Status: StatusScheduled}, false},
	}
	for _, tt := range tests {
		if got := tt.q.Matches(a); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}
