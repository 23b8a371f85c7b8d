package admin

import "time"

// Dashboard is the clinic-wide snapshot shown to administrators.
type Dashboard struct {
	Appointments AppointmentCounts `json:"appointments"`
	Revenue      RevenueTotals     `json:"revenue"`
	Patients     int               `json:"patients"`
	Doctors      int               `json:"doctors"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// AppointmentCounts breaks appointments down by lifecycle status.
type AppointmentCounts struct {
	PendingApproval int `json:"pending_approval"`
	Accepted        int `json:"accepted"`
	Denied          int `json:"denied"`
	Scheduled       int `json:"scheduled"`
	Completed       int `json:"completed"`
	Cancelled       int `json:"cancelled"`
	Total           int `json:"total"`
}

// RevenueTotals aggregates paid payments only.
type RevenueTotals struct {
	PaidCount    int     `json:"paid_count"`
	TotalAmount  float64 `json:"total_amount"`
	TotalTax     float64 `json:"total_tax"`
	TotalEarning float64 `json:"total_earning"`
}
