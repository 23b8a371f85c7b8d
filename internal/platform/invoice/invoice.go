package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Receipt holds the fields rendered on a payment receipt PDF.
type Receipt struct {
	PaymentID     string
	AppointmentID string
	PatientName   string
	DoctorName    string
	Date          string
	Time          string
	Reason        string
	Method        string
	Amount        float64
	ClinicTax     float64
	DoctorEarning float64
	PaidAt        time.Time
}

// StatementLine is a single paid appointment on a doctor statement.
type StatementLine struct {
	Date        string
	PatientName string
	Reason      string
	Amount      float64
	Earning     float64
}

// Statement holds a doctor's earnings over a period.
type Statement struct {
	DoctorName   string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Lines        []StatementLine
	TotalAmount  float64
	TotalEarning float64
}

const clinicName = "Clinic Appointment Service"

// RenderReceipt renders a receipt PDF and returns the raw document bytes.
func RenderReceipt(r Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, clinicName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Payment Receipt", "1", 1, "C", false, 0, "")

	row(pdf, "Receipt ID", r.PaymentID, true)
	row(pdf, "Appointment", r.AppointmentID, true)
	row(pdf, "Patient", r.PatientName, true)
	row(pdf, "Doctor", r.DoctorName, true)
	row(pdf, "Date", r.Date, true)
	row(pdf, "Time", r.Time, true)
	row(pdf, "Reason", r.Reason, true)

	pdf.CellFormat(0, 10, "Payment", "1", 1, "C", false, 0, "")
	row(pdf, "Method", r.Method, false)
	row(pdf, "Paid at", r.PaidAt.Format("2006-01-02 15:04"), false)
	row(pdf, "Clinic fee (20%)", fmt.Sprintf("%.2f", r.ClinicTax), false)
	row(pdf, "Doctor fee (80%)", fmt.Sprintf("%.2f", r.DoctorEarning), false)

	pdf.SetFont("Arial", "B", 13)
	row(pdf, "Total", fmt.Sprintf("%.2f", r.Amount), true)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, "Thank you for visiting the clinic.", "", "L", false)

	return output(pdf)
}

// RenderStatement renders a doctor earnings statement PDF.
func RenderStatement(s Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, clinicName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Earnings Statement", "1", 1, "C", false, 0, "")

	row(pdf, "Doctor", s.DoctorName, true)
	row(pdf, "Period", fmt.Sprintf("%s to %s",
		s.PeriodStart.Format("2006-01-02"), s.PeriodEnd.Format("2006-01-02")), true)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 8, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, "Patient", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, "Reason", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Earning", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range s.Lines {
		pdf.CellFormat(35, 7, line.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, line.PatientName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, line.Reason, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", line.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", line.Earning), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	row(pdf, "Total billed", fmt.Sprintf("%.2f", s.TotalAmount), true)
	row(pdf, "Total earned", fmt.Sprintf("%.2f", s.TotalEarning), true)

	return output(pdf)
}

func row(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	if bold {
		pdf.SetFont("Arial", "B", 11)
	} else {
		pdf.SetFont("Arial", "", 11)
	}
	pdf.CellFormat(60, 8, label, "1", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, value, "1", 1, "L", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
