package payment

import "math"

// TaxRate is the clinic's share of every payment.
const TaxRate = 0.20

// Split divides an amount into the clinic's tax and the doctor's earning.
// The tax is rounded first and the earning is the remainder, so the two
// always sum exactly to the rounded amount.
func Split(amount float64) (clinicTax, doctorEarning float64) {
	amount = round2(amount)
	clinicTax = round2(amount * TaxRate)
	doctorEarning = round2(amount - clinicTax)
	return clinicTax, doctorEarning
}

// round2 rounds to 2 decimals, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
