// Package domain defines the core types and interfaces for FRICTRAK.
package domain

import (
	"math"
	"time"
)

// Transaction is one normalized bank-account line.
// Adapters resolve upstream schemas into this shape before the engine sees it.
type Transaction struct {
	// Date is the zero time when the upstream value could not be parsed.
	Date        time.Time `json:"date"`
	Description string    `json:"description"`

	// Amount is signed: negative is an outflow (payment), positive a deposit.
	Amount float64 `json:"amount"`

	// Category is the optional upstream tag (e.g. "fees_and_charges/nsf", "transfer").
	Category string `json:"category,omitempty"`
}

// IsPayment reports whether the transaction is an outflow.
func (t Transaction) IsPayment() bool {
	return t.Amount < 0
}

// AbsAmount returns the unsigned amount. NaN and infinities count as zero.
func (t Transaction) AbsAmount() float64 {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return 0
	}
	return math.Abs(t.Amount)
}

// HasDate reports whether the date was parsed.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// AnalysisRequest is a batch submitted for lender detection and underwriting.
type AnalysisRequest struct {
	TenantID  string `json:"tenantId,omitempty"`
	Reference string `json:"reference"` // client file or applicant reference

	Transactions []Transaction `json:"transactions"`

	// MonthlyIncome overrides the income estimated from deposits when > 0.
	MonthlyIncome float64 `json:"monthlyIncome,omitempty"`

	// NSFCount and OverdraftCount override transaction scanning when set,
	// typically from statistics supplied by the bank-data provider.
	NSFCount       *int `json:"nsfCount,omitempty"`
	OverdraftCount *int `json:"overdraftCount,omitempty"`

	// AsOf anchors the trailing NSF/overdraft windows.
	// Defaults to the latest transaction date in the batch.
	AsOf time.Time `json:"asOf,omitempty"`

	// RequestedAmounts defaults to DefaultRequestedAmounts.
	RequestedAmounts []float64 `json:"requestedAmounts,omitempty"`
}

// DefaultRequestedAmounts is the fixed loan amount set offered to applicants.
var DefaultRequestedAmounts = []float64{500, 1000, 1500, 2000, 2500, 3000}

// LatestDate returns the most recent parsed date in the batch, or the zero time.
func (r *AnalysisRequest) LatestDate() time.Time {
	var latest time.Time
	for _, tx := range r.Transactions {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	return latest
}
