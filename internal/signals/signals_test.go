package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/textnorm"
)

var asOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func TestNSF30(t *testing.T) {
	s := NewDefaultScanner()
	txs := []domain.Transaction{
		{Date: daysAgo(1), Description: "NSF FEE", Amount: -48},
		{Date: daysAgo(10), Description: "Frais fonds insuffisants", Amount: -45},
		{Date: daysAgo(29), Description: "INSUFFICIENT FUNDS CHARGE", Amount: -45},
		{Date: daysAgo(45), Description: "NSF FEE", Amount: -48},
		{Description: "NSF FEE", Amount: -48},
		{Date: daysAgo(2), Description: "EPICERIE METRO", Amount: -80},
	}

	assert.Equal(t, 3, s.NSF30(txs, asOf))
}

func TestOverdraft90(t *testing.T) {
	s := NewDefaultScanner()
	txs := []domain.Transaction{
		{Date: daysAgo(5), Description: "OVERDRAFT INTEREST", Amount: -3},
		{Date: daysAgo(40), Description: "Frais de découvert", Amount: -5},
		{Date: daysAgo(80), Description: "OD FEE", Amount: -5},
		{Date: daysAgo(120), Description: "OVERDRAFT INTEREST", Amount: -3},
	}

	assert.Equal(t, 3, s.Overdraft90(txs, asOf))
}

func TestCountEvents_Bounds(t *testing.T) {
	terms := textnorm.NewKeywordSet("NSF")
	txs := []domain.Transaction{
		{Date: asOf, Description: "NSF"},
		{Date: daysAgo(7), Description: "NSF"},
		{Date: daysAgo(8), Description: "NSF"},
		{Date: asOf.AddDate(0, 0, 1), Description: "NSF"},
	}

	assert.Equal(t, 2, CountEvents(txs, terms, 7*24*time.Hour, asOf))
	assert.Equal(t, 0, CountEvents(txs, terms, 7*24*time.Hour, time.Time{}))
}

func TestMonthlyIncome_Payroll(t *testing.T) {
	s := NewDefaultScanner()
	txs := []domain.Transaction{
		{Date: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), Description: "PAIE EMPLOYEUR", Amount: 1500},
		{Date: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), Description: "PAIE EMPLOYEUR", Amount: 1500},
		{Date: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), Description: "PAYROLL DEPOSIT", Amount: 2000},
		{Date: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), Description: "E-TRANSFER FROM FRIEND", Amount: 400},
		{Date: time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC), Description: "PAIEMENT CARTE", Amount: -100},
	}

	inc := s.MonthlyIncome(txs)
	assert.Equal(t, IncomePayroll, inc.Source)
	assert.Equal(t, 2, inc.Months)
	assert.InDelta(t, 2500, inc.Monthly, 0.001)
}

func TestMonthlyIncome_Deposits(t *testing.T) {
	s := NewDefaultScanner()
	txs := []domain.Transaction{
		{Date: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), Description: "DEPOT GUICHET", Amount: 900},
		{Date: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), Description: "DEPOT GUICHET", Amount: 1100},
		{Description: "DEPOT SANS DATE", Amount: 5000},
	}

	inc := s.MonthlyIncome(txs)
	assert.Equal(t, IncomeDeposits, inc.Source)
	assert.InDelta(t, 1000, inc.Monthly, 0.001)
}

func TestMonthlyIncome_None(t *testing.T) {
	s := NewDefaultScanner()
	inc := s.MonthlyIncome([]domain.Transaction{{Date: asOf, Description: "RENT", Amount: -900}})

	assert.Equal(t, IncomeNone, inc.Source)
	assert.Zero(t, inc.Monthly)
}

func TestMonthlyIncome_StableAcrossRuns(t *testing.T) {
	amounts := []float64{2210.37, 2398.14, 2501.09, 2187.66, 2455.23, 2333.71, 2419.58, 2290.02, 2576.44, 2264.87, 2388.93, 2464.22}
	txs := make([]domain.Transaction, 0, len(amounts))
	for i, a := range amounts {
		txs = append(txs, domain.Transaction{
			Date:        time.Date(2024, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC),
			Description: "SALAIRE EMPLOYEUR ABC",
			Amount:      a,
		})
	}

	want := 0.0
	for _, a := range amounts {
		want += a
	}
	want /= float64(len(amounts))

	s := NewDefaultScanner()
	for i := 0; i < 500; i++ {
		inc := s.MonthlyIncome(txs)
		if !assert.Equal(t, want, inc.Monthly, "run %d", i) {
			return
		}
	}
}
