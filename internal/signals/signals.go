// Package signals derives bank-behaviour signals from a transaction batch:
// NSF and overdraft counts in trailing windows, and monthly income.
package signals

import (
	"maps"
	"slices"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/textnorm"
)

// Trailing windows for event counts.
const (
	NSFWindow       = 30 * 24 * time.Hour
	OverdraftWindow = 90 * 24 * time.Hour
)

// Income sources.
const (
	IncomeDeclared = "declared"
	IncomePayroll  = "payroll"
	IncomeDeposits = "deposits"
	IncomeNone     = "none"
)

// Keywords configures a Scanner.
type Keywords struct {
	NSF       []string
	Overdraft []string
	Payroll   []string
}

// DefaultKeywords returns the built-in French/English keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		NSF:       []string{"NSF FEE", "NSF CHARGE", "FONDS INSUFFISANTS", "INSUFFICIENT FUNDS"},
		Overdraft: []string{"OVERDRAFT", "DÉCOUVERT", "FRAIS DÉCOUVERT", "OD FEE"},
		Payroll:   []string{"PAIE", "PAYROLL", "SALARY", "SALAIRE", "PAY", "WAGE", "DIRECT DEPOSIT", "DEPOT DIRECT", "REMUNERATION"},
	}
}

// Scanner extracts signals. Safe for concurrent use.
type Scanner struct {
	nsf       *textnorm.TermSet
	overdraft *textnorm.TermSet
	payroll   *textnorm.TermSet
}

// NewScanner builds a scanner from keyword lists.
func NewScanner(k Keywords) *Scanner {
	return &Scanner{
		nsf:       textnorm.NewKeywordSet(k.NSF...),
		overdraft: textnorm.NewKeywordSet(k.Overdraft...),
		payroll:   textnorm.NewTermSet(k.Payroll...),
	}
}

// NewDefaultScanner builds a scanner over DefaultKeywords.
func NewDefaultScanner() *Scanner {
	return NewScanner(DefaultKeywords())
}

// NSF30 counts non-sufficient-funds events in the 30 days up to asOf.
func (s *Scanner) NSF30(txs []domain.Transaction, asOf time.Time) int {
	return CountEvents(txs, s.nsf, NSFWindow, asOf)
}

// Overdraft90 counts overdraft events in the 90 days up to asOf.
func (s *Scanner) Overdraft90(txs []domain.Transaction, asOf time.Time) int {
	return CountEvents(txs, s.overdraft, OverdraftWindow, asOf)
}

// CountEvents counts transactions dated within [asOf-window, asOf] whose
// description contains one of the terms. Undated transactions never count.
func CountEvents(txs []domain.Transaction, terms *textnorm.TermSet, window time.Duration, asOf time.Time) int {
	if asOf.IsZero() {
		return 0
	}
	since := asOf.Add(-window)

	count := 0
	for _, tx := range txs {
		if !tx.HasDate() || tx.Date.Before(since) || tx.Date.After(asOf) {
			continue
		}
		if terms.Contains(textnorm.Normalize(tx.Description)) {
			count++
		}
	}
	return count
}

// Income is a monthly income estimate.
type Income struct {
	Monthly float64 `json:"monthly"`
	Source  string  `json:"source"`
	Months  int     `json:"months"`
}

// MonthlyIncome averages dated deposits per calendar month. Payroll deposits
// are used when any exist; otherwise every deposit counts.
func (s *Scanner) MonthlyIncome(txs []domain.Transaction) Income {
	payroll := make(map[string]float64)
	all := make(map[string]float64)

	for _, tx := range txs {
		if tx.Amount <= 0 || !tx.HasDate() {
			continue
		}
		month := tx.Date.Format("2006-01")
		amount := tx.AbsAmount()
		all[month] += amount
		if s.payroll.Contains(textnorm.Normalize(tx.Description)) {
			payroll[month] += amount
		}
	}

	if len(payroll) > 0 {
		return Income{Monthly: average(payroll), Source: IncomePayroll, Months: len(payroll)}
	}
	if len(all) > 0 {
		return Income{Monthly: average(all), Source: IncomeDeposits, Months: len(all)}
	}
	return Income{Source: IncomeNone}
}

// average sums months in calendar order so the result is bit-identical
// across runs.
func average(byMonth map[string]float64) float64 {
	sum := 0.0
	for _, month := range slices.Sorted(maps.Keys(byMonth)) {
		sum += byMonth[month]
	}
	return sum / float64(len(byMonth))
}
