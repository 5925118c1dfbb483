// Package ingest resolves upstream statement formats into normalized
// transactions and applicant data.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// Errors returned by the parsers.
var (
	ErrUnsupportedFormat = errors.New("unsupported statement format")
	ErrNoTransactions    = errors.New("no transactions found")
)

// Format identifies the layout a statement was read from.
type Format string

const (
	FormatTransactions Format = "transactions" // flat transactions array
	FormatInverite     Format = "inverite"     // accounts[].transactions feed
	FormatTables       Format = "tables"       // extracted document tables
	FormatOFX          Format = "ofx"
)

// Client is the applicant data found alongside the transactions.
type Client struct {
	Name        string  `json:"name,omitempty"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Institution string  `json:"institution,omitempty"`
	Account     string  `json:"account,omitempty"`
	Balance     float64 `json:"balance,omitempty"`
}

// BankStatistics are aggregates computed by the bank-data provider.
type BankStatistics struct {
	// AverageNSF is the average number of NSF per month; nil when absent.
	AverageNSF *float64 `json:"averageNsf,omitempty"`

	EmployerIncome   float64 `json:"employerIncome,omitempty"`
	GovernmentIncome float64 `json:"governmentIncome,omitempty"`
}

// MonthlyIncome is employer plus government income.
func (s *BankStatistics) MonthlyIncome() float64 {
	if s == nil {
		return 0
	}
	return s.EmployerIncome + s.GovernmentIncome
}

// Statement is one parsed upstream document.
type Statement struct {
	Source       string               `json:"source"`
	Format       Format               `json:"format"`
	Client       Client               `json:"client"`
	Transactions []domain.Transaction `json:"transactions"`
	Statistics   *BankStatistics      `json:"statistics,omitempty"`
}

// Request builds an analysis request. Provider statistics, when present,
// supply the monthly income and the NSF count.
func (s *Statement) Request(tenantID string) *domain.AnalysisRequest {
	req := &domain.AnalysisRequest{
		TenantID:     tenantID,
		Reference:    s.Client.Name,
		Transactions: s.Transactions,
	}
	if req.Reference == "" {
		req.Reference = s.Source
	}

	if s.Statistics != nil {
		req.MonthlyIncome = s.Statistics.MonthlyIncome()
		if s.Statistics.AverageNSF != nil {
			nsf := int(math.Round(*s.Statistics.AverageNSF))
			req.NSFCount = &nsf
		}
	}
	return req
}

// ReadFile parses a statement file, choosing the parser by extension.
func ReadFile(path string) (*Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	var stmt *Statement
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		stmt, err = ParseJSON(f)
	case ".ofx", ".qfx":
		stmt, err = ParseOFX(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	stmt.Source = filepath.Base(path)
	return stmt, nil
}

// Supported reports whether ReadFile can parse the file.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ofx", ".qfx":
		return true
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "02/01/2006"}

// parseDate reads the leading date of s. Unparseable input gives the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		s = s[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseAmount reads "1,234.56", "$50" or "-20". Malformed input gives 0.
func parseAmount(s string) float64 {
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
