package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/ingest"
)

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func analyze(t *testing.T, income float64) *domain.Analysis {
	t.Helper()
	a, err := analyzer.NewDefault()
	require.NoError(t, err)

	res, err := a.Analyze(context.Background(), &domain.AnalysisRequest{
		Reference:     "client-42",
		MonthlyIncome: income,
		Transactions: []domain.Transaction{
			{Date: day(1), Description: "MONEY MART MONTREAL", Amount: -300},
			{Date: day(15), Description: "MONEY MART MONTREAL", Amount: -300},
			{Date: day(2), Description: "BENEVA ASSURANCE", Amount: -851},
			{Date: day(3), Description: "SALAIRE EMPLOYEUR ABC", Amount: 3000},
			{Date: day(4), Description: "PMT CREDIT SERVICE 123", Amount: -500},
			{Date: day(5), Description: "FINANCE EXPRESS INC", Amount: -1000},
			{Date: day(7), Description: "CASH MONEY 200", Amount: -200},
			{Date: day(9), Description: "ACH PAYDAY SERVICES 77", Amount: -200},
		},
	})
	require.NoError(t, err)
	return res
}

func TestRender_Review(t *testing.T) {
	res := analyze(t, 10000)
	client := &ingest.Client{Name: "Marie Tremblay", Balance: 1234.5}

	out := Render(res, Options{Source: "marie.json", Client: client})

	assert.Contains(t, out, "Source file: marie.json")
	assert.Contains(t, out, "Name: Marie Tremblay")
	assert.Contains(t, out, "Email: not available")
	assert.Contains(t, out, "Balance: $1,234.50")
	assert.Contains(t, out, "ESTIMATED TOTAL DEBT: $2,300.00")
	assert.Contains(t, out, "Monthly capacity (50%): $5,000.00")
	assert.Contains(t, out, "GLOBAL SCORE: 80/100 - LOW")
	assert.Contains(t, out, "$1,000 - Payment: $75.13/week - Chance: 85.0%")
	assert.Contains(t, out, "Medium risk")
	assert.Contains(t, out, "Reason: insurer: BENEVA")
	assert.NotContains(t, out, "KNOCK-OUTS DETECTED")
	assert.NotContains(t, out, "\x1b[")

	mm := strings.Index(out, "  MONEY MART\n")
	cm := strings.Index(out, "  CASH MONEY\n")
	require.Positive(t, mm)
	require.Positive(t, cm)
	assert.Less(t, mm, cm, "confirmed lenders are sorted by total paid")
}

func TestRender_Refused(t *testing.T) {
	res := analyze(t, 0)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, Options{}))
	out := buf.String()

	assert.Contains(t, out, "KNOCK-OUTS DETECTED - AUTOMATIC REFUSAL")
	assert.Contains(t, out, "negative residual capacity")
	assert.Contains(t, out, "GLOBAL SCORE: 0/100 - CRITICAL")
	assert.Contains(t, out, "Status: REFUSED")
	assert.NotContains(t, out, "CLIENT\n")
}

func TestRender_EmptyAnalysis(t *testing.T) {
	out := Render(&domain.Analysis{Recommendation: "No active lender detected - client eligible"}, Options{Style: Colored()})

	assert.Contains(t, out, "Transactions analyzed: 0")
	assert.Contains(t, out, "No active lender detected")
	assert.NotContains(t, out, "CONFIRMED LENDERS")
}
