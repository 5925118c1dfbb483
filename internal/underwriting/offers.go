package underwriting

import (
	"github.com/shopspring/decimal"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// Payment is the instalment for one loan amount.
type Payment struct {
	Weekly   decimal.Decimal
	BiWeekly decimal.Decimal
}

var paymentGrid = map[int64]Payment{
	500:  {decimal.RequireFromString("47.77"), decimal.RequireFromString("95.52")},
	1000: {decimal.RequireFromString("75.13"), decimal.RequireFromString("150.25")},
	1500: {decimal.RequireFromString("96.18"), decimal.RequireFromString("192.37")},
	2000: {decimal.RequireFromString("117.23"), decimal.RequireFromString("234.47")},
	2500: {decimal.RequireFromString("138.29"), decimal.RequireFromString("276.57")},
	3000: {decimal.RequireFromString("159.34"), decimal.RequireFromString("318.68")},
}

// PaymentFor looks up the instalments for a whole-dollar amount.
func PaymentFor(amount float64) (Payment, bool) {
	if amount != float64(int64(amount)) {
		return Payment{}, false
	}
	p, ok := paymentGrid[int64(amount)]
	return p, ok
}

// BuildOffers estimates the approval chance for every requested amount that
// has a payment schedule. Amounts without one are skipped. An empty amounts
// slice means domain.DefaultRequestedAmounts.
func BuildOffers(in domain.UnderwritingInputs, risk domain.RiskScoreResult, amounts []float64) []domain.Offer {
	if len(amounts) == 0 {
		amounts = domain.DefaultRequestedAmounts
	}

	offers := make([]domain.Offer, 0, len(amounts))
	for _, amount := range amounts {
		p, ok := PaymentFor(amount)
		if !ok {
			continue
		}
		offers = append(offers, domain.Offer{
			Amount:      decimal.NewFromFloat(amount),
			Weekly:      p.Weekly,
			BiWeekly:    p.BiWeekly,
			Probability: EstimateApproval(risk.Score, in.DebtRatio(), in.LenderCount, amount, in.MaxCapacity()),
		})
	}
	return offers
}

// Recommend summarizes the lender exposure in one sentence.
func Recommend(lenderCount int, estimatedDebt float64) string {
	switch {
	case lenderCount == 0:
		return "No active lender detected - client eligible"
	case lenderCount <= 2 && estimatedDebt < 2000:
		return "Low risk - client eligible with caution"
	case lenderCount <= 4 && estimatedDebt < 5000:
		return "Medium risk - verify repayment capacity"
	default:
		return "High risk - in-depth evaluation required"
	}
}
