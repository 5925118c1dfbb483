package underwriting

import (
	"fmt"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// ReasonAutomaticRefusal is the risk reason when knock-outs fire.
const ReasonAutomaticRefusal = "automatic refusal - knock-outs triggered"

type tier struct {
	above  float64
	points int
}

var (
	debtRatioTiers = []tier{{75, 20}, {50, 15}, {30, 10}, {15, 5}}
	lenderPenalty  = map[int]int{5: 20, 4: 15, 3: 10, 2: 5, 1: 2}
	nsfPenalty     = map[int]int{2: 15, 1: 10}
)

// CalculateRisk computes the 0-100 applicant score. Any knock-out forces the
// score to 0 and the tier to critical.
func CalculateRisk(in domain.UnderwritingInputs, ko domain.KnockOutResult) domain.RiskScoreResult {
	if ko.HasKnockOuts {
		return domain.RiskScoreResult{
			Score:     0,
			Tier:      domain.RiskCritical,
			Reason:    ReasonAutomaticRefusal,
			Penalties: []domain.Penalty{},
			KnockOuts: ko.KnockOuts,
		}
	}

	var penalties []domain.Penalty
	add := func(factor string, points int, detail string) {
		penalties = append(penalties, domain.Penalty{Factor: factor, Points: points, Detail: detail})
	}

	if in.HasIncome() {
		ratio := in.DebtRatio() * 100
		for _, t := range debtRatioTiers {
			if ratio > t.above {
				add("debt-ratio", t.points, fmt.Sprintf("debt/income ratio %.1f%% above %.0f%%", ratio, t.above))
				break
			}
		}

		budget := in.ResidualCapacity()
		if points, limit := budgetPenalty(budget); points > 0 {
			add("budget", points, fmt.Sprintf("residual budget $%.2f below $%.0f", budget, limit))
		}
	}

	if points, ok := lenderPenalty[in.LenderCount]; ok {
		add("lenders", points, fmt.Sprintf("%d active lender(s)", in.LenderCount))
	}

	if points, ok := nsfPenalty[in.NSFCount]; ok {
		add("nsf", points, fmt.Sprintf("%d NSF in 30 days", in.NSFCount))
	}

	switch {
	case in.OverdraftCount == 5:
		add("overdraft", 12, "5 overdrafts in 90 days")
	case in.OverdraftCount >= 3:
		add("overdraft", 8, fmt.Sprintf("%d overdrafts in 90 days", in.OverdraftCount))
	case in.OverdraftCount >= 1:
		add("overdraft", 5, fmt.Sprintf("%d overdraft(s) in 90 days", in.OverdraftCount))
	}

	score := 100
	for _, p := range penalties {
		score -= p.Points
	}
	if score < 0 {
		score = 0
	}

	if penalties == nil {
		penalties = []domain.Penalty{}
	}

	return domain.RiskScoreResult{
		Score:     score,
		Tier:      TierFor(score),
		Reason:    fmt.Sprintf("%d penalty factor(s) applied", len(penalties)),
		Penalties: penalties,
		KnockOuts: []domain.KnockOut{},
	}
}

func budgetPenalty(budget float64) (int, float64) {
	switch {
	case budget < 0:
		return 20, 0
	case budget < 500:
		return 15, 500
	case budget < 1000:
		return 10, 1000
	case budget < 1500:
		return 5, 1500
	}
	return 0, 0
}

// TierFor maps a non-refused score to its risk tier.
func TierFor(score int) domain.RiskTier {
	switch {
	case score >= 80:
		return domain.RiskLow
	case score >= 60:
		return domain.RiskModerate
	case score >= 40:
		return domain.RiskHigh
	default:
		return domain.RiskVeryHigh
	}
}
