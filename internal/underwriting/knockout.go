// Package underwriting turns detection statistics and bank signals into
// knock-outs, an applicant risk score and an approval probability table.
package underwriting

import (
	"fmt"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// Knock-out thresholds.
const (
	DebtRatioCriticalPct = 200.0
	DebtRatioSeverePct   = 100.0
	MaxLenders           = 5
	MaxNSF               = 2
	MaxOverdrafts        = 5
)

// EvaluateKnockOuts runs every hard rejection check. Checks are independent
// and all of them are evaluated. Income-based checks need a positive income.
func EvaluateKnockOuts(in domain.UnderwritingInputs) domain.KnockOutResult {
	var kos []domain.KnockOut

	if in.HasIncome() {
		ratio := in.DebtRatio() * 100
		switch {
		case ratio > DebtRatioCriticalPct:
			kos = append(kos, domain.KnockOut{
				Type:      domain.KnockOutDebtRatioCritical,
				Value:     ratio,
				Threshold: DebtRatioCriticalPct,
				Message:   fmt.Sprintf("debt/income ratio critical: %.1f%% (threshold: %.0f%%)", ratio, DebtRatioCriticalPct),
			})
		case ratio > DebtRatioSeverePct:
			kos = append(kos, domain.KnockOut{
				Type:      domain.KnockOutDebtRatioSevere,
				Value:     ratio,
				Threshold: DebtRatioSeverePct,
				Message:   fmt.Sprintf("debt/income ratio too high: %.1f%% (threshold: %.0f%%)", ratio, DebtRatioSeverePct),
			})
		}

		if residual := in.ResidualCapacity(); residual < 0 {
			kos = append(kos, domain.KnockOut{
				Type:      domain.KnockOutNegativeCapacity,
				Value:     residual,
				Threshold: 0,
				Message:   fmt.Sprintf("negative residual capacity: $%.2f", residual),
			})
		}
	}

	if in.LenderCount > MaxLenders {
		kos = append(kos, domain.KnockOut{
			Type:      domain.KnockOutTooManyLenders,
			Value:     float64(in.LenderCount),
			Threshold: MaxLenders,
			Message:   fmt.Sprintf("too many active lenders: %d (threshold: %d)", in.LenderCount, MaxLenders),
		})
	}

	if in.NSFCount > MaxNSF {
		kos = append(kos, domain.KnockOut{
			Type:      domain.KnockOutRepeatedNSF,
			Value:     float64(in.NSFCount),
			Threshold: MaxNSF,
			Message:   fmt.Sprintf("repeated NSF: %d in 30 days (threshold: %d)", in.NSFCount, MaxNSF),
		})
	}

	if in.OverdraftCount > MaxOverdrafts {
		kos = append(kos, domain.KnockOut{
			Type:      domain.KnockOutChronicOverdraft,
			Value:     float64(in.OverdraftCount),
			Threshold: MaxOverdrafts,
			Message:   fmt.Sprintf("chronic overdraft: %d in 90 days (threshold: %d)", in.OverdraftCount, MaxOverdrafts),
		})
	}

	return domain.KnockOutResult{KnockOuts: kos, HasKnockOuts: len(kos) > 0}
}
