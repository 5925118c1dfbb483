package domain

import "github.com/shopspring/decimal"

// KnockOutType names a hard rejection criterion.
type KnockOutType string

const (
	KnockOutDebtRatioCritical KnockOutType = "debt-ratio-critical"
	KnockOutDebtRatioSevere   KnockOutType = "debt-ratio-severe"
	KnockOutNegativeCapacity  KnockOutType = "negative-capacity"
	KnockOutTooManyLenders    KnockOutType = "too-many-lenders"
	KnockOutRepeatedNSF       KnockOutType = "repeated-nsf"
	KnockOutChronicOverdraft  KnockOutType = "chronic-overdraft"
)

// KnockOut is one triggered rejection criterion.
type KnockOut struct {
	Type      KnockOutType `json:"type"`
	Value     float64      `json:"value"`
	Threshold float64      `json:"threshold"`
	Message   string       `json:"message"`
}

// KnockOutResult lists every triggered knock-out.
type KnockOutResult struct {
	KnockOuts    []KnockOut `json:"knockOuts"`
	HasKnockOuts bool       `json:"hasKnockOuts"`
}

// RiskTier is the qualitative applicant risk level.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskModerate RiskTier = "moderate"
	RiskHigh     RiskTier = "high"
	RiskVeryHigh RiskTier = "very-high"
	RiskCritical RiskTier = "critical"
)

// Penalty is one deduction applied by the risk score calculator.
type Penalty struct {
	Factor string `json:"factor"` // debt-ratio, budget, lenders, nsf, overdraft
	Points int    `json:"points"`
	Detail string `json:"detail"`
}

// RiskScoreResult is the applicant risk score.
type RiskScoreResult struct {
	Score     int        `json:"score"`
	Tier      RiskTier   `json:"tier"`
	Reason    string     `json:"reason"`
	Penalties []Penalty  `json:"penalties"`
	KnockOuts []KnockOut `json:"knockOuts"`
}

// UnderwritingInputs are the derived figures fed to the knock-out and risk
// calculators.
type UnderwritingInputs struct {
	// MonthlyIncome is 0 when unknown; ratio checks are then skipped.
	MonthlyIncome float64 `json:"monthlyIncome"`
	IncomeSource  string  `json:"incomeSource"` // declared, payroll, deposits, none

	TotalPayments float64 `json:"totalPayments"`
	LenderCount   int     `json:"lenderCount"`

	NSFCount       int `json:"nsfCount"`       // trailing 30 days
	OverdraftCount int `json:"overdraftCount"` // trailing 90 days
}

// HasIncome reports whether ratio-based checks apply.
func (in UnderwritingInputs) HasIncome() bool {
	return in.MonthlyIncome > 0
}

// DebtRatio is TotalPayments / MonthlyIncome, or 0 without income.
func (in UnderwritingInputs) DebtRatio() float64 {
	if !in.HasIncome() {
		return 0
	}
	return in.TotalPayments / in.MonthlyIncome
}

// CapacityShare is the part of monthly income available for repayments.
const CapacityShare = 0.5

// WeeksPerMonth converts monthly figures to weekly ones.
const WeeksPerMonth = 4.33

// MaxCapacity is the monthly repayment capacity before lender payments.
func (in UnderwritingInputs) MaxCapacity() float64 {
	return CapacityShare * in.MonthlyIncome
}

// WeeklyCapacity is MaxCapacity spread over a week.
func (in UnderwritingInputs) WeeklyCapacity() float64 {
	return in.MaxCapacity() / WeeksPerMonth
}

// ResidualCapacity is half the income left after lender payments.
func (in UnderwritingInputs) ResidualCapacity() float64 {
	return in.MaxCapacity() - in.TotalPayments
}

// Offer is one row of the approval probability table.
type Offer struct {
	Amount      decimal.Decimal `json:"amount"`
	Weekly      decimal.Decimal `json:"weekly"`
	BiWeekly    decimal.Decimal `json:"biWeekly"`
	Probability float64         `json:"probability"`
}
