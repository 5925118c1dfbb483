package domain

import "time"

// Analysis status values.
const (
	StatusClear   = "CLEAR"   // no lender activity
	StatusReview  = "REVIEW"  // lender activity, no knock-out
	StatusRefused = "REFUSED" // at least one knock-out
)

// Analysis is the complete result of one batch.
type Analysis struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`

	Detection      *DetectionResult   `json:"detection"`
	Inputs         UnderwritingInputs `json:"inputs"`
	KnockOuts      KnockOutResult     `json:"knockOuts"`
	Risk           RiskScoreResult    `json:"risk"`
	Offers         []Offer            `json:"offers"`
	Recommendation string             `json:"recommendation"`

	Metadata AnalysisMetadata `json:"metadata"`
}

// AnalysisMetadata contains processing information.
type AnalysisMetadata struct {
	TraceID       string `json:"traceId,omitempty"`
	Fingerprint   string `json:"fingerprint,omitempty"`
	DetectMs      int64  `json:"detectMs"`
	UnderwriteMs  int64  `json:"underwriteMs"`
	TotalMs       int64  `json:"totalMs"`
	RulesLoaded   int    `json:"rulesLoaded"`
	EngineVersion string `json:"engineVersion"`
	Cached        bool   `json:"cached,omitempty"`
}

// AnalysisSummary is the compact API/bus view of an Analysis.
type AnalysisSummary struct {
	AnalysisID     string   `json:"analysisId"`
	TenantID       string   `json:"tenantId"`
	Reference      string   `json:"reference"`
	Status         string   `json:"status"`
	RiskScore      int      `json:"riskScore"`
	RiskTier       RiskTier `json:"riskTier"`
	LenderCount    int      `json:"lenderCount"`
	EstimatedDebt  float64  `json:"estimatedDebt"`
	Recommendation string   `json:"recommendation"`
	Reasons        []string `json:"reasons,omitempty"`
}

// Summary converts an Analysis to its compact view.
func (a *Analysis) Summary() *AnalysisSummary {
	s := &AnalysisSummary{
		AnalysisID:     a.ID,
		TenantID:       a.TenantID,
		Reference:      a.Reference,
		Status:         a.Status,
		RiskScore:      a.Risk.Score,
		RiskTier:       a.Risk.Tier,
		Recommendation: a.Recommendation,
	}
	if a.Detection != nil {
		s.LenderCount = a.Detection.Statistics.LenderCount()
		s.EstimatedDebt = a.Detection.Statistics.EstimatedDebt
	}
	for _, ko := range a.KnockOuts.KnockOuts {
		s.Reasons = append(s.Reasons, ko.Message)
	}
	return s
}
