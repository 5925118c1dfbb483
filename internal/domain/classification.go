package domain

// EntityType is the category a curated registry assigns to a counterparty.
type EntityType string

const (
	EntityLender   EntityType = "lender"
	EntityInsurer  EntityType = "insurer"
	EntityTrustee  EntityType = "trustee"
	EntityCasino   EntityType = "casino"
	EntityMerchant EntityType = "merchant"
	EntityUnknown  EntityType = "unknown"
)

// Classification is the registry verdict for one description.
type Classification struct {
	Type EntityType `json:"type"`
	Name string     `json:"name,omitempty"`

	// Exclude is true for every non-lender match.
	Exclude bool `json:"exclude"`

	// Official distinguishes the regulator's licensed lender list from the
	// supplementary one. Only meaningful when Type is EntityLender.
	Official bool `json:"official,omitempty"`
}

// IsLender reports whether the registry matched a lender.
func (c Classification) IsLender() bool {
	return c.Type == EntityLender
}

// Resolved reports whether the registry matched anything.
func (c Classification) Resolved() bool {
	return c.Type != EntityUnknown && c.Type != ""
}

// Source identifies which path produced a score.
type Source string

const (
	SourceExactList              Source = "exact-list"
	SourceExactListSupplementary Source = "exact-list-supplementary"
	SourceHeuristic              Source = "heuristic-rules"
	SourceExclusion              Source = "exclusion"
	SourceNone                   Source = "none"
)

// IsExactList reports whether the score came from a registry lender match.
func (s Source) IsExactList() bool {
	return s == SourceExactList || s == SourceExactListSupplementary
}

// Confidence is the qualitative tier of a 0-100 score.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "very-high"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceVeryLow  Confidence = "very-low"
	ConfidenceNA       Confidence = "n/a"
)

// Recommended actions, one per confidence tier.
const (
	ActionConfirm  = "CONFIRM - very likely lender"
	ActionProbable = "PROBABLE - verify manually"
	ActionPossible = "POSSIBLE - investigation required"
	ActionUnlikely = "UNLIKELY - may ignore"
	ActionIgnore   = "NON-LENDER - ignore"
	ActionExclude  = "EXCLUDED - not a lender"
)

// Score thresholds shared by tiering and bucketing.
const (
	ScoreVeryHigh = 80
	ScoreProbable = 60
	ScorePossible = 40
	ScoreLow      = 20

	ScoreOfficialLender      = 95
	ScoreSupplementaryLender = 90
)

// ConfidenceFor maps a score to its tier and recommended action.
func ConfidenceFor(score int) (Confidence, string) {
	switch {
	case score >= ScoreVeryHigh:
		return ConfidenceVeryHigh, ActionConfirm
	case score >= ScoreProbable:
		return ConfidenceHigh, ActionProbable
	case score >= ScorePossible:
		return ConfidenceMedium, ActionPossible
	case score >= ScoreLow:
		return ConfidenceLow, ActionUnlikely
	default:
		return ConfidenceVeryLow, ActionIgnore
	}
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScoreResult is the per-transaction lender score.
type ScoreResult struct {
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
	Source     Source     `json:"source"`
	Reasons    []string   `json:"reasons"`
	Action     string     `json:"action"`

	// EntityName is empty for heuristic scores.
	EntityName string `json:"entityName,omitempty"`
}

// NewExclusionResult builds the fixed result of an excluded transaction.
func NewExclusionResult(name, reason string) ScoreResult {
	return ScoreResult{
		Score:      0,
		Confidence: ConfidenceNA,
		Source:     SourceExclusion,
		Reasons:    []string{reason},
		Action:     ActionExclude,
		EntityName: name,
	}
}

// NewExactListResult builds the result of a registry lender match.
func NewExactListResult(c Classification) ScoreResult {
	score, source, list := ScoreSupplementaryLender, SourceExactListSupplementary, "supplementary lender list"
	if c.Official {
		score, source, list = ScoreOfficialLender, SourceExactList, "official lender list"
	}
	conf, action := ConfidenceFor(score)
	return ScoreResult{
		Score:      score,
		Confidence: conf,
		Source:     source,
		Reasons:    []string{"matched " + c.Name + " on the " + list},
		Action:     action,
		EntityName: c.Name,
	}
}
