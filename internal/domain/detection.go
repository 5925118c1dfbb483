package domain

import "time"

// BucketKind names the four aggregation groups.
type BucketKind string

const (
	BucketConfirmed BucketKind = "confirmed"
	BucketProbable  BucketKind = "probable"
	BucketPossible  BucketKind = "possible"
	BucketExcluded  BucketKind = "excluded"
)

// BucketTransaction is a payment attached to a bucket.
type BucketTransaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}

// EntityBucket aggregates the payments attributed to one (pseudo-)entity.
type EntityBucket struct {
	// Key is the entity name for list matches, or the truncated normalized
	// description for heuristic groups.
	Key  string `json:"key"`
	Name string `json:"name"`

	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
	Source     Source     `json:"source"`
	Reasons    []string   `json:"reasons"`
	Action     string     `json:"action"`

	Transactions []BucketTransaction `json:"transactions"`
	TotalPaid    float64             `json:"totalPaid"`
}

// Count returns the number of attached payments.
func (b *EntityBucket) Count() int {
	return len(b.Transactions)
}

// Statistics summarizes a detection run.
type Statistics struct {
	TransactionsAnalyzed int `json:"transactionsAnalyzed"`
	PaymentsAnalyzed     int `json:"paymentsAnalyzed"`

	ConfirmedCount int `json:"confirmedCount"`
	ProbableCount  int `json:"probableCount"`
	PossibleCount  int `json:"possibleCount"`
	ExcludedCount  int `json:"excludedCount"`

	ConfirmedDebt float64 `json:"confirmedDebt"`
	ProbableDebt  float64 `json:"probableDebt"`
	PossibleDebt  float64 `json:"possibleDebt"`
	ExcludedTotal float64 `json:"excludedTotal"`

	// EstimatedDebt is ConfirmedDebt + ProbableDebt. Possible debt is
	// reported on its own and never folded in.
	EstimatedDebt float64 `json:"estimatedDebt"`
}

// LenderCount is the number of confirmed and probable lenders.
func (s Statistics) LenderCount() int {
	return s.ConfirmedCount + s.ProbableCount
}

// DetectionResult is the four-bucket output of one batch.
// Buckets keep first-seen order so identical input yields identical output.
type DetectionResult struct {
	Confirmed []*EntityBucket `json:"confirmed"`
	Probable  []*EntityBucket `json:"probable"`
	Possible  []*EntityBucket `json:"possible"`
	Excluded  []*EntityBucket `json:"excluded"`

	Statistics Statistics `json:"statistics"`
}

// Buckets returns the bucket list for a kind.
func (r *DetectionResult) Buckets(kind BucketKind) []*EntityBucket {
	switch kind {
	case BucketConfirmed:
		return r.Confirmed
	case BucketProbable:
		return r.Probable
	case BucketPossible:
		return r.Possible
	case BucketExcluded:
		return r.Excluded
	}
	return nil
}

// BucketFor returns the group a scored payment is aggregated into, or ""
// when it scores below the possible threshold.
func BucketFor(r ScoreResult) BucketKind {
	switch {
	case r.Source == SourceExclusion:
		return BucketExcluded
	case r.Source.IsExactList():
		return BucketConfirmed
	case r.Score >= ScoreProbable:
		return BucketProbable
	case r.Score >= ScorePossible:
		return BucketPossible
	default:
		return ""
	}
}
