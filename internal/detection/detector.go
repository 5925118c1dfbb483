// Package detection classifies a batch of transactions and aggregates lender
// payments into confirmed, probable, possible and excluded buckets.
package detection

import (
	"log/slog"

	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/exclusion"
	"github.com/opensource-finance/frictrak/internal/registry"
	"github.com/opensource-finance/frictrak/internal/rules"
	"github.com/opensource-finance/frictrak/internal/textnorm"
)

// Key and display name lengths for heuristic groups.
const (
	HeuristicKeyLen  = 30
	HeuristicNameLen = 40
)

// Detector drives the per-transaction pipeline.
// It holds no per-batch state and is safe for concurrent use.
type Detector struct {
	registry *registry.Registry
	filter   *exclusion.Filter
	scorer   *rules.Scorer
	logger   *slog.Logger
}

// NewDetector wires the registry, exclusion filter and heuristic scorer.
func NewDetector(reg *registry.Registry, filter *exclusion.Filter, scorer *rules.Scorer, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{registry: reg, filter: filter, scorer: scorer, logger: logger}
}

// NewDefaultDetector builds a detector over the default registry, filter and
// built-in rule table.
func NewDefaultDetector(logger *slog.Logger) (*Detector, error) {
	scorer, err := rules.NewDefaultScorer(logger)
	if err != nil {
		return nil, err
	}
	return NewDetector(registry.Default(), exclusion.NewDefault(), scorer, logger), nil
}

// Scorer returns the heuristic scorer.
func (d *Detector) Scorer() *rules.Scorer {
	return d.scorer
}

// Registry returns the entity registry.
func (d *Detector) Registry() *registry.Registry {
	return d.registry
}

// Score runs the hybrid pipeline for one payment: exclusion filter, then
// registry, then heuristic rules. A registry lender match always wins over
// the heuristic path.
func (d *Detector) Score(description string, amount float64, category string, history *rules.History) domain.ScoreResult {
	if dec := d.filter.ShouldExclude(description, category); dec.Excluded {
		return domain.NewExclusionResult(dec.Name, dec.Reason)
	}

	c := d.registry.Classify(description)
	switch {
	case c.IsLender():
		return domain.NewExactListResult(c)
	case c.Exclude:
		return domain.NewExclusionResult(c.Name, string(c.Type)+": "+c.Name)
	}

	return d.scorer.Score(description, amount, history)
}

// Detect classifies every payment of the batch. Deposits are skipped; the
// whole batch, deposits included, is the repetition history.
func (d *Detector) Detect(txs []domain.Transaction) *domain.DetectionResult {
	descriptions := make([]string, len(txs))
	for i, tx := range txs {
		descriptions[i] = tx.Description
	}
	history := rules.NewHistory(descriptions)

	var (
		confirmed = newBucketSet()
		probable  = newBucketSet()
		possible  = newBucketSet()
		excluded  = newBucketSet()
		payments  int
	)

	for _, tx := range txs {
		if !tx.IsPayment() {
			continue
		}
		payments++

		amount := tx.AbsAmount()
		result := d.Score(tx.Description, amount, tx.Category, history)
		entry := domain.BucketTransaction{Date: tx.Date, Description: tx.Description, Amount: amount}

		switch domain.BucketFor(result) {
		case domain.BucketExcluded:
			key := result.EntityName
			if key == "" {
				key = textnorm.Truncate(tx.Description, HeuristicNameLen)
			}
			excluded.add(key, key, result, entry)
		case domain.BucketConfirmed:
			confirmed.add(result.EntityName, result.EntityName, result, entry)
		case domain.BucketProbable:
			probable.addMax(heuristicKey(tx.Description), textnorm.Truncate(tx.Description, HeuristicNameLen), result, entry)
		case domain.BucketPossible:
			possible.addMax(heuristicKey(tx.Description), textnorm.Truncate(tx.Description, HeuristicNameLen), result, entry)
		}
	}

	res := &domain.DetectionResult{
		Confirmed: confirmed.list(),
		Probable:  probable.list(),
		Possible:  possible.list(),
		Excluded:  excluded.list(),
	}
	res.Statistics = computeStatistics(res, len(txs), payments)

	d.logger.Debug("batch classified",
		"transactions", len(txs),
		"payments", payments,
		"confirmed", res.Statistics.ConfirmedCount,
		"probable", res.Statistics.ProbableCount,
		"possible", res.Statistics.PossibleCount,
		"excluded", res.Statistics.ExcludedCount,
	)

	return res
}

func heuristicKey(description string) string {
	return textnorm.Truncate(textnorm.Normalize(description), HeuristicKeyLen)
}

func computeStatistics(r *domain.DetectionResult, transactions, payments int) domain.Statistics {
	s := domain.Statistics{
		TransactionsAnalyzed: transactions,
		PaymentsAnalyzed:     payments,
		ConfirmedCount:       len(r.Confirmed),
		ProbableCount:        len(r.Probable),
		PossibleCount:        len(r.Possible),
		ExcludedCount:        len(r.Excluded),
		ConfirmedDebt:        total(r.Confirmed),
		ProbableDebt:         total(r.Probable),
		PossibleDebt:         total(r.Possible),
		ExcludedTotal:        total(r.Excluded),
	}
	s.EstimatedDebt = s.ConfirmedDebt + s.ProbableDebt
	return s
}

func total(buckets []*domain.EntityBucket) float64 {
	sum := 0.0
	for _, b := range buckets {
		sum += b.TotalPaid
	}
	return sum
}
