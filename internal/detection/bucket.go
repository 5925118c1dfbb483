package detection

import "github.com/opensource-finance/frictrak/internal/domain"

// bucketSet is an insertion-ordered map of buckets.
type bucketSet struct {
	order []*domain.EntityBucket
	byKey map[string]*domain.EntityBucket
}

func newBucketSet() *bucketSet {
	return &bucketSet{byKey: make(map[string]*domain.EntityBucket)}
}

func (s *bucketSet) get(key, name string, r domain.ScoreResult) *domain.EntityBucket {
	if b, ok := s.byKey[key]; ok {
		return b
	}
	b := &domain.EntityBucket{
		Key:        key,
		Name:       name,
		Score:      r.Score,
		Confidence: r.Confidence,
		Source:     r.Source,
		Reasons:    append([]string(nil), r.Reasons...),
		Action:     r.Action,
	}
	s.byKey[key] = b
	s.order = append(s.order, b)
	return b
}

// add attaches a payment, keeping the first-seen result.
func (s *bucketSet) add(key, name string, r domain.ScoreResult, tx domain.BucketTransaction) {
	b := s.get(key, name, r)
	b.Transactions = append(b.Transactions, tx)
	b.TotalPaid += tx.Amount
}

// addMax attaches a payment and keeps the highest score seen. On improvement
// the reasons behind the new maximum replace the stored ones.
func (s *bucketSet) addMax(key, name string, r domain.ScoreResult, tx domain.BucketTransaction) {
	b := s.get(key, name, r)
	if r.Score > b.Score {
		b.Score = r.Score
		b.Confidence = r.Confidence
		b.Action = r.Action
		b.Reasons = append([]string(nil), r.Reasons...)
	}
	b.Transactions = append(b.Transactions, tx)
	b.TotalPaid += tx.Amount
}

func (s *bucketSet) list() []*domain.EntityBucket {
	if s.order == nil {
		return []*domain.EntityBucket{}
	}
	return s.order
}
