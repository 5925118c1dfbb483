package rules

import "github.com/opensource-finance/frictrak/internal/textnorm"

// SimilarityThreshold is the minimum Jaccard similarity of two word sets for
// descriptions to count as repetitions.
const SimilarityThreshold = 0.8

// History is the batch-scoped description list used for repetition counts.
// Word sets are computed once; the result of CountSimilar does not depend on
// the order of the descriptions.
type History struct {
	sets []map[string]struct{}
}

// NewHistory indexes descriptions. Empty descriptions are ignored.
func NewHistory(descriptions []string) *History {
	h := &History{sets: make([]map[string]struct{}, 0, len(descriptions))}
	for _, d := range descriptions {
		if w := textnorm.Words(d); len(w) > 0 {
			h.sets = append(h.sets, w)
		}
	}
	return h
}

// Len returns the number of indexed descriptions.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.sets)
}

// CountSimilar counts history entries whose word set has a Jaccard
// similarity of at least SimilarityThreshold with the description.
func (h *History) CountSimilar(description string) int {
	if h.Len() == 0 {
		return 0
	}
	words := textnorm.Words(description)
	if len(words) == 0 {
		return 0
	}

	count := 0
	for _, past := range h.sets {
		if Jaccard(words, past) >= SimilarityThreshold {
			count++
		}
	}
	return count
}

// CountSimilar is a one-shot helper over a plain description list.
func CountSimilar(description string, history []string) int {
	return NewHistory(history).CountSimilar(description)
}

// Jaccard returns |a ∩ b| / |a ∪ b|.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for w := range small {
		if _, ok := large[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
