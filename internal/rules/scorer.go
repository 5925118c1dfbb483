package rules

import (
	"fmt"
	"log/slog"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// Scorer produces a 0-100 lender likelihood for descriptions the registry
// cannot resolve.
type Scorer struct {
	engine *Engine
	vocab  *vocabulary
	logger *slog.Logger
}

// NewScorer wraps a loaded engine with a vocabulary.
func NewScorer(engine *Engine, v Vocabulary, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{engine: engine, vocab: compileVocabulary(v), logger: logger}
}

// NewDefaultScorer builds a scorer over BuiltinRules and DefaultVocabulary.
func NewDefaultScorer(logger *slog.Logger) (*Scorer, error) {
	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}
	if err := engine.LoadRules(BuiltinRules()); err != nil {
		return nil, fmt.Errorf("failed to load builtin rules: %w", err)
	}
	return NewScorer(engine, DefaultVocabulary(), logger), nil
}

// Engine returns the underlying rule engine.
func (s *Scorer) Engine() *Engine {
	return s.engine
}

// Explanation is a heuristic score with the rule hits behind it.
type Explanation struct {
	Result   domain.ScoreResult `json:"result"`
	Features *Features          `json:"features"`
	Hits     []domain.RuleHit   `json:"hits"`
}

// Score returns the heuristic result. amount may be signed; its absolute
// value is scored.
func (s *Scorer) Score(description string, amount float64, history *History) domain.ScoreResult {
	return s.Explain(description, amount, history).Result
}

// Explain scores a description and keeps the features and hits.
func (s *Scorer) Explain(description string, amount float64, history *History) Explanation {
	amount = domain.Transaction{Amount: amount}.AbsAmount()
	f := s.vocab.features(description, amount, 0)

	if kw, ok := s.vocab.nonLender.Match(f.Text); ok {
		return Explanation{
			Result: domain.ScoreResult{
				Score:      0,
				Confidence: domain.ConfidenceVeryLow,
				Source:     domain.SourceNone,
				Reasons:    []string{"non-lender keyword: " + kw},
				Action:     domain.ActionIgnore,
			},
			Features: f,
		}
	}

	f.Similar = history.CountSimilar(description)

	hits, err := s.engine.Evaluate(f)
	if err != nil {
		s.logger.Warn("rule evaluation failed", "description", description, "error", err)
	}

	score := 0
	reasons := make([]string, 0, len(hits))
	for _, h := range hits {
		score += h.Points
		reasons = append(reasons, h.Reason)
	}
	score = domain.ClampScore(score)

	conf, action := domain.ConfidenceFor(score)
	source := domain.SourceNone
	if score > 0 && len(reasons) > 0 {
		source = domain.SourceHeuristic
	}

	return Explanation{
		Result: domain.ScoreResult{
			Score:      score,
			Confidence: conf,
			Source:     source,
			Reasons:    reasons,
			Action:     action,
		},
		Features: f,
		Hits:     hits,
	}
}
