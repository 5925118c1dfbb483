// Package rules provides the CEL-Go based heuristic lender scoring engine.
package rules

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// Engine evaluates an ordered table of CEL predicates.
type Engine struct {
	mu    sync.RWMutex
	env   *cel.Env
	rules []*CompiledRule // table order
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Config  *domain.HeuristicRule
	Program cel.Program
}

// NewEngine creates an engine with no rules loaded.
func NewEngine() (*Engine, error) {
	// Create CEL environment with transaction feature variables
	env, err := cel.NewEnv(
		cel.Variable("desc", cel.StringType),
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("length", cel.IntType),
		cel.Variable("similar", cel.IntType),
		cel.Variable("keywords", cel.ListType(cel.StringType)),
		cel.Variable("round_amount", cel.BoolType),
		cel.Variable("prefix", cel.StringType),
		cel.Variable("generic", cel.BoolType),
		cel.Variable("triple_prefix", cel.BoolType),
		cel.Variable("triple_keyword", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{env: env}, nil
}

// ValidateRule compiles and validates a rule without mutating loaded engine rules.
func (e *Engine) ValidateRule(cfg *domain.HeuristicRule) error {
	if cfg == nil {
		return fmt.Errorf("rule config is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compileRule(cfg)
	return err
}

// LoadRule compiles a rule and appends it to the table. A rule with the same
// ID is replaced in place, keeping its position.
func (e *Engine) LoadRule(cfg *domain.HeuristicRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(cfg)
	if err != nil {
		return err
	}

	for i, r := range e.rules {
		if r.Config.ID == cfg.ID {
			e.rules[i] = compiled
			return nil
		}
	}
	e.rules = append(e.rules, compiled)

	return nil
}

// LoadRules compiles and loads multiple rules in order.
func (e *Engine) LoadRules(configs []*domain.HeuristicRule) error {
	for _, cfg := range configs {
		if err := e.LoadRule(cfg); err != nil {
			return err
		}
	}
	return nil
}

// ReloadRules replaces the whole table. On error the loaded table is kept.
func (e *Engine) ReloadRules(configs []*domain.HeuristicRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]*CompiledRule, 0, len(configs))
	for _, cfg := range configs {
		compiled, err := e.compileRule(cfg)
		if err != nil {
			return err
		}
		next = append(next, compiled)
	}

	e.rules = next

	return nil
}

// Evaluate runs the table in order against one feature set.
// Within a group only the first matching rule fires. Rules that fail to
// evaluate are skipped and reported in the joined error; the returned hits
// are always usable.
func (e *Engine) Evaluate(f *Features) ([]domain.RuleHit, error) {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	activation := f.activation()
	firedGroups := make(map[string]bool)

	var (
		hits []domain.RuleHit
		errs []error
	)
	for _, rule := range rules {
		if g := rule.Config.Group; g != "" && firedGroups[g] {
			continue
		}

		out, _, err := rule.Program.Eval(activation)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", rule.Config.ID, err))
			continue
		}
		if matched, ok := out.(types.Bool); !ok || !bool(matched) {
			continue
		}

		if g := rule.Config.Group; g != "" {
			firedGroups[g] = true
		}
		hits = append(hits, domain.RuleHit{
			RuleID: rule.Config.ID,
			Points: rule.Config.Points,
			Reason: f.render(rule.Config.Reason),
		})
	}

	return hits, errors.Join(errs...)
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rules)
}

// GetLoadedRules returns the loaded rule configurations in table order.
func (e *Engine) GetLoadedRules() []*domain.HeuristicRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*domain.HeuristicRule, 0, len(e.rules))
	for _, compiled := range e.rules {
		rules = append(rules, compiled.Config)
	}
	return rules
}

// Close cleans up the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = nil
	return nil
}

func (e *Engine) compileRule(cfg *domain.HeuristicRule) (*CompiledRule, error) {
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, fmt.Errorf("rule id is required")
	}

	ast, issues := e.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %s: %w", cfg.ID, issues.Err())
	}

	if outputType := ast.OutputType(); outputType != cel.BoolType {
		return nil, fmt.Errorf("rule %s: expression must return bool, got %s", cfg.ID, outputType)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for rule %s: %w", cfg.ID, err)
	}

	return &CompiledRule{
		Config:  cfg,
		Program: program,
	}, nil
}
