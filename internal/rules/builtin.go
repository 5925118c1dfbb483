package rules

import "github.com/opensource-finance/frictrak/internal/domain"

// Rule groups. Only the first matching rule of a group applies.
const (
	GroupRepetition  = "repetition"
	GroupLargeAmount = "large-amount"
)

// BuiltinRules returns the default lender scoring table.
// Order matters: it is the order reasons are reported in.
func BuiltinRules() []*domain.HeuristicRule {
	return []*domain.HeuristicRule{
		// Positive signals
		{ID: "keyword", Expression: `size(keywords) > 0`, Points: 30, Reason: "lender keywords: {keywords}"},
		{ID: "round-amount", Expression: `round_amount`, Points: 15, Reason: "suspicious round amount: ${amount}"},
		{ID: "repetition-high", Group: GroupRepetition, Expression: `similar >= 5`, Points: 35, Reason: "very repetitive ({similar} similar)"},
		{ID: "repetition-medium", Group: GroupRepetition, Expression: `similar >= 3`, Points: 25, Reason: "repetitive ({similar} similar)"},
		{ID: "repetition-low", Group: GroupRepetition, Expression: `similar >= 2`, Points: 10, Reason: "some repetition ({similar} similar)"},
		{ID: "prefix", Expression: `prefix != ""`, Points: 10, Reason: "suspicious banking prefix: {prefix}"},
		{ID: "amount-range", Expression: `amount >= 50.0 && amount <= 5000.0`, Points: 10, Reason: "typical payday loan amount (50-5000)"},

		// Combinations
		{ID: "combo-credit-small", Expression: `desc.contains("CREDIT") && amount > 0.0 && amount < 2000.0`, Points: 20, Reason: "combination: CREDIT + small amount"},
		{ID: "combo-finance-round", Expression: `desc.contains("FINANCE") && round_amount`, Points: 20, Reason: "combination: FINANCE + round amount"},
		{ID: "combo-loan-repeat", Expression: `desc.contains("LOAN") && similar >= 2`, Points: 20, Reason: "combination: LOAN + repetitions"},
		{ID: "combo-triple", Expression: `triple_prefix && triple_keyword && amount >= 50.0 && amount <= 5000.0`, Points: 25, Reason: "triple combination (prefix + keyword + amount)"},

		// Penalties
		{ID: "amount-extreme", Group: GroupLargeAmount, Expression: `amount > 20000.0`, Points: -40, Reason: "extreme amount (>20K)"},
		{ID: "amount-very-high", Group: GroupLargeAmount, Expression: `amount > 10000.0`, Points: -20, Reason: "very high amount (>10K)"},
		{ID: "short-description", Expression: `length < 10`, Points: -15, Reason: "description too short"},
		{ID: "generic-description", Expression: `generic`, Points: -20, Reason: "description too generic"},
		{ID: "excessive-frequency", Expression: `similar > 20`, Points: -10, Reason: "excessive frequency (>20 transactions)"},
	}
}
