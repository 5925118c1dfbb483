package domain

// HeuristicRule is one row of the ordered lender scoring table.
type HeuristicRule struct {
	ID string `json:"id"`

	// Group makes rules mutually exclusive: within a non-empty group only the
	// first matching rule applies.
	Group string `json:"group,omitempty"`

	// Expression is a CEL predicate over the transaction features.
	Expression string `json:"expression"`

	// Points is added when the predicate holds. Penalties are negative.
	Points int `json:"points"`

	// Reason may reference {keywords}, {amount}, {similar}, {prefix} and {length}.
	Reason string `json:"reason"`
}

// RuleHit records a rule that fired for one transaction.
type RuleHit struct {
	RuleID string `json:"ruleId"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}
