// Package exclusion suppresses transactions that cannot be lender payments
// before they reach the registry or the heuristic scorer.
package exclusion

import (
	"strings"

	"github.com/opensource-finance/frictrak/internal/registry"
	"github.com/opensource-finance/frictrak/internal/textnorm"
)

// Rule names the check that excluded a transaction.
type Rule string

const (
	RuleCategory Rule = "category"
	RulePattern  Rule = "bank-pattern"
	RuleList     Rule = "name-list"
	RuleLength   Rule = "too-short"
)

// MinDescriptionLen is the shortest trimmed description worth scoring.
const MinDescriptionLen = 4

// Decision is the result of ShouldExclude.
type Decision struct {
	Excluded bool   `json:"excluded"`
	Rule     Rule   `json:"rule,omitempty"`
	Name     string `json:"name,omitempty"` // matched pattern, name or category
	Reason   string `json:"reason,omitempty"`
}

// Config holds the configurable term lists of a Filter.
type Config struct {
	GamblingCategories []string
	ExpenseCategories  []string
	ATMCategories      []string
	TransferCategories []string

	// TransferOverrides keep a transfer-tagged payment in play when found in
	// its description. Kept apart from the scorer's keyword list.
	TransferOverrides []string

	BankPatterns    []string
	Gambling        []string
	PaymentServices []string
	Merchants       []string
}

// DefaultConfig returns the built-in lists.
func DefaultConfig() Config {
	return Config{
		GamblingCategories: []string{"gambling", "casino"},
		ExpenseCategories:  []string{"groceries", "gas", "fuel", "utilities", "bills", "insurance/car", "insurance/life"},
		ATMCategories:      []string{"atm"},
		TransferCategories: []string{"transfer"},
		TransferOverrides:  []string{"CREDIT", "LOAN", "PRET", "PRÊT", "FINANCE", "MONEY", "CASH", "SECOURS"},
		BankPatterns: []string{
			"BILL PAYMENT", "TRANSFERSBILL", "TRANSFERSTRANSFER", "TRANSFERSINTERAC E-TRANSFER TO",
			"E-TRANSFER TO", "INTERAC E-TRANSFER TO", "WITHDRAWAL AT THE COUNTER", "WITHDRAWAL ON ATM",
			"CHEQUES/CASHWITHDRAWAL", "TRANSFERSWITHDRAWAL", "DEPOSIT ON ATM", "MOBILE DEPOSIT",
			"MASTERCARD", "VISA", "CARTE DE CRÉDIT", "CREDIT CARD", "DESJARDINS ODYSSÉE",
			"BMO", "RBC", "CIBC", "SCOTIA", "A30 EXPRESS", "A25 EXPRESS", "RQ PAYMENT",
			"MUNICIPAL", "SCHOOL TAXES",
		},
		Gambling: []string{
			"GIGADAT", "LOTO-QUEBEC", "LOTOQUEBEC", "ESPACEJEUX", "CASINO", "MISE-O-JEU",
			"POKER", "SLOTS", "BINGO", "PLAYNOW", "BET", "GAMING",
		},
		PaymentServices: []string{"LOONIO", "PAYPER", "KOHO", "WEALTHSIMPLE", "QUESTRADE", "TANGERINE", "EQ BANK"},
		Merchants: []string{
			"IGA", "METRO", "WALMART", "COSTCO", "DOLLARAMA", "CANADIAN TIRE", "SAAQ", "HYDRO",
			"VIDEOTRON", "BELL", "ROGERS", "TIM HORTONS", "MCDONALD", "JEAN COUTU",
		},
	}
}

type namedList struct {
	label string
	terms *textnorm.TermSet
}

// Filter decides whether a payment should bypass lender scoring.
// Safe for concurrent use.
type Filter struct {
	registry *registry.Registry
	cfg      Config

	overrides *textnorm.TermSet
	patterns  *textnorm.TermSet
	lists     []namedList
}

// New builds a filter. The registry is consulted for the transfer override.
func New(reg *registry.Registry, cfg Config) *Filter {
	return &Filter{
		registry:  reg,
		cfg:       cfg,
		overrides: textnorm.NewKeywordSet(cfg.TransferOverrides...),
		patterns:  textnorm.NewTermSet(cfg.BankPatterns...),
		lists: []namedList{
			{"gambling operator", textnorm.NewTermSet(cfg.Gambling...)},
			{"payment service", textnorm.NewTermSet(cfg.PaymentServices...)},
			{"merchant", textnorm.NewTermSet(cfg.Merchants...)},
		},
	}
}

// NewDefault builds a filter over the default registry and lists.
func NewDefault() *Filter {
	return New(registry.Default(), DefaultConfig())
}

// ShouldExclude runs the category, pattern, list and length checks in that
// order. The first match wins.
func (f *Filter) ShouldExclude(description, category string) Decision {
	text := textnorm.Normalize(description)

	if d, ok := f.checkCategory(text, category); ok {
		return d
	}
	if name, ok := f.patterns.Match(text); ok {
		return excluded(RulePattern, name, "bank transaction pattern: "+name)
	}
	for _, l := range f.lists {
		if name, ok := l.terms.Match(text); ok {
			return excluded(RuleList, name, l.label+": "+name)
		}
	}
	if trimmed := strings.TrimSpace(description); len([]rune(trimmed)) < MinDescriptionLen {
		return excluded(RuleLength, trimmed, "description too short to score")
	}
	return Decision{}
}

func (f *Filter) checkCategory(text, category string) (Decision, bool) {
	if category == "" {
		return Decision{}, false
	}
	tag := strings.ToLower(category)

	if t, ok := containsAny(tag, f.cfg.GamblingCategories); ok {
		return excluded(RuleCategory, category, "gambling category: "+t), true
	}
	if t, ok := containsAny(tag, f.cfg.ExpenseCategories); ok {
		return excluded(RuleCategory, category, "everyday expense category: "+t), true
	}
	if _, ok := containsAny(tag, f.cfg.ATMCategories); ok {
		return excluded(RuleCategory, category, "ATM category"), true
	}
	if _, ok := containsAny(tag, f.cfg.TransferCategories); ok {
		if c := f.registry.ClassifyNormalized(text); c.IsLender() {
			return Decision{}, false
		}
		if f.overrides.Contains(text) {
			return Decision{}, false
		}
		return excluded(RuleCategory, category, "transfer without lender indication"), true
	}
	return Decision{}, false
}

func containsAny(tag string, terms []string) (string, bool) {
	for _, t := range terms {
		if strings.Contains(tag, t) {
			return t, true
		}
	}
	return "", false
}

func excluded(rule Rule, name, reason string) Decision {
	return Decision{Excluded: true, Rule: rule, Name: name, Reason: reason}
}
