package rules

import (
	"strconv"
	"strings"

	"github.com/opensource-finance/frictrak/internal/textnorm"
)

// maxReasonKeywords caps the keywords quoted in a reason.
const maxReasonKeywords = 3

// Vocabulary holds the term lists the features are derived from.
type Vocabulary struct {
	LenderKeywords []string
	RoundAmounts   []float64
	Prefixes       []string

	// NonLender short-circuits scoring to zero.
	NonLender []string

	// Generic labels are penalized when they are the whole description.
	Generic []string

	TriplePrefixes []string
	TripleKeywords []string
}

// DefaultVocabulary returns the built-in French/English term lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		LenderKeywords: []string{
			"PRET", "PRÊT", "EMPRUNT", "AVANCE", "CREDIT", "CRÉDIT",
			"FINANCE", "FINANCIERE", "FINANCIÈRE", "FINANCEMENT",
			"ARGENT", "CASH", "COMPTANT", "RAPIDE", "EXPRESS",
			"LOAN", "LOANS", "LENDING", "LENDER", "ADVANCE",
			"MONEY", "FAST", "QUICK", "INSTANT", "PAYDAY",
			"PMT", "PAYMENT", "PAIEMENT", "VIR", "VIREMENT", "TRANSFER",
		},
		RoundAmounts: []float64{100, 150, 200, 250, 300, 400, 500, 750, 1000, 1500, 2000, 2500, 3000, 4000, 5000},
		Prefixes:     []string{"PMT", "PAIEMENT", "PAYMENT", "VIR", "VIREMENT", "TRANSFER", "RETRAIT", "WITHDRAWAL", "DEBIT"},
		NonLender: []string{
			"SALAIRE", "SALARY", "PAIE", "PAYROLL", "WAGES", "REMUNERATION",
			"REMBOURSEMENT IMPOT", "TAX REFUND", "IMPOT", "TAX RETURN", "REVENU QUEBEC", "REVENU CANADA",
			"VIREMENT PERSONNEL", "TRANSFER FROM", "DEPOT", "DEPOSIT", "TRANSFER PERSONAL", "PERSONNEL",
			"VIR INTERAC ENVOYE", "VIR INTERAC EFFECTUE", "VIREMENT INTERAC", "VIR INTERAC",
			"DIVIDEND", "DIVIDENDE", "INTEREST", "INTERET", "PENSION", "RETIREMENT",
			"VENTE", "SALE", "SOLD", "REFUND",
		},
		Generic:        []string{"TRANSFER", "VIREMENT", "PAYMENT", "PAIEMENT", "DEBIT", "CREDIT", "RETRAIT", "DEPOT"},
		TriplePrefixes: []string{"PMT", "VIR"},
		TripleKeywords: []string{"CREDIT", "LOAN", "FINANCE", "PRET"},
	}
}

type vocabulary struct {
	keywords       *textnorm.TermSet
	roundAmounts   map[float64]bool
	prefixes       *textnorm.TermSet
	nonLender      *textnorm.TermSet
	generic        *textnorm.TermSet
	triplePrefixes *textnorm.TermSet
	tripleKeywords *textnorm.TermSet
}

func compileVocabulary(v Vocabulary) *vocabulary {
	round := make(map[float64]bool, len(v.RoundAmounts))
	for _, a := range v.RoundAmounts {
		round[a] = true
	}
	return &vocabulary{
		keywords:       textnorm.NewKeywordSet(v.LenderKeywords...),
		roundAmounts:   round,
		prefixes:       textnorm.NewKeywordSet(v.Prefixes...),
		nonLender:      textnorm.NewTermSet(v.NonLender...),
		generic:        textnorm.NewKeywordSet(v.Generic...),
		triplePrefixes: textnorm.NewKeywordSet(v.TriplePrefixes...),
		tripleKeywords: textnorm.NewKeywordSet(v.TripleKeywords...),
	}
}

// Features are the per-transaction inputs of the rule table.
type Features struct {
	Description string  `json:"description"`
	Text        string  `json:"text"`   // normalized
	Amount      float64 `json:"amount"` // absolute
	Length      int     `json:"length"` // trimmed raw description, in runes
	Similar     int     `json:"similar"`

	Keywords      []string `json:"keywords,omitempty"`
	RoundAmount   bool     `json:"roundAmount"`
	Prefix        string   `json:"prefix,omitempty"`
	Generic       bool     `json:"generic"`
	TriplePrefix  bool     `json:"triplePrefix"`
	TripleKeyword bool     `json:"tripleKeyword"`
}

func (v *vocabulary) features(description string, amount float64, similar int) *Features {
	text := textnorm.Normalize(description)
	f := &Features{
		Description: description,
		Text:        text,
		Amount:      amount,
		Length:      len([]rune(strings.TrimSpace(description))),
		Similar:     similar,
		Keywords:    v.keywords.MatchAll(text),
		RoundAmount: v.roundAmounts[amount],
	}
	f.Prefix, _ = v.prefixes.MatchPrefix(text)
	_, f.Generic = v.generic.Equals(text)
	_, f.TriplePrefix = v.triplePrefixes.MatchPrefix(text)
	f.TripleKeyword = v.tripleKeywords.Contains(text)
	return f
}

func (f *Features) activation() map[string]any {
	keywords := f.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return map[string]any{
		"desc":           f.Text,
		"amount":         f.Amount,
		"length":         int64(f.Length),
		"similar":        int64(f.Similar),
		"keywords":       keywords,
		"round_amount":   f.RoundAmount,
		"prefix":         f.Prefix,
		"generic":        f.Generic,
		"triple_prefix":  f.TriplePrefix,
		"triple_keyword": f.TripleKeyword,
	}
}

func (f *Features) render(reason string) string {
	if !strings.Contains(reason, "{") {
		return reason
	}
	kw := f.Keywords
	if len(kw) > maxReasonKeywords {
		kw = kw[:maxReasonKeywords]
	}
	return strings.NewReplacer(
		"{keywords}", strings.Join(kw, ", "),
		"{amount}", strconv.FormatFloat(f.Amount, 'f', 0, 64),
		"{similar}", strconv.Itoa(f.Similar),
		"{prefix}", f.Prefix,
		"{length}", strconv.Itoa(f.Length),
	).Replace(reason)
}
