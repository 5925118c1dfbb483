// Package textnorm folds transaction descriptions into a comparable form and
// matches curated terms against them.
package textnorm

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ShortTermLen is the longest term matched on word boundaries only.
// Acronyms such as SAI, LIT, ARCH or AIG would otherwise hit inside
// unrelated words.
const ShortTermLen = 4

// Normalize uppercases, strips accents, turns punctuation into spaces and
// collapses runs of whitespace.
func Normalize(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToUpper(r)
		default:
			return ' '
		}
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Words returns the upper-cased whitespace-separated word set of s.
func Words(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToUpper(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ContainsTerm reports whether the normalized text contains the normalized
// term. Short terms must stand as whole words.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	if len(term) <= ShortTermLen {
		return strings.Contains(" "+text+" ", " "+term+" ")
	}
	return strings.Contains(text, term)
}

type entry struct {
	term    string // normalized
	display string
}

// TermSet is an immutable list of curated terms.
type TermSet struct {
	ordered   []entry // declaration order, deduplicated
	byLength  []entry // longest first
	substring bool
}

// NewTermSet builds a set of names. Short names match whole words only.
// Accented variants that fold to the same spelling keep the first declared
// display form.
func NewTermSet(terms ...string) *TermSet {
	return newTermSet(false, terms)
}

// NewKeywordSet builds a set of keywords matched as plain substrings at any
// length, so LOAN also hits LOANS and PRET hits PRETURGENT.
func NewKeywordSet(terms ...string) *TermSet {
	return newTermSet(true, terms)
}

func newTermSet(substring bool, terms []string) *TermSet {
	ts := &TermSet{substring: substring}
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		n := Normalize(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		ts.ordered = append(ts.ordered, entry{term: n, display: strings.TrimSpace(t)})
	}
	ts.byLength = append([]entry(nil), ts.ordered...)
	sort.SliceStable(ts.byLength, func(i, j int) bool {
		return len(ts.byLength[i].term) > len(ts.byLength[j].term)
	})
	return ts
}

// Len returns the number of distinct terms.
func (ts *TermSet) Len() int {
	return len(ts.ordered)
}

// Terms returns the display forms in declaration order.
func (ts *TermSet) Terms() []string {
	out := make([]string, len(ts.ordered))
	for i, e := range ts.ordered {
		out[i] = e.display
	}
	return out
}

func (ts *TermSet) contains(text, term string) bool {
	if ts.substring {
		return term != "" && strings.Contains(text, term)
	}
	return ContainsTerm(text, term)
}

// Match returns the most specific (longest) term found in the normalized text.
func (ts *TermSet) Match(text string) (string, bool) {
	for _, e := range ts.byLength {
		if ts.contains(text, e.term) {
			return e.display, true
		}
	}
	return "", false
}

// MatchAll returns every term found, in declaration order.
func (ts *TermSet) MatchAll(text string) []string {
	var out []string
	for _, e := range ts.ordered {
		if ts.contains(text, e.term) {
			out = append(out, e.display)
		}
	}
	return out
}

// Contains reports whether any term is found.
func (ts *TermSet) Contains(text string) bool {
	_, ok := ts.Match(text)
	return ok
}

// MatchPrefix returns the first term the normalized text starts with.
// Prefixes are plain string prefixes: VIR matches VIREMENT.
func (ts *TermSet) MatchPrefix(text string) (string, bool) {
	for _, e := range ts.ordered {
		if strings.HasPrefix(text, e.term) {
			return e.display, true
		}
	}
	return "", false
}

// Equals reports whether the trimmed normalized text is exactly one of the terms.
func (ts *TermSet) Equals(text string) (string, bool) {
	for _, e := range ts.ordered {
		if text == e.term {
			return e.display, true
		}
	}
	return "", false
}
