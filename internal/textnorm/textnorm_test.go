package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Prêt Rapide", "PRET RAPIDE"},
		{"  financière   Fairstone ", "FINANCIERE FAIRSTONE"},
		{"TIM HORTONS #6364", "TIM HORTONS 6364"},
		{"A&W", "A W"},
		{"MISE-O-JEU", "MISE O JEU"},
		{"CHEQUES/CASHWITHDRAWAL", "CHEQUES CASHWITHDRAWAL"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestContainsTerm_ShortTermsNeedWordBoundary(t *testing.T) {
	assert.True(t, ContainsTerm("SAI QUEBEC", "SAI"))
	assert.False(t, ContainsTerm("SAINT JEAN", "SAI"))
	assert.False(t, ContainsTerm("SPLIT PAYMENT", "LIT"))
	assert.True(t, ContainsTerm("PAYMENT LIT", "LIT"))
	assert.False(t, ContainsTerm("PAIEMENT", "PAIE"))
	assert.True(t, ContainsTerm("PRETURGENT", "PRETURGENT"))
	assert.True(t, ContainsTerm("NATIONAL MONEY MART 12", "MONEY MART"))
}

func TestTermSet_MatchPrefersLongest(t *testing.T) {
	ts := NewTermSet("MONEY MART", "NATIONAL MONEY MART", "Prêt", "PRET")

	assert.Equal(t, 3, ts.Len(), "accented duplicate folds away")

	name, ok := ts.Match(Normalize("National Money Mart #12"))
	assert.True(t, ok)
	assert.Equal(t, "NATIONAL MONEY MART", name)

	assert.Equal(t, []string{"MONEY MART", "NATIONAL MONEY MART"}, ts.MatchAll("NATIONAL MONEY MART"))
}

func TestTermSet_PrefixAndEquals(t *testing.T) {
	ts := NewTermSet("PMT", "VIR")

	p, ok := ts.MatchPrefix("VIREMENT ABC")
	assert.True(t, ok)
	assert.Equal(t, "VIR", p)

	_, ok = ts.MatchPrefix("ABC PMT")
	assert.False(t, ok)

	_, ok = ts.Equals("PMT")
	assert.True(t, ok)
	_, ok = ts.Equals("PMT 1")
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ÉCO", Truncate("ÉCOLE", 3))
	assert.Equal(t, "ABC", Truncate("ABC", 30))
	assert.Equal(t, "", Truncate("ABC", 0))
}

func TestWords(t *testing.T) {
	w := Words("pmt  Credit pmt")
	assert.Len(t, w, 2)
	assert.Contains(t, w, "PMT")
	assert.Contains(t, w, "CREDIT")
}

func TestKeywordSet_MatchesInsideWords(t *testing.T) {
	ks := NewKeywordSet("LOAN", "PRÊT", "PRET")

	assert.Equal(t, 2, ks.Len())
	assert.True(t, ks.Contains("EASY LOANS 44"))
	assert.True(t, ks.Contains("PRETURGENT"))
	assert.False(t, NewTermSet("LOAN").Contains("EASY LOANS 44"))
}
