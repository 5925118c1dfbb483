package registry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensource-finance/frictrak/internal/domain"
)

func TestClassify(t *testing.T) {
	reg := Default()

	tests := []struct {
		desc     string
		typ      domain.EntityType
		name     string
		official bool
	}{
		{"MONEY MART MONTREAL", domain.EntityLender, "MONEY MART", true},
		{"National Money Mart #12", domain.EntityLender, "NATIONAL MONEY MART", true},
		{"ADVANCE CREDIT TM", domain.EntityLender, "ADVANCE CREDIT TM", true},
		{"Kredit Prêt Inc", domain.EntityLender, "KREDIT PRET", true},
		{"FAIRSTONE FINANCIAL", domain.EntityLender, "FAIRSTONE FINANCIAL", true},
		{"CASH MONEY 200", domain.EntityLender, "CASH MONEY", false},
		{"PRETURGENT", domain.EntityLender, "PRETURGENT", false},
		{"BENEVA ASSURANCE", domain.EntityInsurer, "BENEVA", false},
		{"RAYMOND CHABOT SYNDIC", domain.EntityTrustee, "RAYMOND CHABOT", false},
		{"GIGADAT INC", domain.EntityCasino, "GIGADAT", false},
		{"TIM HORTONS #6364", domain.EntityMerchant, "TIM HORTONS", false},
		{"PMT CREDIT SERVICE 123", domain.EntityUnknown, "", false},
		{"SALAIRE EMPLOYEUR ABC", domain.EntityUnknown, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c := reg.Classify(tt.desc)
			assert.Equal(t, tt.typ, c.Type)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.official, c.Official)
			assert.Equal(t, tt.typ != domain.EntityLender && tt.typ != domain.EntityUnknown, c.Exclude)
		})
	}
}

func TestClassify_ShortTokensNeedWordBoundary(t *testing.T) {
	reg := Default()

	assert.Equal(t, domain.EntityTrustee, reg.Classify("SAI QUEBEC").Type)
	assert.Equal(t, domain.EntityUnknown, reg.Classify("SAINT JEAN BOULANGERIE").Type)
	assert.Equal(t, domain.EntityUnknown, reg.Classify("SPLIT BILL 1234").Type, "LIT inside a word")
	assert.Equal(t, domain.EntityInsurer, reg.Classify("AIG CANADA").Type)
}

func TestClassify_PriorityOrder(t *testing.T) {
	reg := New(Lists{
		SupplementaryLenders: []string{"ACME"},
		Insurers:             []string{"ACME"},
		Merchants:            []string{"SHOP"},
		Casinos:              []string{"SHOP"},
	})

	assert.Equal(t, domain.EntityLender, reg.Classify("ACME 22").Type)
	assert.Equal(t, domain.EntityCasino, reg.Classify("SHOP 22").Type)
}

func TestLoadExtra(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("supplementary_lenders:\n  - ZZ QUICK FUNDS\nmerchants:\n  - LOCAL BAKERY\n"), 0o600))

	reg, err := LoadExtra(path)
	require.NoError(t, err)

	c := reg.Classify("zz quick funds 44")
	assert.Equal(t, domain.EntityLender, c.Type)
	assert.False(t, c.Official)
	assert.Equal(t, domain.EntityMerchant, reg.Classify("LOCAL BAKERY").Type)

	// built-ins survive the merge
	assert.Equal(t, domain.EntityLender, reg.Classify("MONEY MART").Type)
	assert.Equal(t, Default().Stats().Merchants+1, reg.Stats().Merchants)
}

func TestLoadExtra_Errors(t *testing.T) {
	_, err := LoadExtra(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("merchants: [unterminated"), 0o600))
	_, err = LoadExtra(path)
	assert.Error(t, err)
}

func TestLenders_SortedAndComplete(t *testing.T) {
	reg := Default()
	names := reg.Lenders()
	stats := reg.Stats()

	assert.Len(t, names, stats.OfficialLenders+stats.SupplementaryLenders)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "MONEY MART")
}

func TestDefault_ConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = Default().Classify("MONEY MART MONTREAL")
			}
		}()
	}
	wg.Wait()
	assert.Same(t, Default(), Default())
}
