// Package registry holds the curated entity lists and classifies transaction
// descriptions against them.
package registry

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/textnorm"
)

// Lists is the raw reference data of a registry.
type Lists struct {
	OfficialLenders      []string `yaml:"official_lenders"`
	SupplementaryLenders []string `yaml:"supplementary_lenders"`
	Insurers             []string `yaml:"insurers"`
	Trustees             []string `yaml:"trustees"`
	Casinos              []string `yaml:"casinos"`
	Merchants            []string `yaml:"merchants"`
}

// DefaultLists returns a copy of the built-in reference data.
func DefaultLists() Lists {
	return Lists{
		OfficialLenders:      append([]string(nil), officialLenders...),
		SupplementaryLenders: append([]string(nil), supplementaryLenders...),
		Insurers:             append([]string(nil), insurers...),
		Trustees:             append([]string(nil), trustees...),
		Casinos:              append([]string(nil), casinos...),
		Merchants:            append([]string(nil), merchants...),
	}
}

// Merge appends extra names to each list.
func (l Lists) Merge(extra Lists) Lists {
	return Lists{
		OfficialLenders:      append(append([]string(nil), l.OfficialLenders...), extra.OfficialLenders...),
		SupplementaryLenders: append(append([]string(nil), l.SupplementaryLenders...), extra.SupplementaryLenders...),
		Insurers:             append(append([]string(nil), l.Insurers...), extra.Insurers...),
		Trustees:             append(append([]string(nil), l.Trustees...), extra.Trustees...),
		Casinos:              append(append([]string(nil), l.Casinos...), extra.Casinos...),
		Merchants:            append(append([]string(nil), l.Merchants...), extra.Merchants...),
	}
}

type category struct {
	typ   domain.EntityType
	terms *textnorm.TermSet
}

// Registry classifies descriptions against the curated lists.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	official      *textnorm.TermSet
	supplementary *textnorm.TermSet
	excluded      []category // insurer, trustee, casino, merchant in priority order
}

// New builds a registry from explicit lists.
func New(l Lists) *Registry {
	return &Registry{
		official:      textnorm.NewTermSet(l.OfficialLenders...),
		supplementary: textnorm.NewTermSet(l.SupplementaryLenders...),
		excluded: []category{
			{domain.EntityInsurer, textnorm.NewTermSet(l.Insurers...)},
			{domain.EntityTrustee, textnorm.NewTermSet(l.Trustees...)},
			{domain.EntityCasino, textnorm.NewTermSet(l.Casinos...)},
			{domain.EntityMerchant, textnorm.NewTermSet(l.Merchants...)},
		},
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from the built-in lists.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(DefaultLists())
	})
	return defaultRegistry
}

// LoadExtra reads a YAML file of additional names and returns a registry
// holding the built-in lists plus those names.
func LoadExtra(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extra names: %w", err)
	}
	var extra Lists
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse extra names %s: %w", path, err)
	}
	return New(DefaultLists().Merge(extra)), nil
}

// Classify matches a raw description in priority order
// lender, insurer, trustee, casino, merchant. First match wins.
func (r *Registry) Classify(description string) domain.Classification {
	return r.ClassifyNormalized(textnorm.Normalize(description))
}

// ClassifyNormalized is Classify for an already normalized description.
func (r *Registry) ClassifyNormalized(text string) domain.Classification {
	if name, ok := r.official.Match(text); ok {
		return domain.Classification{Type: domain.EntityLender, Name: name, Official: true}
	}
	if name, ok := r.supplementary.Match(text); ok {
		return domain.Classification{Type: domain.EntityLender, Name: name}
	}
	for _, c := range r.excluded {
		if name, ok := c.terms.Match(text); ok {
			return domain.Classification{Type: c.typ, Name: name, Exclude: true}
		}
	}
	return domain.Classification{Type: domain.EntityUnknown}
}

// IsLender reports whether the description names a known lender.
func (r *Registry) IsLender(description string) (string, bool) {
	c := r.Classify(description)
	return c.Name, c.IsLender()
}

// Lenders returns every lender name, sorted.
func (r *Registry) Lenders() []string {
	names := append(r.official.Terms(), r.supplementary.Terms()...)
	sort.Strings(names)
	return names
}

// Stats counts distinct terms per list.
type Stats struct {
	OfficialLenders      int `json:"officialLenders"`
	SupplementaryLenders int `json:"supplementaryLenders"`
	Insurers             int `json:"insurers"`
	Trustees             int `json:"trustees"`
	Casinos              int `json:"casinos"`
	Merchants            int `json:"merchants"`
}

// Stats returns the list sizes.
func (r *Registry) Stats() Stats {
	return Stats{
		OfficialLenders:      r.official.Len(),
		SupplementaryLenders: r.supplementary.Len(),
		Insurers:             r.excluded[0].terms.Len(),
		Trustees:             r.excluded[1].terms.Len(),
		Casinos:              r.excluded[2].terms.Len(),
		Merchants:            r.excluded[3].terms.Len(),
	}
}
