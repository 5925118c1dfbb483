package analyzer

import (
	"fmt"

	"github.com/opensource-finance/frictrak/internal/detection"
	"github.com/opensource-finance/frictrak/internal/exclusion"
	"github.com/opensource-finance/frictrak/internal/registry"
	"github.com/opensource-finance/frictrak/internal/rules"
)

// FromConfig builds an analyzer whose registry includes the names listed in
// extraNamesPath. An empty path gives the default registry.
func FromConfig(extraNamesPath string, opts ...Option) (*Analyzer, error) {
	if extraNamesPath == "" {
		return NewDefault(opts...)
	}

	reg, err := registry.LoadExtra(extraNamesPath)
	if err != nil {
		return nil, err
	}

	a := New(nil, opts...)
	scorer, err := rules.NewDefaultScorer(a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer: %w", err)
	}
	a.detector = detection.NewDetector(reg, exclusion.New(reg, exclusion.DefaultConfig()), scorer, a.logger)
	return a, nil
}
