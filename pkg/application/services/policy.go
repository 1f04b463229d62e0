package services

import (
	"fmt"

	"github.com/vsinha/bomcost/pkg/application/services/inventory"
	"github.com/vsinha/bomcost/pkg/application/services/montecarlo"
	"github.com/vsinha/bomcost/pkg/application/services/optimization"
	"github.com/vsinha/bomcost/pkg/application/services/risk"
)

// Policy gathers every tunable constant of the engine. The defaults
// reproduce the reference figures; a policy file may override any field.
type Policy struct {
	Inventory    inventory.Policy    `yaml:"inventory"`
	Risk         risk.Policy         `yaml:"risk"`
	Optimization optimization.Policy `yaml:"optimization"`
	MonteCarlo   montecarlo.Config   `yaml:"monteCarlo"`

	DefaultInflationRate float64 `yaml:"defaultInflationRate"` // percent per year
	TrendYears           int     `yaml:"trendYears"`
	LowYieldThreshold    float64 `yaml:"lowYieldThreshold"` // percent
}

// DefaultPolicy returns the reference policy
func DefaultPolicy() Policy {
	return Policy{
		Inventory:            inventory.DefaultPolicy(),
		Risk:                 risk.DefaultPolicy(),
		Optimization:         optimization.DefaultPolicy(),
		MonteCarlo:           montecarlo.DefaultConfig(),
		DefaultInflationRate: 3,
		TrendYears:           5,
		LowYieldThreshold:    95,
	}
}

// Validate rejects policies that would make the formulas meaningless
func (p Policy) Validate() error {
	inv := p.Inventory
	if inv.FixedOrderingCost <= 0 {
		return fmt.Errorf("fixed ordering cost must be positive, got %v", inv.FixedOrderingCost)
	}
	if inv.CarryingCostRate <= 0 {
		return fmt.Errorf("carrying cost rate must be positive, got %v", inv.CarryingCostRate)
	}
	if inv.DefaultLeadTimeVariability < 0 {
		return fmt.Errorf("default lead time variability cannot be negative, got %v", inv.DefaultLeadTimeVariability)
	}
	if inv.DaysPerYear <= 0 {
		return fmt.Errorf("days per year must be positive, got %v", inv.DaysPerYear)
	}
	if inv.TurnoverNormalization <= 0 {
		return fmt.Errorf("turnover normalization must be positive, got %v", inv.TurnoverNormalization)
	}

	r := p.Risk
	if r.LeadTimeRiskNormalization <= 0 {
		return fmt.Errorf("lead time risk normalization must be positive, got %v", r.LeadTimeRiskNormalization)
	}
	if r.MediumRiskThreshold > r.HighRiskThreshold {
		return fmt.Errorf("medium risk threshold %v exceeds high risk threshold %v", r.MediumRiskThreshold, r.HighRiskThreshold)
	}
	if r.MediumConcentration > r.HighConcentration {
		return fmt.Errorf("medium concentration %v exceeds high concentration %v", r.MediumConcentration, r.HighConcentration)
	}

	if err := p.Optimization.Validate(); err != nil {
		return err
	}

	mc := p.MonteCarlo
	if mc.MinSamples < 1 || mc.MinSamples > mc.MaxSamples {
		return fmt.Errorf("monte carlo sample bounds are invalid: %d..%d", mc.MinSamples, mc.MaxSamples)
	}
	if mc.DefaultSamples < mc.MinSamples || mc.DefaultSamples > mc.MaxSamples {
		return fmt.Errorf("monte carlo default samples %d not in %d..%d", mc.DefaultSamples, mc.MinSamples, mc.MaxSamples)
	}
	if mc.Workers < 1 {
		return fmt.Errorf("monte carlo workers must be at least 1, got %d", mc.Workers)
	}
	ranges := []struct {
		name string
		rng  montecarlo.Range
	}{{"material", mc.Material}, {"labor", mc.Labor}, {"overhead", mc.Overhead}}
	for _, check := range ranges {
		if check.rng.Min > check.rng.Max {
			return fmt.Errorf("monte carlo %s range is inverted: [%v, %v]", check.name, check.rng.Min, check.rng.Max)
		}
	}

	if p.TrendYears < 0 {
		return fmt.Errorf("trend years cannot be negative, got %d", p.TrendYears)
	}
	return nil
}
