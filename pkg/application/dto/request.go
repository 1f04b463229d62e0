package dto

import "github.com/vsinha/bomcost/pkg/domain/entities"

// LaborRates are hourly rates per labor category
type LaborRates struct {
	Assembly  float64 `json:"assembly" yaml:"assembly"`
	Testing   float64 `json:"testing" yaml:"testing"`
	Packaging float64 `json:"packaging" yaml:"packaging"`
	Quality   float64 `json:"quality" yaml:"quality"`
}

// OverheadRates are percentages applied to labor cost
type OverheadRates struct {
	Manufacturing  float64 `json:"manufacturing" yaml:"manufacturing"`
	Quality        float64 `json:"quality" yaml:"quality"`
	Logistics      float64 `json:"logistics" yaml:"logistics"`
	Administration float64 `json:"administration" yaml:"administration"`
}

// QualityCosts are per-unit quality line items
type QualityCosts struct {
	Inspection    float64 `json:"inspection" yaml:"inspection"`
	Testing       float64 `json:"testing" yaml:"testing"`
	Certification float64 `json:"certification" yaml:"certification"`
	Warranty      float64 `json:"warranty" yaml:"warranty"`
}

// PerUnit sums the quality line items
func (q QualityCosts) PerUnit() float64 {
	return q.Inspection + q.Testing + q.Certification + q.Warranty
}

// LogisticsCosts are per-unit logistics line items
type LogisticsCosts struct {
	Inbound     float64 `json:"inbound" yaml:"inbound"`
	Outbound    float64 `json:"outbound" yaml:"outbound"`
	Warehousing float64 `json:"warehousing" yaml:"warehousing"`
	Handling    float64 `json:"handling" yaml:"handling"`
}

// PerUnit sums the logistics line items
func (l LogisticsCosts) PerUnit() float64 {
	return l.Inbound + l.Outbound + l.Warehousing + l.Handling
}

// BOMRequest is the complete input of one calculation
type BOMRequest struct {
	ProductName string `json:"productName,omitempty" yaml:"productName,omitempty"`
	// Currency is a display label only; no conversion is performed
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty"`

	Assemblies []*entities.Assembly `json:"assemblies" yaml:"assemblies"`
	Suppliers  []entities.Supplier  `json:"suppliers" yaml:"suppliers"`

	TargetQuantity   float64 `json:"targetQuantity" yaml:"targetQuantity"`
	ProductionVolume float64 `json:"productionVolume" yaml:"productionVolume"`
	ProductionPeriod float64 `json:"productionPeriod" yaml:"productionPeriod"` // months

	LaborRates     LaborRates     `json:"laborRates" yaml:"laborRates"`
	OverheadRates  OverheadRates  `json:"overheadRates" yaml:"overheadRates"`
	QualityCosts   QualityCosts   `json:"qualityCosts" yaml:"qualityCosts"`
	LogisticsCosts LogisticsCosts `json:"logisticsCosts" yaml:"logisticsCosts"`

	TargetMargin  float64  `json:"targetMargin" yaml:"targetMargin"`
	InflationRate *float64 `json:"inflationRate,omitempty" yaml:"inflationRate,omitempty"`

	IncludeInventoryAnalysis bool `json:"includeInventoryAnalysis" yaml:"includeInventoryAnalysis"`
	IncludeRiskAnalysis      bool `json:"includeRiskAnalysis" yaml:"includeRiskAnalysis"`
	IncludeSupplierAnalysis  bool `json:"includeSupplierAnalysis" yaml:"includeSupplierAnalysis"`
	IncludeCostOptimization  bool `json:"includeCostOptimization" yaml:"includeCostOptimization"`

	// MonteCarloSamples of 0 selects the configured default
	MonteCarloSamples int    `json:"monteCarloSamples,omitempty" yaml:"monteCarloSamples,omitempty"`
	MonteCarloSeed    *int64 `json:"monteCarloSeed,omitempty" yaml:"monteCarloSeed,omitempty"`
}
