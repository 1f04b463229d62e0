package risk

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/repositories"
)

// Policy holds the tunable risk and concentration constants
type Policy struct {
	LeadTimeRiskNormalization float64 `yaml:"leadTimeRiskNormalization"` // days
	HighRiskThreshold         float64 `yaml:"highRiskThreshold"`
	MediumRiskThreshold       float64 `yaml:"mediumRiskThreshold"`

	MaterialCostVariation   float64 `yaml:"materialCostVariation"` // percent
	MaterialCostProbability float64 `yaml:"materialCostProbability"`
	LaborCostVariation      float64 `yaml:"laborCostVariation"` // percent
	LaborCostProbability    float64 `yaml:"laborCostProbability"`

	QualityImpactRate      float64 `yaml:"qualityImpactRate"`
	QualityRiskProbability float64 `yaml:"qualityRiskProbability"`

	HighConcentration   float64 `yaml:"highConcentration"`   // percent of spend
	MediumConcentration float64 `yaml:"mediumConcentration"` // percent of spend
}

// DefaultPolicy returns the reference constants
func DefaultPolicy() Policy {
	return Policy{
		LeadTimeRiskNormalization: 30,
		HighRiskThreshold:         0.6,
		MediumRiskThreshold:       0.3,
		MaterialCostVariation:     10,
		MaterialCostProbability:   0.3,
		LaborCostVariation:        5,
		LaborCostProbability:      0.2,
		QualityImpactRate:         0.1,
		QualityRiskProbability:    0.4,
		HighConcentration:         30,
		MediumConcentration:       15,
	}
}

// Analyzer scores supply-chain, cost and quality risk and supplier spend
type Analyzer struct {
	policy    Policy
	suppliers repositories.SupplierRepository
	logger    logrus.FieldLogger
}

// NewAnalyzer creates a risk analyzer
func NewAnalyzer(policy Policy, suppliers repositories.SupplierRepository, logger logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		policy:    policy,
		suppliers: suppliers,
		logger:    logger,
	}
}

// SupplierRisk is the averaged reliability and lead-time risk of a supplier
func (a *Analyzer) SupplierRisk(supplier *entities.Supplier) (reliabilityRisk, leadTimeRisk, overall float64) {
	reliabilityRisk = (100 - supplier.Reliability) / 100
	leadTimeRisk = supplier.LeadTimeVariability / a.policy.LeadTimeRiskNormalization
	return reliabilityRisk, leadTimeRisk, (reliabilityRisk + leadTimeRisk) / 2
}

// lookup resolves an item's supplier; (nil, nil) means no match
func (a *Analyzer) lookup(item *entities.Item) (*entities.Supplier, error) {
	supplier, err := a.suppliers.GetSupplier(item.SupplierID)
	if errors.Is(err, repositories.ErrSupplierNotFound) {
		a.logger.WithFields(logrus.Fields{
			"item":        item.Name,
			"supplier_id": item.SupplierID,
		}).Debug("supplier not found, item not risk scored")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up supplier for item %s: %w", item.Name, err)
	}
	return supplier, nil
}

// Analyze scores every item against its supplier. Every scored item feeds
// the overall score; only critical or high-risk items are listed.
func (a *Analyzer) Analyze(tree *entities.BOMTree, costs dto.CostAnalysis) (dto.RiskAnalysis, error) {
	analysis := dto.RiskAnalysis{
		SupplyChainRisks: make([]dto.SupplyChainRisk, 0),
		CostRisks:        make([]dto.CostRisk, 0, 2),
		QualityRisks:     make([]dto.QualityRisk, 0),
	}

	expectedLoss := 0.0
	var walkErr error

	tree.WalkItems(func(node *entities.AssemblyNode, item *entities.Item) {
		if walkErr != nil {
			return
		}

		if item.QualityGrade.NeedsQualityReview() {
			impact := item.ExtendedCost() * a.policy.QualityImpactRate
			expectedLoss += impact * a.policy.QualityRiskProbability
			analysis.QualityRisks = append(analysis.QualityRisks, dto.QualityRisk{
				ItemName:     item.Name,
				AssemblyName: node.Assembly.Name,
				Grade:        item.QualityGrade,
				Description:  fmt.Sprintf("%s is quality grade %s", item.Name, item.QualityGrade),
				Impact:       dto.Amount(impact),
				Probability:  dto.Amount(a.policy.QualityRiskProbability),
				Mitigation:   "Add incoming inspection and work with the supplier on a corrective action plan",
			})
		}

		supplier, err := a.lookup(item)
		if err != nil {
			walkErr = err
			return
		}
		if supplier == nil {
			analysis.UnscoredItems++
			return
		}

		reliabilityRisk, leadTimeRisk, probability := a.SupplierRisk(supplier)
		impact := item.ExtendedCost()
		expectedLoss += impact * probability

		level := entities.ClassifyRisk(probability, a.policy.HighRiskThreshold, a.policy.MediumRiskThreshold)
		if !item.Critical && level != entities.RiskHigh {
			return
		}

		analysis.SupplyChainRisks = append(analysis.SupplyChainRisks, dto.SupplyChainRisk{
			ItemName:     item.Name,
			AssemblyName: node.Assembly.Name,
			SupplierID:   supplier.ID,
			Level:        level,
			Critical:     item.Critical,
			Description: fmt.Sprintf("%s risk for %s from %s: %.0f%% reliability, %.1f days lead time variability",
				level, item.Name, supplierLabel(supplier), supplier.Reliability, supplier.LeadTimeVariability),
			ReliabilityRisk: dto.Amount(reliabilityRisk),
			LeadTimeRisk:    dto.Amount(leadTimeRisk),
			Impact:          dto.Amount(impact),
			Probability:     dto.Amount(probability),
			Mitigation:      mitigation(item),
		})
	})
	if walkErr != nil {
		return dto.RiskAnalysis{}, walkErr
	}

	analysis.CostRisks = append(analysis.CostRisks,
		a.costRisk("materials", "Raw material price volatility", costs.MaterialCost.Float64(),
			a.policy.MaterialCostVariation, a.policy.MaterialCostProbability),
		a.costRisk("labor", "Labor rate increases", costs.LaborCost.Float64(),
			a.policy.LaborCostVariation, a.policy.LaborCostProbability),
	)
	for _, risk := range analysis.CostRisks {
		expectedLoss += risk.CostIncrease.Float64() * risk.Probability.Float64()
	}

	analysis.ExpectedLoss = dto.Amount(expectedLoss)
	totalCost := costs.TotalCost.Float64()
	if totalCost == 0 {
		analysis.ScoreUndefined = true
		analysis.OverallRiskLevel = entities.RiskLow
		return analysis, nil
	}

	score := math.Min(math.Max(100*expectedLoss/totalCost, 0), 100)
	analysis.OverallRiskScore = dto.Amount(score)
	analysis.OverallRiskLevel = entities.ClassifyRisk(score/100, a.policy.HighRiskThreshold, a.policy.MediumRiskThreshold)
	return analysis, nil
}

func (a *Analyzer) costRisk(category, description string, base, variation, probability float64) dto.CostRisk {
	return dto.CostRisk{
		Category:     category,
		Description:  fmt.Sprintf("%s (±%.0f%%)", description, variation),
		Variation:    dto.Amount(variation),
		CostIncrease: dto.Amount(base * variation / 100),
		Probability:  dto.Amount(probability),
	}
}

func supplierLabel(supplier *entities.Supplier) string {
	if supplier.Name == "" {
		return supplier.ID
	}
	return supplier.Name
}

func mitigation(item *entities.Item) string {
	if len(item.AlternativeSuppliers) > 0 {
		return "Qualify alternative suppliers: " + strings.Join(item.AlternativeSuppliers, ", ")
	}
	return "Identify a second source and increase safety stock"
}
