package optimization

import (
	"errors"
	"fmt"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/repositories"
)

// Cost categories a recommendation rule can watch
const (
	CategoryMaterial = "material"
	CategoryLabor    = "labor"
	CategoryOverhead = "overhead"
)

// RecommendationRule fires when its category exceeds ThresholdPercent of
// total cost. ImplementationCost and PaybackMonths are fixed figures.
type RecommendationRule struct {
	Category           string  `yaml:"category"`
	Title              string  `yaml:"title"`
	Description        string  `yaml:"description"`
	ThresholdPercent   float64 `yaml:"thresholdPercent"`
	SavingsRate        float64 `yaml:"savingsRate"` // fraction of the category cost
	ImplementationCost float64 `yaml:"implementationCost"`
	PaybackMonths      int     `yaml:"paybackMonths"`
}

// Policy holds the recommendation rules
type Policy struct {
	Recommendations []RecommendationRule `yaml:"recommendations"`
}

// DefaultPolicy returns the reference rules
func DefaultPolicy() Policy {
	return Policy{
		Recommendations: []RecommendationRule{
			{
				Category:           CategoryMaterial,
				Title:              "Negotiate bulk pricing",
				Description:        "Material dominates total cost; consolidate orders and negotiate volume pricing with key suppliers",
				ThresholdPercent:   60,
				SavingsRate:        0.05,
				ImplementationCost: 5000,
				PaybackMonths:      3,
			},
			{
				Category:           CategoryLabor,
				Title:              "Optimize cycle time",
				Description:        "Labor is a large share of cost; reduce cycle time through fixtures, automation and line balancing",
				ThresholdPercent:   30,
				SavingsRate:        0.10,
				ImplementationCost: 15000,
				PaybackMonths:      6,
			},
			{
				Category:           CategoryOverhead,
				Title:              "Lean manufacturing",
				Description:        "Overhead is high; apply lean practices to remove waste in indirect activities",
				ThresholdPercent:   20,
				SavingsRate:        0.15,
				ImplementationCost: 25000,
				PaybackMonths:      12,
			},
		},
	}
}

// Validate rejects rules that name an unknown category
func (p Policy) Validate() error {
	for _, rule := range p.Recommendations {
		switch rule.Category {
		case CategoryMaterial, CategoryLabor, CategoryOverhead:
		default:
			return fmt.Errorf("recommendation %q: unknown category %q", rule.Title, rule.Category)
		}
	}
	return nil
}

// Advisor looks for volume discounts and threshold-triggered savings
type Advisor struct {
	policy    Policy
	suppliers repositories.SupplierRepository
}

// NewAdvisor creates a cost optimization advisor
func NewAdvisor(policy Policy, suppliers repositories.SupplierRepository) *Advisor {
	return &Advisor{
		policy:    policy,
		suppliers: suppliers,
	}
}

// VolumeDiscounts returns, for each item whose supplier offers discounts,
// the highest discount among tiers the item quantity reaches
func (a *Advisor) VolumeDiscounts(tree *entities.BOMTree) ([]dto.VolumeDiscountOpportunity, error) {
	opportunities := make([]dto.VolumeDiscountOpportunity, 0)
	var walkErr error

	tree.WalkItems(func(_ *entities.AssemblyNode, item *entities.Item) {
		if walkErr != nil {
			return
		}
		supplier, err := a.suppliers.GetSupplier(item.SupplierID)
		if errors.Is(err, repositories.ErrSupplierNotFound) {
			return
		}
		if err != nil {
			walkErr = fmt.Errorf("failed to look up supplier for item %s: %w", item.Name, err)
			return
		}

		tier, ok := supplier.BestDiscountFor(item.Quantity)
		if !ok {
			return
		}
		currentCost := item.ExtendedCost()
		opportunities = append(opportunities, dto.VolumeDiscountOpportunity{
			ItemName:           item.Name,
			SupplierID:         supplier.ID,
			Quantity:           dto.Amount(item.Quantity),
			CurrentCost:        dto.Amount(currentCost),
			MinQuantity:        dto.Amount(tier.MinQuantity),
			DiscountPercentage: dto.Amount(tier.DiscountPercentage),
			Savings:            dto.Amount(currentCost * tier.DiscountPercentage / 100),
		})
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return opportunities, nil
}

// Recommendations evaluates every rule against the cost baseline
func (a *Advisor) Recommendations(costs dto.CostAnalysis) []dto.Recommendation {
	recommendations := make([]dto.Recommendation, 0, len(a.policy.Recommendations))
	total := costs.TotalCost.Float64()
	if total == 0 {
		return recommendations
	}

	for _, rule := range a.policy.Recommendations {
		base := categoryCost(costs, rule.Category)
		share := base * 100 / total
		if share <= rule.ThresholdPercent {
			continue
		}
		recommendations = append(recommendations, dto.Recommendation{
			Category:           rule.Category,
			Title:              rule.Title,
			Description:        rule.Description,
			CostShare:          dto.Amount(share),
			PotentialSavings:   dto.Amount(base * rule.SavingsRate),
			ImplementationCost: dto.Amount(rule.ImplementationCost),
			PaybackMonths:      rule.PaybackMonths,
		})
	}
	return recommendations
}

// Analyze combines discounts and recommendations into one record
func (a *Advisor) Analyze(tree *entities.BOMTree, costs dto.CostAnalysis) (dto.CostOptimization, error) {
	discounts, err := a.VolumeDiscounts(tree)
	if err != nil {
		return dto.CostOptimization{}, err
	}
	recommendations := a.Recommendations(costs)

	savings := 0.0
	for _, d := range discounts {
		savings += d.Savings.Float64()
	}
	for _, r := range recommendations {
		savings += r.PotentialSavings.Float64()
	}

	percentage := 0.0
	if total := costs.TotalCost.Float64(); total != 0 {
		percentage = savings / total * 100
	}

	return dto.CostOptimization{
		VolumeDiscounts:   discounts,
		Recommendations:   recommendations,
		PotentialSavings:  dto.Amount(savings),
		SavingsPercentage: dto.Amount(percentage),
	}, nil
}

func categoryCost(costs dto.CostAnalysis, category string) float64 {
	switch category {
	case CategoryMaterial:
		return costs.MaterialCost.Float64()
	case CategoryLabor:
		return costs.LaborCost.Float64()
	case CategoryOverhead:
		return costs.OverheadCost.Float64()
	default:
		return 0
	}
}
