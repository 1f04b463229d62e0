package services

import (
	"fmt"
	"strings"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
)

func buildProductSummary(req *dto.BOMRequest, tree *entities.BOMTree) dto.ProductSummary {
	summary := dto.ProductSummary{
		ProductName:        req.ProductName,
		Currency:           req.Currency,
		TargetQuantity:     dto.Amount(req.TargetQuantity),
		ProductionVolume:   dto.Amount(req.ProductionVolume),
		ProductionPeriod:   dto.Amount(req.ProductionPeriod),
		AssemblyCount:      tree.Len(),
		ItemCount:          tree.ItemCount(),
		SupplierCount:      len(req.Suppliers),
		MissingSupplierIDs: make([]string, 0),
		MaxDepth:           tree.MaxDepth(),
	}

	known := make(map[entities.SupplierID]bool, len(req.Suppliers))
	for _, supplier := range req.Suppliers {
		known[supplier.ID] = true
	}
	reported := make(map[entities.SupplierID]bool)

	tree.WalkItems(func(_ *entities.AssemblyNode, item *entities.Item) {
		if item.Critical {
			summary.CriticalItemCount++
		}
		if item.SupplierID != "" && !known[item.SupplierID] && !reported[item.SupplierID] {
			reported[item.SupplierID] = true
			summary.MissingSupplierIDs = append(summary.MissingSupplierIDs, item.SupplierID)
		}
		// First item wins ties
		if summary.BottleneckItem == "" || item.LeadTimeDays > summary.LongestLeadTimeDays {
			summary.LongestLeadTimeDays = item.LeadTimeDays
			summary.BottleneckItem = item.Name
		}
	})

	return summary
}

type costDriver struct {
	name  string
	value float64
}

// LargestCostDriver returns the cost category with the highest value, or
// "none" when every category is zero
func LargestCostDriver(costs dto.CostAnalysis) (string, float64) {
	drivers := []costDriver{
		{"material", costs.MaterialCost.Float64()},
		{"labor", costs.LaborCost.Float64()},
		{"overhead", costs.OverheadCost.Float64()},
		{"tooling", costs.ToolingCost.Float64()},
		{"equipment", costs.EquipmentCost.Float64()},
		{"quality", costs.QualityCost.Float64()},
		{"logistics", costs.LogisticsCost.Float64()},
		{"administration", costs.AdministrationCost.Float64()},
	}
	best := costDriver{name: "none"}
	for _, d := range drivers {
		if d.value > best.value {
			best = d
		}
	}
	return best.name, best.value
}

func (s *BOMService) buildSummary(result *dto.BOMResult) dto.Summary {
	costs := result.CostAnalysis
	total := costs.TotalCost.Float64()
	driver, driverCost := LargestCostDriver(costs)

	summary := dto.Summary{
		TotalCost:         costs.TotalCost,
		CostPerUnit:       costs.CostPerUnit,
		TargetPrice:       costs.TargetPrice,
		TotalProfit:       costs.TotalProfit,
		LargestCostDriver: driver,
		KeyFindings:       make([]string, 0),
	}
	add := func(format string, args ...interface{}) {
		summary.KeyFindings = append(summary.KeyFindings, fmt.Sprintf(format, args...))
	}

	if total > 0 && driver != "none" {
		add("Largest cost driver is %s at %s%% of total cost", driver, dto.Amount(driverCost*100/total).StringFixed(1))
	}
	if costs.CostPerUnitUndefined {
		add("Target quantity is zero; cost per unit is undefined")
	}

	if analysis, ok := result.RiskAnalysis.Get(); ok {
		if !analysis.ScoreUndefined {
			add("Overall risk score is %s (%s)", analysis.OverallRiskScore.StringFixed(1), analysis.OverallRiskLevel)
		}
		if n := len(analysis.SupplyChainRisks); n > 0 {
			add("%d supply chain risk(s) on critical or high-risk items", n)
		}
		if n := len(analysis.QualityRisks); n > 0 {
			add("%d item(s) with quality grade C or D", n)
		}
	}

	if analysis, ok := result.SupplierAnalysis.Get(); ok && analysis.CriticalSuppliers > 0 {
		add("%d supplier(s) hold more than %s%% of spend", analysis.CriticalSuppliers,
			dto.Amount(s.policy.Risk.HighConcentration).StringFixed(0))
	}

	if analysis, ok := result.CostOptimization.Get(); ok && analysis.PotentialSavings > 0 {
		add("Potential savings of %s (%s%% of total cost)",
			analysis.PotentialSavings.StringFixed(2), analysis.SavingsPercentage.StringFixed(1))
	}

	for _, assembly := range result.AssemblyBreakdown {
		yield := assembly.YieldPercent.Float64()
		if yield > 0 && yield < s.policy.LowYieldThreshold {
			add("Assembly %s yield %s%% is below %s%%", assembly.Name,
				assembly.YieldPercent.StringFixed(1), dto.Amount(s.policy.LowYieldThreshold).StringFixed(0))
		}
	}

	if missing := result.ProductSummary.MissingSupplierIDs; len(missing) > 0 {
		add("Items reference unknown suppliers: %s", strings.Join(missing, ", "))
	}

	return summary
}
