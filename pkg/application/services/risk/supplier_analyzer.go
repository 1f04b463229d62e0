package risk

import (
	"sort"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
)

type supplierTotals struct {
	supplier *entities.Supplier
	spend    float64
	items    int
}

// AnalyzeSuppliers aggregates spend per supplier for a production run of
// targetQuantity units. Items with no matching supplier count as unassigned
// spend and are left out of the percentages.
func (a *Analyzer) AnalyzeSuppliers(tree *entities.BOMTree, targetQuantity float64) (dto.SupplierAnalysis, error) {
	suppliers, err := a.suppliers.GetAllSuppliers()
	if err != nil {
		return dto.SupplierAnalysis{}, err
	}

	position := make(map[entities.SupplierID]int, len(suppliers))
	totals := make([]supplierTotals, len(suppliers))
	for i, supplier := range suppliers {
		position[supplier.ID] = i
		totals[i].supplier = supplier
	}

	totalSpend, unassigned := 0.0, 0.0
	tree.WalkItems(func(_ *entities.AssemblyNode, item *entities.Item) {
		spend := item.ExtendedCost() * targetQuantity
		i, ok := position[item.SupplierID]
		if !ok {
			unassigned += spend
			return
		}
		totals[i].spend += spend
		totals[i].items++
		totalSpend += spend
	})

	analysis := dto.SupplierAnalysis{
		TotalSpend:      dto.Amount(totalSpend),
		UnassignedSpend: dto.Amount(unassigned),
		Concentration:   make([]dto.SupplierSpend, 0, len(totals)),
		Performance:     make([]dto.SupplierPerformance, 0, len(totals)),
	}

	hhi := 0.0
	for _, t := range totals {
		if t.items == 0 {
			continue
		}

		share := 0.0
		if totalSpend != 0 {
			share = t.spend * 100 / totalSpend
		}
		hhi += share * share

		level := entities.ClassifyRisk(share, a.policy.HighConcentration, a.policy.MediumConcentration)
		if level == entities.RiskHigh {
			analysis.CriticalSuppliers++
		}

		analysis.Concentration = append(analysis.Concentration, dto.SupplierSpend{
			SupplierID:        t.supplier.ID,
			SupplierName:      t.supplier.Name,
			ItemCount:         t.items,
			Spend:             dto.Amount(t.spend),
			SpendPercentage:   dto.Amount(share),
			ConcentrationRisk: level,
		})
		analysis.Performance = append(analysis.Performance, dto.SupplierPerformance{
			SupplierID:          t.supplier.ID,
			SupplierName:        t.supplier.Name,
			Reliability:         dto.Amount(t.supplier.Reliability),
			QualityRating:       dto.Amount(t.supplier.QualityRating),
			LeadTimeVariability: dto.Amount(t.supplier.LeadTimeVariability),
			SpendPercentage:     dto.Amount(share),
			PerformanceScore:    dto.Amount(PerformanceScore(t.supplier, share)),
		})
	}
	analysis.SupplierCount = len(analysis.Concentration)
	analysis.ConcentrationIndex = dto.Amount(hhi)

	// Stable sorts keep supplier-table order among ties
	sort.SliceStable(analysis.Concentration, func(i, j int) bool {
		return analysis.Concentration[i].SpendPercentage > analysis.Concentration[j].SpendPercentage
	})
	sort.SliceStable(analysis.Performance, func(i, j int) bool {
		return analysis.Performance[i].PerformanceScore > analysis.Performance[j].PerformanceScore
	})

	return analysis, nil
}

// PerformanceScore averages reliability, quality rating, spend dependence
// and lead-time stability, each on a 0-100 scale
func PerformanceScore(supplier *entities.Supplier, spendPercentage float64) float64 {
	return (supplier.Reliability +
		supplier.QualityRating +
		(100 - spendPercentage*2) +
		(100 - supplier.LeadTimeVariability*2)) / 4
}
