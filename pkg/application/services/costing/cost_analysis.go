package costing

import (
	"math"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
)

// Totals are the raw float components of a CostAnalysis before conversion
type Totals struct {
	Material       float64
	Labor          float64
	Overhead       float64
	Tooling        float64
	Equipment      float64
	Quality        float64
	Logistics      float64
	Administration float64

	PurchasedMaterial float64
	SubAssembly       float64
}

// Direct is material, labor, tooling and equipment
func (t Totals) Direct() float64 {
	return t.Material + t.Labor + t.Tooling + t.Equipment
}

// Indirect is overhead, quality, logistics and administration
func (t Totals) Indirect() float64 {
	return t.Overhead + t.Quality + t.Logistics + t.Administration
}

// Total is direct plus indirect cost
func (t Totals) Total() float64 {
	return t.Direct() + t.Indirect()
}

// SumTotals adds the root rollups and the request-level quality, logistics
// and administration charges
func SumTotals(tree *entities.BOMTree, rollups []AssemblyRollup, req *dto.BOMRequest) Totals {
	var t Totals
	for _, root := range tree.Roots() {
		r := rollups[root]
		t.Material += r.MaterialCost
		t.Labor += r.LaborCost
		t.Overhead += r.OverheadCost
		t.Tooling += r.ToolingCost
		t.Equipment += r.EquipmentCost
		t.SubAssembly += r.SubAssemblyCost
	}
	for i := range rollups {
		t.PurchasedMaterial += rollups[i].OwnMaterialCost
	}

	t.Quality = req.QualityCosts.PerUnit() * req.TargetQuantity
	t.Logistics = req.LogisticsCosts.PerUnit() * req.TargetQuantity
	t.Administration = t.Labor * req.OverheadRates.Administration / 100
	return t
}

// CalculateCostAnalysis runs the rollup over the whole forest and derives
// the per-unit and margin figures. A zero target quantity yields a zero
// cost per unit with CostPerUnitUndefined set.
func CalculateCostAnalysis(tree *entities.BOMTree, req *dto.BOMRequest) (dto.CostAnalysis, []AssemblyRollup) {
	rollups := RollupTree(tree, req.TargetQuantity, req.LaborRates, req.OverheadRates)
	totals := SumTotals(tree, rollups, req)
	return BuildCostAnalysis(totals, req.TargetQuantity, req.TargetMargin), rollups
}

// BuildCostAnalysis converts totals into the result record
func BuildCostAnalysis(t Totals, targetQuantity, targetMargin float64) dto.CostAnalysis {
	total := t.Total()

	costPerUnit, undefined := perUnit(total, targetQuantity)
	targetPrice := costPerUnit * (1 + targetMargin/100)
	profitPerUnit := targetPrice - costPerUnit

	return dto.CostAnalysis{
		MaterialCost:          dto.Amount(t.Material),
		LaborCost:             dto.Amount(t.Labor),
		OverheadCost:          dto.Amount(t.Overhead),
		ToolingCost:           dto.Amount(t.Tooling),
		EquipmentCost:         dto.Amount(t.Equipment),
		QualityCost:           dto.Amount(t.Quality),
		LogisticsCost:         dto.Amount(t.Logistics),
		AdministrationCost:    dto.Amount(t.Administration),
		PurchasedMaterialCost: dto.Amount(t.PurchasedMaterial),
		SubAssemblyCost:       dto.Amount(t.SubAssembly),
		TotalDirectCost:       dto.Amount(t.Direct()),
		TotalIndirectCost:     dto.Amount(t.Indirect()),
		TotalCost:             dto.Amount(total),
		CostPerUnit:           dto.Amount(costPerUnit),
		CostPerUnitUndefined:  undefined,
		TargetMargin:          dto.Amount(targetMargin),
		TargetPrice:           dto.Amount(targetPrice),
		ProfitPerUnit:         dto.Amount(profitPerUnit),
		TotalRevenue:          dto.Amount(targetPrice * targetQuantity),
		TotalProfit:           dto.Amount(profitPerUnit * targetQuantity),
	}
}

func perUnit(total, quantity float64) (float64, bool) {
	if quantity == 0 {
		return 0, true
	}
	return total / quantity, false
}

// AssemblyBreakdown lists every assembly in BOM order with its rolled-up cost
func AssemblyBreakdown(tree *entities.BOMTree, rollups []AssemblyRollup, totalCost float64) []dto.AssemblyCost {
	breakdown := make([]dto.AssemblyCost, 0, tree.Len())
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		r := rollups[i]

		share := 0.0
		if totalCost != 0 {
			share = r.TotalCost / totalCost * 100
		}

		breakdown = append(breakdown, dto.AssemblyCost{
			Name:                  node.Assembly.Name,
			ParentName:            tree.ParentName(i),
			Level:                 node.Assembly.Level,
			Depth:                 node.Depth,
			ItemCount:             len(node.Assembly.Items),
			SubAssemblyCount:      len(node.Children),
			PurchasedMaterialCost: dto.Amount(r.OwnMaterialCost),
			MaterialCost:          dto.Amount(r.MaterialCost),
			LaborCost:             dto.Amount(r.LaborCost),
			OverheadCost:          dto.Amount(r.OverheadCost),
			ToolingCost:           dto.Amount(r.ToolingCost),
			EquipmentCost:         dto.Amount(r.EquipmentCost),
			TotalCost:             dto.Amount(r.TotalCost),
			PercentageOfTotal:     dto.Amount(share),
			YieldPercent:          dto.Amount(node.Assembly.YieldPercent),
			ScrapRate:             dto.Amount(node.Assembly.ScrapRate),
		})
	}
	return breakdown
}

// ProjectTrends compounds the total cost by inflationRate percent per year
func ProjectTrends(totalCost, targetQuantity, inflationRate float64, years int) dto.CostTrends {
	trends := dto.CostTrends{
		InflationRate: dto.Amount(inflationRate),
		Projections:   make([]dto.CostProjection, 0, years),
	}
	for year := 1; year <= years; year++ {
		projected := totalCost * math.Pow(1+inflationRate/100, float64(year))
		costPerUnit, _ := perUnit(projected, targetQuantity)
		trends.Projections = append(trends.Projections, dto.CostProjection{
			Year:        year,
			TotalCost:   dto.Amount(projected),
			CostPerUnit: dto.Amount(costPerUnit),
		})
	}
	return trends
}
