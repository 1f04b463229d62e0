package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
)

const tolerance = 1e-6

func mustTree(t *testing.T, roots ...*entities.Assembly) *entities.BOMTree {
	t.Helper()
	tree, err := entities.NewBOMTree(roots)
	require.NoError(t, err)
	return tree
}

// nestedBOM is a root with one priced item and one child assembly carrying
// labor, tooling and equipment
func nestedBOM() *entities.Assembly {
	child := &entities.Assembly{
		Name:          "CHILD",
		Level:         1,
		SetupTime:     1,
		CycleTime:     6,
		ToolingCost:   100,
		EquipmentCost: 50,
		YieldPercent:  98,
		Items: []entities.Item{
			{Name: "SCREW", Quantity: 1, UnitCost: 4, SupplierID: "S2", QualityGrade: entities.GradeB},
		},
	}
	return &entities.Assembly{
		Name:         "ROOT",
		YieldPercent: 100,
		Items: []entities.Item{
			{Name: "PANEL", Quantity: 2, UnitCost: 10, SafetyStock: 5, SupplierID: "S1", QualityGrade: entities.GradeA},
		},
		SubAssemblies: []*entities.Assembly{child},
	}
}

func nestedRequest(root *entities.Assembly) *dto.BOMRequest {
	return &dto.BOMRequest{
		Assemblies:     []*entities.Assembly{root},
		TargetQuantity: 10,
		LaborRates:     dto.LaborRates{Assembly: 20},
		OverheadRates:  dto.OverheadRates{Manufacturing: 50, Administration: 10},
		QualityCosts:   dto.QualityCosts{Inspection: 1},
		LogisticsCosts: dto.LogisticsCosts{Outbound: 0.5},
		TargetMargin:   20,
	}
}

func TestRollupAssemblyCost_Microprocessor(t *testing.T) {
	assembly := &entities.Assembly{
		Name:         "Main Assembly",
		SetupTime:    2,
		CycleTime:    5,
		YieldPercent: 100,
		Items: []entities.Item{
			{Name: "Microprocessor", Quantity: 1, UnitCost: 50, SupplierID: "SUPP-001", LeadTimeDays: 30, QualityGrade: entities.GradeA},
		},
	}

	rollup, err := RollupAssemblyCost(assembly, 10000, dto.LaborRates{Assembly: 25}, dto.OverheadRates{Manufacturing: 15})
	require.NoError(t, err)

	assert.InDelta(t, 500000.0, rollup.MaterialCost, tolerance)
	expectedLabor := 2*25.0 + (5.0/60)*10000*25
	assert.InDelta(t, expectedLabor, rollup.LaborCost, tolerance)
	assert.InDelta(t, expectedLabor*0.15, rollup.OverheadCost, tolerance)
	assert.Greater(t, rollup.TotalCost, rollup.MaterialCost)

	analysis, _ := CalculateCostAnalysis(mustTree(t, assembly), &dto.BOMRequest{
		Assemblies:     []*entities.Assembly{assembly},
		TargetQuantity: 10000,
		LaborRates:     dto.LaborRates{Assembly: 25},
		OverheadRates:  dto.OverheadRates{Manufacturing: 15},
	})
	assert.Greater(t, analysis.CostPerUnit.Float64(), 0.0)
	assert.False(t, analysis.CostPerUnitUndefined)
}

func TestRollupAssemblyCost_RejectsCycle(t *testing.T) {
	loop := &entities.Assembly{Name: "LOOP"}
	loop.SubAssemblies = []*entities.Assembly{loop}

	_, err := RollupAssemblyCost(loop, 1, dto.LaborRates{}, dto.OverheadRates{})
	assert.ErrorIs(t, err, entities.ErrCyclicAssembly)
}

func TestRollupTree_FoldsChildrenIntoMaterial(t *testing.T) {
	root := nestedBOM()
	req := nestedRequest(root)
	tree := mustTree(t, root)

	rollups := RollupTree(tree, req.TargetQuantity, req.LaborRates, req.OverheadRates)
	require.Len(t, rollups, 2)

	child := rollups[1]
	assert.InDelta(t, 40.0, child.OwnMaterialCost, tolerance)
	assert.InDelta(t, 40.0, child.LaborCost, tolerance)
	assert.InDelta(t, 20.0, child.OverheadCost, tolerance)
	assert.InDelta(t, 250.0, child.TotalCost, tolerance)

	parent := rollups[0]
	assert.InDelta(t, 250.0, parent.OwnMaterialCost, tolerance)
	assert.InDelta(t, 250.0, parent.SubAssemblyCost, tolerance)
	assert.InDelta(t, 500.0, parent.MaterialCost, tolerance)
	assert.InDelta(t, 500.0, parent.TotalCost, tolerance)
}

func TestCalculateCostAnalysis(t *testing.T) {
	root := nestedBOM()
	req := nestedRequest(root)

	analysis, rollups := CalculateCostAnalysis(mustTree(t, root), req)
	require.Len(t, rollups, 2)

	assert.InDelta(t, 500.0, analysis.MaterialCost.Float64(), tolerance)
	assert.InDelta(t, 0.0, analysis.LaborCost.Float64(), tolerance)
	assert.InDelta(t, 10.0, analysis.QualityCost.Float64(), tolerance)
	assert.InDelta(t, 5.0, analysis.LogisticsCost.Float64(), tolerance)
	assert.InDelta(t, 290.0, analysis.PurchasedMaterialCost.Float64(), tolerance)
	assert.InDelta(t, 250.0, analysis.SubAssemblyCost.Float64(), tolerance)
	assert.InDelta(t, 500.0, analysis.TotalDirectCost.Float64(), tolerance)
	assert.InDelta(t, 15.0, analysis.TotalIndirectCost.Float64(), tolerance)
	assert.InDelta(t, 515.0, analysis.TotalCost.Float64(), tolerance)
	assert.InDelta(t, 51.5, analysis.CostPerUnit.Float64(), tolerance)

	assert.InDelta(t, 61.8, analysis.TargetPrice.Float64(), tolerance)
	assert.InDelta(t, 10.3, analysis.ProfitPerUnit.Float64(), tolerance)
	assert.InDelta(t, 618.0, analysis.TotalRevenue.Float64(), tolerance)
	assert.InDelta(t, 103.0, analysis.TotalProfit.Float64(), tolerance)
}

func TestCalculateCostAnalysis_DirectPlusIndirect(t *testing.T) {
	testCases := []struct {
		name     string
		quantity float64
		labor    float64
		overhead dto.OverheadRates
	}{
		{"no labor", 10, 0, dto.OverheadRates{}},
		{"labor and overhead", 250, 32.5, dto.OverheadRates{Manufacturing: 18, Administration: 7}},
		{"large run", 1e6, 45, dto.OverheadRates{Manufacturing: 120, Quality: 5, Administration: 30}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := nestedBOM()
			req := nestedRequest(root)
			req.TargetQuantity = tc.quantity
			req.LaborRates.Assembly = tc.labor
			req.OverheadRates = tc.overhead

			analysis, _ := CalculateCostAnalysis(mustTree(t, root), req)

			sum := analysis.TotalDirectCost.Float64() + analysis.TotalIndirectCost.Float64()
			assert.InDelta(t, analysis.TotalCost.Float64(), sum, tolerance)

			direct := analysis.MaterialCost.Float64() + analysis.LaborCost.Float64() +
				analysis.ToolingCost.Float64() + analysis.EquipmentCost.Float64()
			assert.InDelta(t, analysis.TotalDirectCost.Float64(), direct, tolerance)
		})
	}
}

func TestCalculateCostAnalysis_ZeroQuantities(t *testing.T) {
	root := &entities.Assembly{
		Name:         "ROOT",
		SetupTime:    4,
		CycleTime:    10,
		YieldPercent: 100,
		Items: []entities.Item{
			{Name: "PART", Quantity: 3, UnitCost: 12, QualityGrade: entities.GradeA},
		},
	}
	req := &dto.BOMRequest{Assemblies: []*entities.Assembly{root}}

	analysis, _ := CalculateCostAnalysis(mustTree(t, root), req)

	for name, value := range map[string]dto.Amount{
		"material":    analysis.MaterialCost,
		"labor":       analysis.LaborCost,
		"overhead":    analysis.OverheadCost,
		"total":       analysis.TotalCost,
		"costPerUnit": analysis.CostPerUnit,
		"targetPrice": analysis.TargetPrice,
		"revenue":     analysis.TotalRevenue,
	} {
		assert.True(t, value.IsDefined(), "%s should be defined", name)
		assert.Zero(t, value.Float64(), "%s should be zero", name)
	}
	assert.True(t, analysis.CostPerUnitUndefined)
}

func TestCalculateCostAnalysis_UnitCostMonotonic(t *testing.T) {
	base := nestedBOM()
	baseline, _ := CalculateCostAnalysis(mustTree(t, base), nestedRequest(base))

	raised := nestedBOM()
	raised.SubAssemblies[0].Items[0].UnitCost += 0.01
	increased, _ := CalculateCostAnalysis(mustTree(t, raised), nestedRequest(raised))

	assert.Greater(t, increased.TotalCost.Float64(), baseline.TotalCost.Float64())
}

func TestAssemblyBreakdown(t *testing.T) {
	root := nestedBOM()
	req := nestedRequest(root)
	tree := mustTree(t, root)

	analysis, rollups := CalculateCostAnalysis(tree, req)
	breakdown := AssemblyBreakdown(tree, rollups, analysis.TotalCost.Float64())
	require.Len(t, breakdown, 2)

	assert.Equal(t, "ROOT", breakdown[0].Name)
	assert.Equal(t, "", breakdown[0].ParentName)
	assert.Equal(t, 1, breakdown[0].SubAssemblyCount)
	assert.InDelta(t, 500.0/515*100, breakdown[0].PercentageOfTotal.Float64(), tolerance)

	assert.Equal(t, "CHILD", breakdown[1].Name)
	assert.Equal(t, "ROOT", breakdown[1].ParentName)
	assert.Equal(t, 1, breakdown[1].Depth)
	assert.InDelta(t, 98.0, breakdown[1].YieldPercent.Float64(), tolerance)

	zero := AssemblyBreakdown(tree, rollups, 0)
	assert.Zero(t, zero[0].PercentageOfTotal.Float64())
}

func TestProjectTrends(t *testing.T) {
	trends := ProjectTrends(1000, 10, 10, 2)
	require.Len(t, trends.Projections, 2)

	assert.Equal(t, 1, trends.Projections[0].Year)
	assert.InDelta(t, 1100.0, trends.Projections[0].TotalCost.Float64(), tolerance)
	assert.InDelta(t, 1210.0, trends.Projections[1].TotalCost.Float64(), tolerance)
	assert.InDelta(t, 121.0, trends.Projections[1].CostPerUnit.Float64(), tolerance)

	zeroQuantity := ProjectTrends(1000, 0, 3, 1)
	assert.Zero(t, zeroQuantity.Projections[0].CostPerUnit.Float64())
}
