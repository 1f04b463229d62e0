package inventory

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/infrastructure/repositories/memory"
)

const tolerance = 1e-6

func newTestAnalyzer(t *testing.T, suppliers ...entities.Supplier) (*Analyzer, *logtest.Hook) {
	t.Helper()
	repo, err := memory.NewSupplierRepositoryFrom(suppliers)
	require.NoError(t, err)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewAnalyzer(DefaultPolicy(), repo, logger), hook
}

func mustTree(t *testing.T, roots ...*entities.Assembly) *entities.BOMTree {
	t.Helper()
	tree, err := entities.NewBOMTree(roots)
	require.NoError(t, err)
	return tree
}

func TestItemPolicy(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)
	item := &entities.Item{Name: "BOLT", Quantity: 2, UnitCost: 10, LeadTimeDays: 10, MinOrderQty: 500}

	policy := analyzer.ItemPolicy(item, Demand{ProductionVolume: 1000, ProductionPeriod: 12}, 3)

	annualDemand := 2000.0
	eoq := math.Sqrt(2 * annualDemand * 50 / (10 * 0.25))
	daily := annualDemand / 365
	safetyStock := 3 * math.Sqrt(daily)
	average := eoq/2 + safetyStock

	assert.InDelta(t, annualDemand, policy.AnnualDemand.Float64(), tolerance)
	assert.InDelta(t, eoq, policy.EconomicOrderQuantity.Float64(), tolerance)
	assert.InDelta(t, 500.0, policy.RecommendedOrderQty.Float64(), tolerance)
	assert.InDelta(t, safetyStock, policy.SafetyStock.Float64(), tolerance)
	assert.InDelta(t, daily*10+safetyStock, policy.ReorderPoint.Float64(), tolerance)
	assert.InDelta(t, average, policy.AverageInventory.Float64(), tolerance)
	assert.InDelta(t, average*10*0.25, policy.CarryingCost.Float64(), tolerance)
	assert.InDelta(t, annualDemand/eoq*50, policy.OrderingCost.Float64(), tolerance)
	assert.InDelta(t, policy.CarryingCost.Float64()+policy.OrderingCost.Float64(), policy.TotalInventoryCost.Float64(), tolerance)
}

func TestItemPolicy_RecommendedOrderRoundsEOQUp(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)
	item := &entities.Item{Name: "BOLT", Quantity: 2, UnitCost: 10}

	policy := analyzer.ItemPolicy(item, Demand{ProductionVolume: 1000, ProductionPeriod: 12}, 2)

	assert.InDelta(t, 283.0, policy.RecommendedOrderQty.Float64(), tolerance)
}

func TestItemPolicy_EOQScalesWithSquareRootOfDemand(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)
	item := &entities.Item{Name: "NUT", Quantity: 1, UnitCost: 4}

	base := analyzer.ItemPolicy(item, Demand{ProductionVolume: 100, ProductionPeriod: 12}, 2)
	for _, factor := range []float64{4, 9, 100} {
		scaled := analyzer.ItemPolicy(item, Demand{ProductionVolume: 100 * factor, ProductionPeriod: 12}, 2)
		ratio := scaled.EconomicOrderQuantity.Float64() / base.EconomicOrderQuantity.Float64()
		assert.InDelta(t, math.Sqrt(factor), ratio, tolerance)
	}
}

func TestItemPolicy_ZeroUnitCostPropagates(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)
	item := &entities.Item{Name: "FREE", Quantity: 1, UnitCost: 0}

	policy := analyzer.ItemPolicy(item, Demand{ProductionVolume: 100, ProductionPeriod: 12}, 2)

	assert.False(t, policy.EconomicOrderQuantity.IsDefined())
}

func TestAnalyze(t *testing.T) {
	supplier := entities.Supplier{ID: "S1", Name: "Acme", Reliability: 95, QualityRating: 90, LeadTimeVariability: 5}
	analyzer, hook := newTestAnalyzer(t, supplier)

	child := &entities.Assembly{Name: "CHILD", Items: []entities.Item{
		{Name: "UNKNOWN-SUPPLIER", Quantity: 1, UnitCost: 3, SupplierID: "MISSING", LeadTimeDays: 7},
	}}
	root := &entities.Assembly{
		Name: "ROOT",
		Items: []entities.Item{
			{Name: "KNOWN-SUPPLIER", Quantity: 2, UnitCost: 8, SupplierID: "S1", LeadTimeDays: 14},
		},
		SubAssemblies: []*entities.Assembly{child},
	}
	demand := Demand{ProductionVolume: 500, ProductionPeriod: 6}

	analysis, err := analyzer.Analyze(mustTree(t, root), demand)
	require.NoError(t, err)
	require.Len(t, analysis.Items, 2)

	known := analysis.Items[0]
	assert.Equal(t, "KNOWN-SUPPLIER", known.ItemName)
	assert.Equal(t, "ROOT", known.AssemblyName)
	assert.True(t, known.SupplierFound)
	assert.InDelta(t, 5.0, known.LeadTimeVariability.Float64(), tolerance)

	unknown := analysis.Items[1]
	assert.Equal(t, "CHILD", unknown.AssemblyName)
	assert.False(t, unknown.SupplierFound)
	assert.InDelta(t, 2.0, unknown.LeadTimeVariability.Float64(), tolerance)

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, "MISSING", hook.LastEntry().Data["supplier_id"])

	value := known.InventoryValue.Float64() + unknown.InventoryValue.Float64()
	assert.InDelta(t, value, analysis.TotalInventoryValue.Float64(), tolerance)
	assert.InDelta(t,
		analysis.TotalCarryingCost.Float64()+analysis.TotalOrderingCost.Float64(),
		analysis.TotalInventoryCost.Float64(), tolerance)

	turnover := demand.Annual() / (value / 1000)
	assert.False(t, analysis.TurnoverUndefined)
	assert.InDelta(t, turnover, analysis.TurnoverRate.Float64(), tolerance)
	assert.InDelta(t, 365/turnover, analysis.DaysOfInventory.Float64(), tolerance)
}

func TestAnalyze_ZeroInventoryValue(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)
	root := &entities.Assembly{Name: "ROOT", Items: []entities.Item{
		{Name: "UNUSED", Quantity: 0, UnitCost: 5},
	}}

	analysis, err := analyzer.Analyze(mustTree(t, root), Demand{ProductionVolume: 100, ProductionPeriod: 12})
	require.NoError(t, err)

	assert.True(t, analysis.TurnoverUndefined)
	assert.Zero(t, analysis.TurnoverRate.Float64())
	assert.Zero(t, analysis.DaysOfInventory.Float64())
	assert.Zero(t, analysis.TotalOrderingCost.Float64())
}
