package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/infrastructure/repositories/memory"
)

const tolerance = 1e-6

func newTestAdvisor(t *testing.T) *Advisor {
	t.Helper()
	repo, err := memory.NewSupplierRepositoryFrom([]entities.Supplier{
		{ID: "TIERED", Reliability: 95, QualityRating: 95, VolumeDiscounts: []entities.VolumeDiscount{
			{MinQuantity: 100, DiscountPercentage: 5},
			{MinQuantity: 500, DiscountPercentage: 10},
		}},
		{ID: "FLAT", Reliability: 95, QualityRating: 95},
	})
	require.NoError(t, err)
	return NewAdvisor(DefaultPolicy(), repo)
}

func mustTree(t *testing.T, items ...entities.Item) *entities.BOMTree {
	t.Helper()
	tree, err := entities.NewBOMTree([]*entities.Assembly{{Name: "ROOT", Items: items}})
	require.NoError(t, err)
	return tree
}

func TestVolumeDiscounts_HighestApplicableTier(t *testing.T) {
	advisor := newTestAdvisor(t)
	tree := mustTree(t,
		entities.Item{Name: "BULK", Quantity: 600, UnitCost: 2, SupplierID: "TIERED"},
		entities.Item{Name: "SMALL", Quantity: 150, UnitCost: 2, SupplierID: "TIERED"},
		entities.Item{Name: "TINY", Quantity: 10, UnitCost: 2, SupplierID: "TIERED"},
		entities.Item{Name: "NO-TIERS", Quantity: 1000, UnitCost: 2, SupplierID: "FLAT"},
		entities.Item{Name: "ORPHAN", Quantity: 1000, UnitCost: 2, SupplierID: "NOPE"},
	)

	opportunities, err := advisor.VolumeDiscounts(tree)
	require.NoError(t, err)
	require.Len(t, opportunities, 2)

	assert.Equal(t, "BULK", opportunities[0].ItemName)
	assert.InDelta(t, 10.0, opportunities[0].DiscountPercentage.Float64(), tolerance)
	assert.InDelta(t, 500.0, opportunities[0].MinQuantity.Float64(), tolerance)
	assert.InDelta(t, 120.0, opportunities[0].Savings.Float64(), tolerance)

	assert.Equal(t, "SMALL", opportunities[1].ItemName)
	assert.InDelta(t, 5.0, opportunities[1].DiscountPercentage.Float64(), tolerance)
}

func TestRecommendations(t *testing.T) {
	advisor := newTestAdvisor(t)

	testCases := []struct {
		name       string
		costs      dto.CostAnalysis
		categories []string
		savings    []float64
	}{
		{
			name:       "material heavy",
			costs:      dto.CostAnalysis{MaterialCost: 700, LaborCost: 200, OverheadCost: 100, TotalCost: 1000},
			categories: []string{CategoryMaterial},
			savings:    []float64{35},
		},
		{
			name:       "thresholds are strict",
			costs:      dto.CostAnalysis{MaterialCost: 600, LaborCost: 300, OverheadCost: 200, TotalCost: 1000},
			categories: []string{},
			savings:    []float64{},
		},
		{
			name:       "labor and overhead",
			costs:      dto.CostAnalysis{MaterialCost: 300, LaborCost: 400, OverheadCost: 300, TotalCost: 1000},
			categories: []string{CategoryLabor, CategoryOverhead},
			savings:    []float64{40, 45},
		},
		{
			name:       "zero total",
			costs:      dto.CostAnalysis{},
			categories: []string{},
			savings:    []float64{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recommendations := advisor.Recommendations(tc.costs)
			require.Len(t, recommendations, len(tc.categories))
			for i, rec := range recommendations {
				assert.Equal(t, tc.categories[i], rec.Category)
				assert.InDelta(t, tc.savings[i], rec.PotentialSavings.Float64(), tolerance)
			}
		})
	}
}

func TestRecommendations_FixedFigures(t *testing.T) {
	advisor := newTestAdvisor(t)
	recs := advisor.Recommendations(dto.CostAnalysis{MaterialCost: 100, LaborCost: 100, OverheadCost: 100, TotalCost: 100})
	require.Len(t, recs, 3)

	assert.InDelta(t, 5000.0, recs[0].ImplementationCost.Float64(), tolerance)
	assert.Equal(t, 3, recs[0].PaybackMonths)
	assert.InDelta(t, 15000.0, recs[1].ImplementationCost.Float64(), tolerance)
	assert.Equal(t, 6, recs[1].PaybackMonths)
	assert.InDelta(t, 25000.0, recs[2].ImplementationCost.Float64(), tolerance)
	assert.Equal(t, 12, recs[2].PaybackMonths)
}

func TestAnalyze(t *testing.T) {
	advisor := newTestAdvisor(t)
	tree := mustTree(t, entities.Item{Name: "BULK", Quantity: 600, UnitCost: 2, SupplierID: "TIERED"})

	result, err := advisor.Analyze(tree, dto.CostAnalysis{MaterialCost: 700, LaborCost: 200, OverheadCost: 100, TotalCost: 1000})
	require.NoError(t, err)

	// 120 from the discount, 35 from bulk pricing
	assert.InDelta(t, 155.0, result.PotentialSavings.Float64(), tolerance)
	assert.InDelta(t, 15.5, result.SavingsPercentage.Float64(), tolerance)
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	bad := Policy{Recommendations: []RecommendationRule{{Title: "x", Category: "tooling"}}}
	assert.EqualError(t, bad.Validate(), `recommendation "x": unknown category "tooling"`)
}
