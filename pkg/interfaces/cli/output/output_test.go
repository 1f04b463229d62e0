package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
)

func sampleResult() *dto.BOMResult {
	return &dto.BOMResult{
		RunID: "run-1",
		ProductSummary: dto.ProductSummary{
			ProductName:         "Controller",
			Currency:            "USD",
			TargetQuantity:      100,
			AssemblyCount:       2,
			ItemCount:           3,
			LongestLeadTimeDays: 30,
			BottleneckItem:      "Microprocessor",
			MissingSupplierIDs:  []string{"GHOST"},
		},
		CostAnalysis: dto.CostAnalysis{
			MaterialCost: 800,
			LaborCost:    150,
			OverheadCost: 50,
			TotalCost:    1000,
			CostPerUnit:  10,
			TargetMargin: 20,
			TargetPrice:  12,
		},
		AssemblyBreakdown: []dto.AssemblyCost{
			{Name: "Main", MaterialCost: 800, LaborCost: 150, OverheadCost: 50, TotalCost: 1000, PercentageOfTotal: 100},
			{Name: "Board & Case", ParentName: "Main", Depth: 1, MaterialCost: 200, TotalCost: 200, PercentageOfTotal: 20},
		},
		CostTrends: dto.CostTrends{
			InflationRate: 3,
			Projections:   []dto.CostProjection{{Year: 1, TotalCost: 1030, CostPerUnit: 10.3}},
		},
		InventoryAnalysis: dto.Include(dto.InventoryAnalysis{
			Items: []dto.ItemInventoryPolicy{
				{ItemName: "Resistor", SupplierID: "S1", SupplierFound: true, EconomicOrderQuantity: dto.Amount(math.Inf(1))},
			},
			TurnoverUndefined: true,
		}),
		RiskAnalysis: dto.NotRequested[dto.RiskAnalysis](),
		SupplierAnalysis: dto.Include(dto.SupplierAnalysis{
			SupplierCount: 1,
			Concentration: []dto.SupplierSpend{
				{SupplierID: "S1", SupplierName: "One", ItemCount: 1, Spend: 800, SpendPercentage: 100, ConcentrationRisk: entities.RiskHigh},
			},
		}),
		CostOptimization: dto.NotRequested[dto.CostOptimization](),
		Summary: dto.Summary{
			KeyFindings: []string{"Largest cost driver is material at 80.0% of total cost"},
		},
		MonteCarloResults: dto.MonteCarloResult{Samples: 1000, Seed: 42, Workers: 1, Mean: 1000},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleResult(), Config{Format: "text"}))

	out := buf.String()
	assert.Contains(t, out, "BOM Cost Summary: Controller")
	assert.Contains(t, out, "Unknown Suppliers: GHOST")
	assert.Contains(t, out, "1000.00 USD")
	assert.Contains(t, out, "  Board & Case")
	assert.Contains(t, out, "Inventory Analysis")
	assert.Contains(t, out, "undefined")
	assert.Contains(t, out, "Turnover: undefined")
	assert.NotContains(t, out, "Risk Analysis")
	assert.NotContains(t, out, "Cost Optimization")
	assert.Contains(t, out, "Largest cost driver is material")
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleResult(), Config{Format: "json"}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded["riskAnalysis"])
	assert.Equal(t, "run-1", decoded["runId"])

	inventory := decoded["inventoryAnalysis"].(map[string]interface{})
	item := inventory["items"].([]interface{})[0].(map[string]interface{})
	assert.Nil(t, item["economicOrderQuantity"])
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleResult(), Config{Format: "csv", OutputDir: dir, Verbose: true}))

	assert.FileExists(t, filepath.Join(dir, "cost_analysis.csv"))
	assert.FileExists(t, filepath.Join(dir, "assembly_breakdown.csv"))
	assert.FileExists(t, filepath.Join(dir, "inventory.csv"))
	assert.FileExists(t, filepath.Join(dir, "suppliers.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "recommendations.csv"))
	assert.Contains(t, buf.String(), "CSV results saved to")

	file, err := os.Open(filepath.Join(dir, "inventory.csv"))
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "eoq", records[0][5])
	assert.Equal(t, "", records[1][5])
}

func TestGenerate_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.EqualError(t, Generate(&buf, sampleResult(), Config{Format: "xml"}), "unsupported output format: xml")
	assert.EqualError(t, Generate(&buf, sampleResult(), Config{Format: "csv"}), "output directory required for CSV format")
	assert.EqualError(t, Generate(&buf, sampleResult(), Config{Format: "text", Chart: true}), "output directory required for cost chart")
}

func TestCostChart(t *testing.T) {
	result := sampleResult()
	chart := NewCostChart(result.AssemblyBreakdown)
	assert.Equal(t, 1000.0, chart.MaxTotal)

	segments := chart.Segments(result.AssemblyBreakdown[0])
	require.Len(t, segments, 3)
	assert.Equal(t, "Material", segments[0].Label)
	assert.Equal(t, chart.MarginLeft, segments[0].X)
	assert.Equal(t, segments[0].X+segments[0].Width, segments[1].X)

	svg := chart.GenerateSVG("Costs", result.AssemblyBreakdown)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Board &amp; Case")

	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, result, Config{Format: "json", OutputDir: dir, Chart: true}))
	assert.FileExists(t, filepath.Join(dir, "cost_breakdown.svg"))
	assert.FileExists(t, filepath.Join(dir, "bom_result.json"))

	empty := NewCostChart(nil)
	assert.Contains(t, empty.GenerateSVG("Costs", nil), "No Assembly Costs")
}
