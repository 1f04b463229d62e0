package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/bomcost/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Chart     bool
	Elapsed   time.Duration
}

// Generate writes the result in the configured format. Text and JSON go to
// w unless an output directory is set; CSV always needs a directory.
func Generate(w io.Writer, result *dto.BOMResult, config Config) error {
	var err error
	switch config.Format {
	case "text", "":
		err = generateTextOutput(w, result, config)
	case "json":
		err = generateJSONOutput(w, result, config)
	case "csv":
		err = generateCSVOutput(w, result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
	if err != nil {
		return err
	}

	if config.Chart {
		return writeChart(w, result, config)
	}
	return nil
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, result *dto.BOMResult, config Config) error {
	if config.OutputDir == "" {
		WriteText(w, result, config.Elapsed)
		return nil
	}

	var sb strings.Builder
	WriteText(&sb, result, config.Elapsed)
	filename, err := writeFile(config.OutputDir, "bom_result.txt", []byte(sb.String()))
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", filename)
	}
	return nil
}

// WriteText renders the full report
func WriteText(w io.Writer, result *dto.BOMResult, elapsed time.Duration) {
	ps := result.ProductSummary
	cur := ps.Currency

	title := "📊 BOM Cost Summary"
	if ps.ProductName != "" {
		title = fmt.Sprintf("📊 BOM Cost Summary: %s", ps.ProductName)
	}
	fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", 40))

	fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(w, "Target Quantity: %s\n", ps.TargetQuantity.StringFixed(0))
	fmt.Fprintf(w, "Assemblies: %d  Items: %d  Critical Items: %d  Suppliers: %d  Max Depth: %d\n",
		ps.AssemblyCount, ps.ItemCount, ps.CriticalItemCount, ps.SupplierCount, ps.MaxDepth)
	if ps.BottleneckItem != "" {
		fmt.Fprintf(w, "Longest Lead Time: %d days (%s)\n", ps.LongestLeadTimeDays, ps.BottleneckItem)
	}
	if len(ps.MissingSupplierIDs) > 0 {
		fmt.Fprintf(w, "Unknown Suppliers: %s\n", strings.Join(ps.MissingSupplierIDs, ", "))
	}
	if elapsed > 0 {
		fmt.Fprintf(w, "Calculation Time: %v\n", elapsed)
	}
	fmt.Fprintln(w)

	writeCostAnalysis(w, result.CostAnalysis, cur)
	writeAssemblyBreakdown(w, result.AssemblyBreakdown)
	writeTrends(w, result.CostTrends)

	if inv, ok := result.InventoryAnalysis.Get(); ok {
		writeInventory(w, inv)
	}
	if risk, ok := result.RiskAnalysis.Get(); ok {
		writeRisk(w, risk)
	}
	if suppliers, ok := result.SupplierAnalysis.Get(); ok {
		writeSuppliers(w, suppliers)
	}
	if opt, ok := result.CostOptimization.Get(); ok {
		writeOptimization(w, opt)
	}

	writeMonteCarlo(w, result.MonteCarloResults)

	if len(result.Summary.KeyFindings) > 0 {
		fmt.Fprintf(w, "🔎 Key Findings:\n")
		for _, finding := range result.Summary.KeyFindings {
			fmt.Fprintf(w, "  - %s\n", finding)
		}
		fmt.Fprintln(w)
	}
}

func writeCostAnalysis(w io.Writer, ca dto.CostAnalysis, currency string) {
	fmt.Fprintf(w, "💰 Cost Analysis:\n")
	rows := []struct {
		label  string
		amount dto.Amount
	}{
		{"Material", ca.MaterialCost},
		{"  Purchased Material", ca.PurchasedMaterialCost},
		{"  Sub-Assemblies", ca.SubAssemblyCost},
		{"Labor", ca.LaborCost},
		{"Overhead", ca.OverheadCost},
		{"Tooling", ca.ToolingCost},
		{"Equipment", ca.EquipmentCost},
		{"Quality", ca.QualityCost},
		{"Logistics", ca.LogisticsCost},
		{"Administration", ca.AdministrationCost},
		{"Total Direct", ca.TotalDirectCost},
		{"Total Indirect", ca.TotalIndirectCost},
		{"Total Cost", ca.TotalCost},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-22s %16s %s\n", row.label, row.amount.StringFixed(2), currency)
	}

	cpu := ca.CostPerUnit.StringFixed(2)
	if ca.CostPerUnitUndefined {
		cpu = "undefined (target quantity is 0)"
	}
	fmt.Fprintf(w, "  %-22s %16s\n", "Cost Per Unit", cpu)
	fmt.Fprintf(w, "  %-22s %16s (margin %s%%)\n", "Target Price", ca.TargetPrice.StringFixed(2), ca.TargetMargin.StringFixed(1))
	fmt.Fprintf(w, "  %-22s %16s\n", "Total Profit", ca.TotalProfit.StringFixed(2))
	fmt.Fprintln(w)
}

func writeAssemblyBreakdown(w io.Writer, breakdown []dto.AssemblyCost) {
	if len(breakdown) == 0 {
		return
	}
	fmt.Fprintf(w, "🏗️  Assembly Breakdown:\n")
	fmt.Fprintf(w, "%-30s %-6s %-14s %-12s %-12s %-14s %-8s\n",
		"Assembly", "Level", "Material", "Labor", "Overhead", "Total", "Share")
	fmt.Fprintf(w, "%-30s %-6s %-14s %-12s %-12s %-14s %-8s\n",
		"------------------------------", "------", "--------------", "------------", "------------", "--------------", "--------")
	for _, a := range breakdown {
		name := strings.Repeat("  ", a.Depth) + a.Name
		fmt.Fprintf(w, "%-30s %-6d %-14s %-12s %-12s %-14s %-8s\n",
			name,
			a.Level,
			a.MaterialCost.StringFixed(2),
			a.LaborCost.StringFixed(2),
			a.OverheadCost.StringFixed(2),
			a.TotalCost.StringFixed(2),
			a.PercentageOfTotal.StringFixed(1)+"%")
	}
	fmt.Fprintln(w)
}

func writeTrends(w io.Writer, trends dto.CostTrends) {
	if len(trends.Projections) == 0 {
		return
	}
	fmt.Fprintf(w, "📈 Cost Trends (inflation %s%%):\n", trends.InflationRate.StringFixed(1))
	for _, p := range trends.Projections {
		fmt.Fprintf(w, "  Year %d: total %s, per unit %s\n", p.Year, p.TotalCost.StringFixed(2), p.CostPerUnit.StringFixed(2))
	}
	fmt.Fprintln(w)
}

func writeInventory(w io.Writer, inv dto.InventoryAnalysis) {
	fmt.Fprintf(w, "📦 Inventory Analysis:\n")
	fmt.Fprintf(w, "%-20s %-12s %-10s %-10s %-10s %-10s %-12s\n",
		"Item", "Supplier", "EOQ", "Order Qty", "Safety", "Reorder", "Total Cost")
	fmt.Fprintf(w, "%-20s %-12s %-10s %-10s %-10s %-10s %-12s\n",
		"--------------------", "------------", "----------", "----------", "----------", "----------", "------------")
	for _, item := range inv.Items {
		supplier := item.SupplierID
		if !item.SupplierFound && supplier != "" {
			supplier += "?"
		}
		fmt.Fprintf(w, "%-20s %-12s %-10s %-10s %-10s %-10s %-12s\n",
			item.ItemName,
			supplier,
			item.EconomicOrderQuantity.StringFixed(1),
			item.RecommendedOrderQty.StringFixed(0),
			item.SafetyStock.StringFixed(1),
			item.ReorderPoint.StringFixed(1),
			item.TotalInventoryCost.StringFixed(2))
	}

	fmt.Fprintf(w, "  Inventory Value: %s  Safety Stock Value: %s\n",
		inv.TotalInventoryValue.StringFixed(2), inv.TotalSafetyStockValue.StringFixed(2))
	fmt.Fprintf(w, "  Carrying Cost: %s  Ordering Cost: %s  Total: %s\n",
		inv.TotalCarryingCost.StringFixed(2), inv.TotalOrderingCost.StringFixed(2), inv.TotalInventoryCost.StringFixed(2))
	if inv.TurnoverUndefined {
		fmt.Fprintf(w, "  Turnover: undefined (no inventory value)\n")
	} else {
		fmt.Fprintf(w, "  Turnover: %s  Days of Inventory: %s\n",
			inv.TurnoverRate.StringFixed(2), inv.DaysOfInventory.StringFixed(1))
	}
	fmt.Fprintln(w)
}

func writeRisk(w io.Writer, risk dto.RiskAnalysis) {
	fmt.Fprintf(w, "⚠️  Risk Analysis:\n")
	score := risk.OverallRiskScore.StringFixed(1)
	if risk.ScoreUndefined {
		score = "undefined (total cost is 0)"
	}
	fmt.Fprintf(w, "  Overall Risk: %s (%s)  Expected Loss: %s\n", score, risk.OverallRiskLevel, risk.ExpectedLoss.StringFixed(2))
	if risk.UnscoredItems > 0 {
		fmt.Fprintf(w, "  Items without supplier data: %d\n", risk.UnscoredItems)
	}

	for _, r := range risk.SupplyChainRisks {
		critical := ""
		if r.Critical {
			critical = " [critical]"
		}
		fmt.Fprintf(w, "  [%s] %s from %s%s: %s\n", r.Level, r.ItemName, r.SupplierID, critical, r.Mitigation)
	}
	for _, r := range risk.CostRisks {
		fmt.Fprintf(w, "  [cost] %s: +%s at p=%s\n", r.Description, r.CostIncrease.StringFixed(2), r.Probability.StringFixed(2))
	}
	for _, r := range risk.QualityRisks {
		fmt.Fprintf(w, "  [quality %s] %s: impact %s\n", r.Grade, r.ItemName, r.Impact.StringFixed(2))
	}
	fmt.Fprintln(w)
}

func writeSuppliers(w io.Writer, sa dto.SupplierAnalysis) {
	fmt.Fprintf(w, "🏭 Supplier Analysis:\n")
	fmt.Fprintf(w, "  Suppliers: %d  Total Spend: %s  Unassigned: %s  HHI: %s\n",
		sa.SupplierCount, sa.TotalSpend.StringFixed(2), sa.UnassignedSpend.StringFixed(2), sa.ConcentrationIndex.StringFixed(0))
	fmt.Fprintf(w, "%-12s %-24s %-6s %-14s %-8s %-8s %-8s\n",
		"Supplier", "Name", "Items", "Spend", "Share", "Risk", "Score")
	fmt.Fprintf(w, "%-12s %-24s %-6s %-14s %-8s %-8s %-8s\n",
		"------------", "------------------------", "------", "--------------", "--------", "--------", "--------")

	scores := make(map[string]dto.Amount, len(sa.Performance))
	for _, p := range sa.Performance {
		scores[p.SupplierID] = p.PerformanceScore
	}
	for _, s := range sa.Concentration {
		fmt.Fprintf(w, "%-12s %-24s %-6d %-14s %-8s %-8s %-8s\n",
			s.SupplierID,
			s.SupplierName,
			s.ItemCount,
			s.Spend.StringFixed(2),
			s.SpendPercentage.StringFixed(1)+"%",
			s.ConcentrationRisk,
			scores[s.SupplierID].StringFixed(1))
	}
	fmt.Fprintln(w)
}

func writeOptimization(w io.Writer, opt dto.CostOptimization) {
	fmt.Fprintf(w, "💡 Cost Optimization (potential savings %s, %s%%):\n",
		opt.PotentialSavings.StringFixed(2), opt.SavingsPercentage.StringFixed(1))
	for _, d := range opt.VolumeDiscounts {
		fmt.Fprintf(w, "  Volume discount: %s from %s, %s%% at %s units saves %s\n",
			d.ItemName, d.SupplierID, d.DiscountPercentage.StringFixed(1), d.MinQuantity.StringFixed(0), d.Savings.StringFixed(2))
	}
	for _, r := range opt.Recommendations {
		fmt.Fprintf(w, "  %s (%s%% of cost): saves %s, costs %s, payback %d months\n",
			r.Title, r.CostShare.StringFixed(1), r.PotentialSavings.StringFixed(2), r.ImplementationCost.StringFixed(2), r.PaybackMonths)
	}
	fmt.Fprintln(w)
}

func writeMonteCarlo(w io.Writer, mc dto.MonteCarloResult) {
	fmt.Fprintf(w, "🎲 Monte Carlo (%d samples, seed %d, %d workers):\n", mc.Samples, mc.Seed, mc.Workers)
	fmt.Fprintf(w, "  Baseline: %s  Mean: %s  Std Dev: %s\n",
		mc.Baseline.StringFixed(2), mc.Mean.StringFixed(2), mc.StandardDeviation.StringFixed(2))
	fmt.Fprintf(w, "  P10: %s  P25: %s  P50: %s  P75: %s  P90: %s\n",
		mc.P10.StringFixed(2), mc.P25.StringFixed(2), mc.P50.StringFixed(2), mc.P75.StringFixed(2), mc.P90.StringFixed(2))
	fmt.Fprintf(w, "  Range: %s .. %s\n", mc.Min.StringFixed(2), mc.Max.StringFixed(2))
	fmt.Fprintln(w)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, result *dto.BOMResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	filename, err := writeFile(config.OutputDir, "bom_result.json", jsonData)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates one CSV file per table
func generateCSVOutput(w io.Writer, result *dto.BOMResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0)
	write := func(name string, fn func(string) error) error {
		filename := filepath.Join(config.OutputDir, name)
		if err := fn(filename); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, filename)
		return nil
	}

	if err := write("cost_analysis.csv", func(f string) error { return writeCostAnalysisCSV(result.CostAnalysis, f) }); err != nil {
		return err
	}
	if err := write("assembly_breakdown.csv", func(f string) error { return writeBreakdownCSV(result.AssemblyBreakdown, f) }); err != nil {
		return err
	}
	if inv, ok := result.InventoryAnalysis.Get(); ok {
		if err := write("inventory.csv", func(f string) error { return writeInventoryCSV(inv.Items, f) }); err != nil {
			return err
		}
	}
	if sa, ok := result.SupplierAnalysis.Get(); ok {
		if err := write("suppliers.csv", func(f string) error { return writeSuppliersCSV(sa.Concentration, f) }); err != nil {
			return err
		}
	}
	if opt, ok := result.CostOptimization.Get(); ok {
		if err := write("recommendations.csv", func(f string) error { return writeRecommendationsCSV(opt.Recommendations, f) }); err != nil {
			return err
		}
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		for _, filename := range written {
			fmt.Fprintf(w, "  %s\n", filename)
		}
	}
	return nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return filename, nil
}
