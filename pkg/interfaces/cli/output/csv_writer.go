package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/vsinha/bomcost/pkg/application/dto"
)

// csvAmount leaves undefined figures empty so spreadsheets do not parse
// "NaN" as text
func csvAmount(a dto.Amount) string {
	if !a.IsDefined() {
		return ""
	}
	return a.Decimal().Round(dto.JSONPrecision).String()
}

func writeCSVFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func writeCostAnalysisCSV(ca dto.CostAnalysis, filename string) error {
	rows := [][]string{
		{"material", csvAmount(ca.MaterialCost)},
		{"purchased_material", csvAmount(ca.PurchasedMaterialCost)},
		{"sub_assembly", csvAmount(ca.SubAssemblyCost)},
		{"labor", csvAmount(ca.LaborCost)},
		{"overhead", csvAmount(ca.OverheadCost)},
		{"tooling", csvAmount(ca.ToolingCost)},
		{"equipment", csvAmount(ca.EquipmentCost)},
		{"quality", csvAmount(ca.QualityCost)},
		{"logistics", csvAmount(ca.LogisticsCost)},
		{"administration", csvAmount(ca.AdministrationCost)},
		{"total_direct", csvAmount(ca.TotalDirectCost)},
		{"total_indirect", csvAmount(ca.TotalIndirectCost)},
		{"total", csvAmount(ca.TotalCost)},
		{"cost_per_unit", csvAmount(ca.CostPerUnit)},
		{"target_price", csvAmount(ca.TargetPrice)},
		{"profit_per_unit", csvAmount(ca.ProfitPerUnit)},
		{"total_revenue", csvAmount(ca.TotalRevenue)},
		{"total_profit", csvAmount(ca.TotalProfit)},
	}
	return writeCSVFile(filename, []string{"component", "amount"}, rows)
}

func writeBreakdownCSV(breakdown []dto.AssemblyCost, filename string) error {
	rows := make([][]string, 0, len(breakdown))
	for _, a := range breakdown {
		rows = append(rows, []string{
			a.Name,
			a.ParentName,
			strconv.Itoa(a.Level),
			strconv.Itoa(a.Depth),
			strconv.Itoa(a.ItemCount),
			strconv.Itoa(a.SubAssemblyCount),
			csvAmount(a.PurchasedMaterialCost),
			csvAmount(a.MaterialCost),
			csvAmount(a.LaborCost),
			csvAmount(a.OverheadCost),
			csvAmount(a.ToolingCost),
			csvAmount(a.EquipmentCost),
			csvAmount(a.TotalCost),
			csvAmount(a.PercentageOfTotal),
		})
	}
	header := []string{"name", "parent", "level", "depth", "items", "sub_assemblies", "purchased_material",
		"material", "labor", "overhead", "tooling", "equipment", "total", "percentage_of_total"}
	return writeCSVFile(filename, header, rows)
}

func writeInventoryCSV(items []dto.ItemInventoryPolicy, filename string) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.AssemblyName,
			item.ItemName,
			item.SupplierID,
			strconv.FormatBool(item.SupplierFound),
			csvAmount(item.AnnualDemand),
			csvAmount(item.EconomicOrderQuantity),
			csvAmount(item.RecommendedOrderQty),
			csvAmount(item.SafetyStock),
			csvAmount(item.ReorderPoint),
			csvAmount(item.InventoryValue),
			csvAmount(item.CarryingCost),
			csvAmount(item.OrderingCost),
			csvAmount(item.TotalInventoryCost),
		})
	}
	header := []string{"assembly", "item", "supplier_id", "supplier_found", "annual_demand", "eoq",
		"order_qty", "safety_stock", "reorder_point", "inventory_value", "carrying_cost", "ordering_cost", "total_cost"}
	return writeCSVFile(filename, header, rows)
}

func writeSuppliersCSV(concentration []dto.SupplierSpend, filename string) error {
	rows := make([][]string, 0, len(concentration))
	for _, s := range concentration {
		rows = append(rows, []string{
			s.SupplierID,
			s.SupplierName,
			strconv.Itoa(s.ItemCount),
			csvAmount(s.Spend),
			csvAmount(s.SpendPercentage),
			s.ConcentrationRisk.String(),
		})
	}
	return writeCSVFile(filename, []string{"supplier_id", "name", "items", "spend", "spend_percentage", "concentration_risk"}, rows)
}

func writeRecommendationsCSV(recommendations []dto.Recommendation, filename string) error {
	rows := make([][]string, 0, len(recommendations))
	for _, r := range recommendations {
		rows = append(rows, []string{
			r.Category,
			r.Title,
			csvAmount(r.CostShare),
			csvAmount(r.PotentialSavings),
			csvAmount(r.ImplementationCost),
			strconv.Itoa(r.PaybackMonths),
		})
	}
	header := []string{"category", "title", "cost_share", "potential_savings", "implementation_cost", "payback_months"}
	return writeCSVFile(filename, header, rows)
}
