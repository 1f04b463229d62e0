package dto

import (
	"time"

	"github.com/vsinha/bomcost/pkg/domain/entities"
)

// CostAnalysis is the cost rollup baseline.
//
// MaterialCost folds the full cost of every sub-assembly (their labor and
// overhead included) into the root's material bucket. PurchasedMaterialCost
// and SubAssemblyCost split that figure into its two sources.
type CostAnalysis struct {
	MaterialCost  Amount `json:"materialCost"`
	LaborCost     Amount `json:"laborCost"`
	OverheadCost  Amount `json:"overheadCost"`
	ToolingCost   Amount `json:"toolingCost"`
	EquipmentCost Amount `json:"equipmentCost"`

	QualityCost        Amount `json:"qualityCost"`
	LogisticsCost      Amount `json:"logisticsCost"`
	AdministrationCost Amount `json:"administrationCost"`

	PurchasedMaterialCost Amount `json:"purchasedMaterialCost"`
	SubAssemblyCost       Amount `json:"subAssemblyCost"`

	TotalDirectCost   Amount `json:"totalDirectCost"`
	TotalIndirectCost Amount `json:"totalIndirectCost"`
	TotalCost         Amount `json:"totalCost"`

	CostPerUnit Amount `json:"costPerUnit"`
	// CostPerUnitUndefined is set when the target quantity is zero
	CostPerUnitUndefined bool `json:"costPerUnitUndefined"`

	TargetMargin  Amount `json:"targetMargin"`
	TargetPrice   Amount `json:"targetPrice"`
	ProfitPerUnit Amount `json:"profitPerUnit"`
	TotalRevenue  Amount `json:"totalRevenue"`
	TotalProfit   Amount `json:"totalProfit"`
}

// ItemInventoryPolicy holds the inventory parameters of a single item line
type ItemInventoryPolicy struct {
	AssemblyName  string `json:"assemblyName"`
	ItemName      string `json:"itemName"`
	SupplierID    string `json:"supplierId"`
	SupplierFound bool   `json:"supplierFound"`
	LeadTimeDays  int    `json:"leadTimeDays"`

	UnitCost              Amount `json:"unitCost"`
	AnnualDemand          Amount `json:"annualDemand"`
	EconomicOrderQuantity Amount `json:"economicOrderQuantity"`
	RecommendedOrderQty   Amount `json:"recommendedOrderQuantity"`
	LeadTimeVariability   Amount `json:"leadTimeVariability"`
	SafetyStock           Amount `json:"safetyStock"`
	ReorderPoint          Amount `json:"reorderPoint"`
	AverageInventory      Amount `json:"averageInventory"`

	InventoryValue    Amount `json:"inventoryValue"`
	ReorderPointValue Amount `json:"reorderPointValue"`
	SafetyStockValue  Amount `json:"safetyStockValue"`

	CarryingCost       Amount `json:"carryingCost"`
	OrderingCost       Amount `json:"orderingCost"`
	TotalInventoryCost Amount `json:"totalInventoryCost"`
}

// InventoryAnalysis aggregates inventory policy across every item
type InventoryAnalysis struct {
	Items []ItemInventoryPolicy `json:"items"`

	TotalInventoryValue    Amount `json:"totalInventoryValue"`
	TotalReorderPointValue Amount `json:"totalReorderPointValue"`
	TotalSafetyStockValue  Amount `json:"totalSafetyStockValue"`
	TotalCarryingCost      Amount `json:"totalCarryingCost"`
	TotalOrderingCost      Amount `json:"totalOrderingCost"`
	TotalInventoryCost     Amount `json:"totalInventoryCost"`

	TurnoverRate    Amount `json:"turnoverRate"`
	DaysOfInventory Amount `json:"daysOfInventory"`
	// TurnoverUndefined is set when the total inventory value is zero
	TurnoverUndefined bool `json:"turnoverUndefined"`
}

// SupplyChainRisk is a surfaced per-item supplier risk
type SupplyChainRisk struct {
	ItemName        string             `json:"itemName"`
	AssemblyName    string             `json:"assemblyName"`
	SupplierID      string             `json:"supplierId"`
	Level           entities.RiskLevel `json:"level"`
	Critical        bool               `json:"critical"`
	Description     string             `json:"description"`
	ReliabilityRisk Amount             `json:"reliabilityRisk"`
	LeadTimeRisk    Amount             `json:"leadTimeRisk"`
	Impact          Amount             `json:"impact"`
	Probability     Amount             `json:"probability"`
	Mitigation      string             `json:"mitigation"`
}

// CostRisk is a category-wide cost variation risk
type CostRisk struct {
	Category     string `json:"category"`
	Description  string `json:"description"`
	Variation    Amount `json:"variation"` // percent
	CostIncrease Amount `json:"costIncrease"`
	Probability  Amount `json:"probability"`
}

// QualityRisk is raised for items with a C or D quality grade
type QualityRisk struct {
	ItemName     string                `json:"itemName"`
	AssemblyName string                `json:"assemblyName"`
	Grade        entities.QualityGrade `json:"grade"`
	Description  string                `json:"description"`
	Impact       Amount                `json:"impact"`
	Probability  Amount                `json:"probability"`
	Mitigation   string                `json:"mitigation"`
}

// RiskAnalysis combines supply-chain, cost and quality risk
type RiskAnalysis struct {
	SupplyChainRisks []SupplyChainRisk `json:"supplyChainRisks"`
	CostRisks        []CostRisk        `json:"costRisks"`
	QualityRisks     []QualityRisk     `json:"qualityRisks"`

	// ExpectedLoss is the probability-weighted sum that drives the score
	ExpectedLoss     Amount             `json:"expectedLoss"`
	OverallRiskScore Amount             `json:"overallRiskScore"`
	OverallRiskLevel entities.RiskLevel `json:"overallRiskLevel"`
	// ScoreUndefined is set when the total cost is zero
	ScoreUndefined bool `json:"scoreUndefined"`
	// UnscoredItems counts items whose supplier id had no match
	UnscoredItems int `json:"unscoredItems"`
}

// SupplierSpend is one supplier's share of spend
type SupplierSpend struct {
	SupplierID        string             `json:"supplierId"`
	SupplierName      string             `json:"supplierName"`
	ItemCount         int                `json:"itemCount"`
	Spend             Amount             `json:"spend"`
	SpendPercentage   Amount             `json:"spendPercentage"`
	ConcentrationRisk entities.RiskLevel `json:"concentrationRisk"`
}

// SupplierPerformance scores a supplier across reliability, quality,
// spend dependence and lead-time stability
type SupplierPerformance struct {
	SupplierID          string `json:"supplierId"`
	SupplierName        string `json:"supplierName"`
	Reliability         Amount `json:"reliability"`
	QualityRating       Amount `json:"qualityRating"`
	LeadTimeVariability Amount `json:"leadTimeVariability"`
	SpendPercentage     Amount `json:"spendPercentage"`
	PerformanceScore    Amount `json:"performanceScore"`
}

// SupplierAnalysis aggregates spend concentration and performance
type SupplierAnalysis struct {
	SupplierCount   int    `json:"supplierCount"`
	TotalSpend      Amount `json:"totalSpend"`
	UnassignedSpend Amount `json:"unassignedSpend"`

	Concentration []SupplierSpend       `json:"concentration"`
	Performance   []SupplierPerformance `json:"performance"`

	CriticalSuppliers int `json:"criticalSuppliers"`
	// ConcentrationIndex is the Herfindahl-Hirschman index of spend shares (0-10000)
	ConcentrationIndex Amount `json:"concentrationIndex"`
}

// VolumeDiscountOpportunity is the best applicable discount tier for an item
type VolumeDiscountOpportunity struct {
	ItemName           string `json:"itemName"`
	SupplierID         string `json:"supplierId"`
	Quantity           Amount `json:"quantity"`
	CurrentCost        Amount `json:"currentCost"`
	MinQuantity        Amount `json:"minQuantity"`
	DiscountPercentage Amount `json:"discountPercentage"`
	Savings            Amount `json:"savings"`
}

// Recommendation is a threshold-triggered cost reduction action
type Recommendation struct {
	Category           string `json:"category"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	CostShare          Amount `json:"costShare"` // percent of total cost that triggered it
	PotentialSavings   Amount `json:"potentialSavings"`
	ImplementationCost Amount `json:"implementationCost"`
	PaybackMonths      int    `json:"paybackMonths"`
}

// CostOptimization lists savings opportunities
type CostOptimization struct {
	VolumeDiscounts   []VolumeDiscountOpportunity `json:"volumeDiscounts"`
	Recommendations   []Recommendation            `json:"recommendations"`
	PotentialSavings  Amount                      `json:"potentialSavings"`
	SavingsPercentage Amount                      `json:"savingsPercentage"`
}

// MonteCarloResult is the empirical total-cost distribution
type MonteCarloResult struct {
	Samples  int    `json:"samples"`
	Workers  int    `json:"workers"`
	Seed     int64  `json:"seed"`
	Baseline Amount `json:"baseline"`

	Mean              Amount `json:"mean"`
	StandardDeviation Amount `json:"standardDeviation"`
	Min               Amount `json:"min"`
	Max               Amount `json:"max"`

	P10 Amount `json:"p10"`
	P25 Amount `json:"p25"`
	P50 Amount `json:"p50"`
	P75 Amount `json:"p75"`
	P90 Amount `json:"p90"`
}

// AssemblyCost is the rolled-up cost of one assembly in the tree
type AssemblyCost struct {
	Name       string `json:"name"`
	ParentName string `json:"parentName,omitempty"`
	Level      int    `json:"level"`
	Depth      int    `json:"depth"`

	ItemCount        int `json:"itemCount"`
	SubAssemblyCount int `json:"subAssemblyCount"`

	PurchasedMaterialCost Amount `json:"purchasedMaterialCost"`
	MaterialCost          Amount `json:"materialCost"`
	LaborCost             Amount `json:"laborCost"`
	OverheadCost          Amount `json:"overheadCost"`
	ToolingCost           Amount `json:"toolingCost"`
	EquipmentCost         Amount `json:"equipmentCost"`
	TotalCost             Amount `json:"totalCost"`
	PercentageOfTotal     Amount `json:"percentageOfTotal"`

	YieldPercent Amount `json:"yield"`
	ScrapRate    Amount `json:"scrapRate"`
}

// CostProjection is the inflated cost for a future year
type CostProjection struct {
	Year        int    `json:"year"`
	TotalCost   Amount `json:"totalCost"`
	CostPerUnit Amount `json:"costPerUnit"`
}

// CostTrends projects the baseline forward with a yearly inflation rate
type CostTrends struct {
	InflationRate Amount           `json:"inflationRate"`
	Projections   []CostProjection `json:"projections"`
}

// ProductSummary describes the shape of the BOM
type ProductSummary struct {
	ProductName      string `json:"productName,omitempty"`
	Currency         string `json:"currency,omitempty"`
	TargetQuantity   Amount `json:"targetQuantity"`
	ProductionVolume Amount `json:"productionVolume"`
	ProductionPeriod Amount `json:"productionPeriod"`

	AssemblyCount      int      `json:"assemblyCount"`
	ItemCount          int      `json:"itemCount"`
	CriticalItemCount  int      `json:"criticalItemCount"`
	SupplierCount      int      `json:"supplierCount"`
	MissingSupplierIDs []string `json:"missingSupplierIds"`
	MaxDepth           int      `json:"maxDepth"`

	LongestLeadTimeDays int    `json:"longestLeadTimeDays"`
	BottleneckItem      string `json:"bottleneckItem,omitempty"`
}

// Summary carries the headline figures and findings
type Summary struct {
	TotalCost         Amount   `json:"totalCost"`
	CostPerUnit       Amount   `json:"costPerUnit"`
	TargetPrice       Amount   `json:"targetPrice"`
	TotalProfit       Amount   `json:"totalProfit"`
	LargestCostDriver string   `json:"largestCostDriver"`
	KeyFindings       []string `json:"keyFindings"`
}

// BOMResult is the merged output of one calculation
type BOMResult struct {
	RunID        string    `json:"runId"`
	CalculatedAt time.Time `json:"calculatedAt"`

	ProductSummary    ProductSummary             `json:"productSummary"`
	CostAnalysis      CostAnalysis               `json:"costAnalysis"`
	InventoryAnalysis Optional[InventoryAnalysis] `json:"inventoryAnalysis"`
	RiskAnalysis      Optional[RiskAnalysis]      `json:"riskAnalysis"`
	SupplierAnalysis  Optional[SupplierAnalysis]  `json:"supplierAnalysis"`
	CostOptimization  Optional[CostOptimization]  `json:"costOptimization"`
	AssemblyBreakdown []AssemblyCost             `json:"assemblyBreakdown"`
	CostTrends        CostTrends                 `json:"costTrends"`
	Summary           Summary                    `json:"summary"`
	MonteCarloResults MonteCarloResult           `json:"monteCarloResults"`
}
