package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/application/services"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// Set up a flight computer BOM with one sub-assembly
	req := flightComputerRequest()

	service := services.NewBOMService(services.DefaultPolicy(), nil)

	fmt.Println("🚀 Costing flight computer production run...")
	result, err := service.Calculate(ctx, req)
	if err != nil {
		log.Fatalf("calculation failed: %v", err)
	}

	if err := output.Generate(os.Stdout, result, output.Config{Format: "text"}); err != nil {
		log.Fatalf("output failed: %v", err)
	}
}

func flightComputerRequest() *dto.BOMRequest {
	powerBoard := &entities.Assembly{
		Name:         "Power Board",
		Level:        1,
		SetupTime:    1.5,
		CycleTime:    4,
		ToolingCost:  2500,
		YieldPercent: 93,
		ScrapRate:    1.5,
		Items: []entities.Item{
			{Name: "DC-DC Converter", Quantity: 2, UnitCost: 18.4, SupplierID: "SUPP-002", LeadTimeDays: 45,
				MinOrderQty: 50, QualityGrade: entities.GradeB, Critical: true},
			{Name: "Ceramic Capacitor", Quantity: 40, UnitCost: 0.03, SupplierID: "SUPP-003", LeadTimeDays: 14,
				SafetyStock: 2000, MinOrderQty: 5000, QualityGrade: entities.GradeC},
		},
	}

	mainBoard := &entities.Assembly{
		Name:          "Flight Computer",
		SetupTime:     4,
		CycleTime:     12,
		ToolingCost:   12000,
		EquipmentCost: 30000,
		YieldPercent:  97,
		ScrapRate:     0.5,
		Items: []entities.Item{
			{Name: "Rad-Hard Processor", Quantity: 1, UnitCost: 1450, SupplierID: "SUPP-001", LeadTimeDays: 120,
				MinOrderQty: 10, QualityGrade: entities.GradeA, Critical: true, AlternativeSuppliers: []string{"SUPP-004"}},
			{Name: "Aluminum Chassis", Quantity: 1, UnitCost: 85, SupplierID: "SUPP-004", LeadTimeDays: 30,
				MinOrderQty: 25, QualityGrade: entities.GradeA},
		},
		SubAssemblies: []*entities.Assembly{powerBoard},
	}

	return &dto.BOMRequest{
		ProductName: "Flight Computer FC-2",
		Currency:    "USD",
		Assemblies:  []*entities.Assembly{mainBoard},
		Suppliers: []entities.Supplier{
			{ID: "SUPP-001", Name: "Orbital Silicon", Reliability: 92, QualityRating: 97, LeadTimeVariability: 10},
			{ID: "SUPP-002", Name: "Stellar Power", Reliability: 85, QualityRating: 90, LeadTimeVariability: 6,
				VolumeDiscounts: []entities.VolumeDiscount{{MinQuantity: 500, DiscountPercentage: 4}}},
			{ID: "SUPP-003", Name: "Passive Parts Co", Reliability: 97, QualityRating: 88, LeadTimeVariability: 2,
				VolumeDiscounts: []entities.VolumeDiscount{{MinQuantity: 10000, DiscountPercentage: 8}}},
			{ID: "SUPP-004", Name: "Precision Machining", Reliability: 90, QualityRating: 95, LeadTimeVariability: 4},
		},
		TargetQuantity:   250,
		ProductionVolume: 1000,
		ProductionPeriod: 12,
		LaborRates:       dto.LaborRates{Assembly: 65, Testing: 80, Packaging: 30, Quality: 90},
		OverheadRates:    dto.OverheadRates{Manufacturing: 35, Quality: 10, Logistics: 5, Administration: 12},
		QualityCosts:     dto.QualityCosts{Inspection: 40, Testing: 120, Certification: 60, Warranty: 25},
		LogisticsCosts:   dto.LogisticsCosts{Inbound: 12, Outbound: 18, Warehousing: 6, Handling: 4},
		TargetMargin:     30,

		IncludeInventoryAnalysis: true,
		IncludeRiskAnalysis:      true,
		IncludeSupplierAnalysis:  true,
		IncludeCostOptimization:  true,
		MonteCarloSamples:        5000,
	}
}
