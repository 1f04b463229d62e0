package inventory

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/repositories"
)

// Policy holds the tunable inventory constants
type Policy struct {
	FixedOrderingCost          float64 `yaml:"fixedOrderingCost"`
	CarryingCostRate           float64 `yaml:"carryingCostRate"`
	DefaultLeadTimeVariability float64 `yaml:"defaultLeadTimeVariability"` // days
	DaysPerYear                float64 `yaml:"daysPerYear"`
	// TurnoverNormalization divides the inventory value in the turnover ratio
	TurnoverNormalization float64 `yaml:"turnoverNormalization"`
}

// DefaultPolicy returns the reference constants
func DefaultPolicy() Policy {
	return Policy{
		FixedOrderingCost:          50,
		CarryingCostRate:           0.25,
		DefaultLeadTimeVariability: 2,
		DaysPerYear:                365,
		TurnoverNormalization:      1000,
	}
}

// Demand describes the production plan items are consumed by
type Demand struct {
	ProductionVolume float64
	ProductionPeriod float64 // months
}

// Annual converts the plan to units per year
func (d Demand) Annual() float64 {
	return d.ProductionVolume * 12 / d.ProductionPeriod
}

// Analyzer derives inventory policy for every item of a BOM
type Analyzer struct {
	policy    Policy
	suppliers repositories.SupplierRepository
	logger    logrus.FieldLogger
}

// NewAnalyzer creates an inventory analyzer
func NewAnalyzer(policy Policy, suppliers repositories.SupplierRepository, logger logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		policy:    policy,
		suppliers: suppliers,
		logger:    logger,
	}
}

// ItemPolicy computes EOQ, safety stock, reorder point and the cost of
// carrying one item. Zero unit cost yields an infinite EOQ, which propagates.
func (a *Analyzer) ItemPolicy(item *entities.Item, demand Demand, leadTimeVariability float64) dto.ItemInventoryPolicy {
	p := a.policy
	annualDemand := item.Quantity * demand.Annual()
	dailyDemand := annualDemand / p.DaysPerYear

	eoq := math.Sqrt(2 * annualDemand * p.FixedOrderingCost / (item.UnitCost * p.CarryingCostRate))
	safetyStock := leadTimeVariability * math.Sqrt(dailyDemand)
	reorderPoint := dailyDemand*float64(item.LeadTimeDays) + safetyStock
	averageInventory := eoq/2 + safetyStock

	carryingCost := averageInventory * item.UnitCost * p.CarryingCostRate
	orderingCost := 0.0
	if annualDemand != 0 {
		orderingCost = annualDemand / eoq * p.FixedOrderingCost
	}

	return dto.ItemInventoryPolicy{
		ItemName:              item.Name,
		SupplierID:            item.SupplierID,
		LeadTimeDays:          item.LeadTimeDays,
		UnitCost:              dto.Amount(item.UnitCost),
		AnnualDemand:          dto.Amount(annualDemand),
		EconomicOrderQuantity: dto.Amount(eoq),
		RecommendedOrderQty:   dto.Amount(math.Max(math.Ceil(eoq), item.MinOrderQty)),
		LeadTimeVariability:   dto.Amount(leadTimeVariability),
		SafetyStock:           dto.Amount(safetyStock),
		ReorderPoint:          dto.Amount(reorderPoint),
		AverageInventory:      dto.Amount(averageInventory),
		InventoryValue:        dto.Amount(averageInventory * item.UnitCost),
		ReorderPointValue:     dto.Amount(reorderPoint * item.UnitCost),
		SafetyStockValue:      dto.Amount(safetyStock * item.UnitCost),
		CarryingCost:          dto.Amount(carryingCost),
		OrderingCost:          dto.Amount(orderingCost),
		TotalInventoryCost:    dto.Amount(carryingCost + orderingCost),
	}
}

// Analyze walks every item of the tree. Items whose supplier is unknown use
// the default lead-time variability.
func (a *Analyzer) Analyze(tree *entities.BOMTree, demand Demand) (dto.InventoryAnalysis, error) {
	analysis := dto.InventoryAnalysis{
		Items: make([]dto.ItemInventoryPolicy, 0, tree.ItemCount()),
	}

	var walkErr error
	var totals struct {
		value, reorder, safety, carrying, ordering float64
	}

	tree.WalkItems(func(node *entities.AssemblyNode, item *entities.Item) {
		if walkErr != nil {
			return
		}

		variability := a.policy.DefaultLeadTimeVariability
		supplier, err := a.suppliers.GetSupplier(item.SupplierID)
		switch {
		case err == nil:
			variability = supplier.LeadTimeVariability
		case errors.Is(err, repositories.ErrSupplierNotFound):
			a.logger.WithFields(logrus.Fields{
				"item":        item.Name,
				"supplier_id": item.SupplierID,
			}).Debug("supplier not found, using default lead time variability")
		default:
			walkErr = fmt.Errorf("failed to look up supplier for item %s: %w", item.Name, err)
			return
		}

		policy := a.ItemPolicy(item, demand, variability)
		policy.AssemblyName = node.Assembly.Name
		policy.SupplierFound = err == nil
		analysis.Items = append(analysis.Items, policy)

		totals.value += policy.InventoryValue.Float64()
		totals.reorder += policy.ReorderPointValue.Float64()
		totals.safety += policy.SafetyStockValue.Float64()
		totals.carrying += policy.CarryingCost.Float64()
		totals.ordering += policy.OrderingCost.Float64()
	})
	if walkErr != nil {
		return dto.InventoryAnalysis{}, walkErr
	}

	analysis.TotalInventoryValue = dto.Amount(totals.value)
	analysis.TotalReorderPointValue = dto.Amount(totals.reorder)
	analysis.TotalSafetyStockValue = dto.Amount(totals.safety)
	analysis.TotalCarryingCost = dto.Amount(totals.carrying)
	analysis.TotalOrderingCost = dto.Amount(totals.ordering)
	analysis.TotalInventoryCost = dto.Amount(totals.carrying + totals.ordering)

	turnover, days, undefined := a.turnover(demand, totals.value)
	analysis.TurnoverRate = dto.Amount(turnover)
	analysis.DaysOfInventory = dto.Amount(days)
	analysis.TurnoverUndefined = undefined

	return analysis, nil
}

// turnover guards both divisions: a zero inventory value, or a zero
// turnover feeding days of inventory, reports undefined with zero figures
func (a *Analyzer) turnover(demand Demand, totalValue float64) (float64, float64, bool) {
	if totalValue == 0 {
		return 0, 0, true
	}
	rate := demand.Annual() / (totalValue / a.policy.TurnoverNormalization)
	if rate == 0 {
		return 0, 0, true
	}
	return rate, a.policy.DaysPerYear / rate, false
}
