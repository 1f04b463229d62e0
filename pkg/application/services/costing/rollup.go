package costing

import (
	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
)

// AssemblyRollup holds the cost components of one assembly. MaterialCost
// includes the full TotalCost of every child; OwnMaterialCost is the
// assembly's item lines only.
type AssemblyRollup struct {
	OwnMaterialCost float64
	SubAssemblyCost float64
	MaterialCost    float64
	LaborCost       float64
	OverheadCost    float64
	ToolingCost     float64
	EquipmentCost   float64
	TotalCost       float64
}

// ItemMaterialCost is the material charge of one item line for a production run
func ItemMaterialCost(item *entities.Item, targetQuantity float64) float64 {
	return item.Quantity*item.UnitCost*targetQuantity + item.SafetyStock*item.UnitCost
}

// RollupTree computes a rollup for every node of the tree, indexed like the
// tree's nodes. Children are visited before parents via an explicit
// post-order, so depth is bounded only by memory.
func RollupTree(
	tree *entities.BOMTree,
	targetQuantity float64,
	laborRates dto.LaborRates,
	overheadRates dto.OverheadRates,
) []AssemblyRollup {
	rollups := make([]AssemblyRollup, tree.Len())

	for _, index := range tree.PostOrder() {
		node := tree.Node(index)
		assembly := node.Assembly

		var r AssemblyRollup
		for i := range assembly.Items {
			r.OwnMaterialCost += ItemMaterialCost(&assembly.Items[i], targetQuantity)
		}
		for _, child := range node.Children {
			r.SubAssemblyCost += rollups[child].TotalCost
		}
		r.MaterialCost = r.OwnMaterialCost + r.SubAssemblyCost

		r.LaborCost = assembly.SetupTime*laborRates.Assembly +
			(assembly.CycleTime/60)*targetQuantity*laborRates.Assembly
		r.OverheadCost = r.LaborCost * overheadRates.Manufacturing / 100
		r.ToolingCost = assembly.ToolingCost
		r.EquipmentCost = assembly.EquipmentCost
		r.TotalCost = r.MaterialCost + r.LaborCost + r.OverheadCost + r.ToolingCost + r.EquipmentCost

		rollups[index] = r
	}

	return rollups
}

// RollupAssemblyCost rolls up a single assembly and its descendants. It
// fails when the assembly graph is not a tree.
func RollupAssemblyCost(
	assembly *entities.Assembly,
	targetQuantity float64,
	laborRates dto.LaborRates,
	overheadRates dto.OverheadRates,
) (AssemblyRollup, error) {
	tree, err := entities.NewBOMTree([]*entities.Assembly{assembly})
	if err != nil {
		return AssemblyRollup{}, err
	}
	rollups := RollupTree(tree, targetQuantity, laborRates, overheadRates)
	return rollups[tree.Roots()[0]], nil
}
