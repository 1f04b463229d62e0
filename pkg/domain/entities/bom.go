package entities

import (
	"fmt"
	"strings"
)

// Assembly is an internal node of the BOM: it owns its items and sub-assemblies
type Assembly struct {
	Name          string      `json:"name" yaml:"name"`
	Level         int         `json:"level" yaml:"level"`
	Items         []Item      `json:"items" yaml:"items"`
	SubAssemblies []*Assembly `json:"subAssemblies,omitempty" yaml:"subAssemblies,omitempty"`
	SetupTime     float64     `json:"setupTime" yaml:"setupTime"` // hours
	CycleTime     float64     `json:"cycleTime" yaml:"cycleTime"` // minutes per unit
	ToolingCost   float64     `json:"toolingCost" yaml:"toolingCost"`
	EquipmentCost float64     `json:"equipmentCost" yaml:"equipmentCost"`
	YieldPercent  float64     `json:"yield" yaml:"yield"`
	ScrapRate     float64     `json:"scrapRate" yaml:"scrapRate"`
}

// NewAssembly creates a validated Assembly without children; items and
// sub-assemblies are attached by the caller while building the tree
func NewAssembly(
	name string,
	level int,
	setupTime, cycleTime float64,
	toolingCost, equipmentCost float64,
	yieldPercent, scrapRate float64,
) (*Assembly, error) {
	assembly := &Assembly{
		Name:          name,
		Level:         level,
		Items:         make([]Item, 0),
		SubAssemblies: make([]*Assembly, 0),
		SetupTime:     setupTime,
		CycleTime:     cycleTime,
		ToolingCost:   toolingCost,
		EquipmentCost: equipmentCost,
		YieldPercent:  yieldPercent,
		ScrapRate:     scrapRate,
	}
	if err := assembly.Validate(); err != nil {
		return nil, err
	}
	return assembly, nil
}

// Validate checks the assembly's own fields (not its items or children)
func (a *Assembly) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("assembly name cannot be empty")
	}
	if a.Level < 0 {
		return fmt.Errorf("assembly %s: level cannot be negative, got %d", a.Name, a.Level)
	}
	if a.SetupTime < 0 {
		return fmt.Errorf("assembly %s: setup time cannot be negative, got %v", a.Name, a.SetupTime)
	}
	if a.CycleTime < 0 {
		return fmt.Errorf("assembly %s: cycle time cannot be negative, got %v", a.Name, a.CycleTime)
	}
	if a.ToolingCost < 0 {
		return fmt.Errorf("assembly %s: tooling cost cannot be negative, got %v", a.Name, a.ToolingCost)
	}
	if a.EquipmentCost < 0 {
		return fmt.Errorf("assembly %s: equipment cost cannot be negative, got %v", a.Name, a.EquipmentCost)
	}
	if a.YieldPercent < 0 || a.YieldPercent > 100 {
		return fmt.Errorf("assembly %s: yield must be between 0 and 100, got %v", a.Name, a.YieldPercent)
	}
	if a.ScrapRate < 0 || a.ScrapRate > 100 {
		return fmt.Errorf("assembly %s: scrap rate must be between 0 and 100, got %v", a.Name, a.ScrapRate)
	}
	return nil
}

// AddItem attaches an item to the assembly
func (a *Assembly) AddItem(item Item) {
	a.Items = append(a.Items, item)
}

// AddSubAssembly attaches a child assembly
func (a *Assembly) AddSubAssembly(child *Assembly) error {
	if child == nil {
		return fmt.Errorf("assembly %s: sub-assembly cannot be nil", a.Name)
	}
	if child == a {
		return fmt.Errorf("assembly %s cannot contain itself", a.Name)
	}
	a.SubAssemblies = append(a.SubAssemblies, child)
	return nil
}
