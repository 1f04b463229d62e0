package entities

import (
	"fmt"
	"strings"
)

// QualityGrade represents the incoming quality grade of a purchased item
type QualityGrade int

const (
	GradeUnspecified QualityGrade = iota
	GradeA
	GradeB
	GradeC
	GradeD
)

// String method for QualityGrade enum
func (g QualityGrade) String() string {
	switch g {
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the grade is one of A through D
func (g QualityGrade) IsValid() bool {
	return g >= GradeA && g <= GradeD
}

// NeedsQualityReview is true for the C and D grades
func (g QualityGrade) NeedsQualityReview() bool {
	return g == GradeC || g == GradeD
}

// ParseQualityGrade converts "A".."D" (case-insensitive) into a QualityGrade
func ParseQualityGrade(s string) (QualityGrade, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return GradeA, nil
	case "B":
		return GradeB, nil
	case "C":
		return GradeC, nil
	case "D":
		return GradeD, nil
	default:
		return GradeUnspecified, fmt.Errorf("invalid quality grade: %q (expected A, B, C or D)", s)
	}
}

func (g QualityGrade) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *QualityGrade) UnmarshalText(text []byte) error {
	parsed, err := ParseQualityGrade(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Item represents a purchased leaf line of an assembly
type Item struct {
	Name                 string       `json:"name" yaml:"name"`
	Quantity             float64      `json:"quantity" yaml:"quantity"` // per parent unit
	UnitCost             float64      `json:"unitCost" yaml:"unitCost"`
	SupplierID           string       `json:"supplierId" yaml:"supplierId"`
	LeadTimeDays         int          `json:"leadTime" yaml:"leadTime"`
	SafetyStock          float64      `json:"safetyStock" yaml:"safetyStock"`
	MinOrderQty          float64      `json:"minOrderQuantity" yaml:"minOrderQuantity"`
	QualityGrade         QualityGrade `json:"qualityGrade" yaml:"qualityGrade"`
	Critical             bool         `json:"critical" yaml:"critical"`
	AlternativeSuppliers []string     `json:"alternativeSuppliers,omitempty" yaml:"alternativeSuppliers,omitempty"`
}

// NewItem creates a validated Item
func NewItem(
	name string,
	quantity, unitCost float64,
	supplierID string,
	leadTimeDays int,
	safetyStock, minOrderQty float64,
	grade QualityGrade,
	critical bool,
	alternatives []string,
) (*Item, error) {
	item := &Item{
		Name:                 name,
		Quantity:             quantity,
		UnitCost:             unitCost,
		SupplierID:           supplierID,
		LeadTimeDays:         leadTimeDays,
		SafetyStock:          safetyStock,
		MinOrderQty:          minOrderQty,
		QualityGrade:         grade,
		Critical:             critical,
		AlternativeSuppliers: alternatives,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the item's own fields; supplier references are not resolved here
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("item %s: quantity cannot be negative, got %v", i.Name, i.Quantity)
	}
	if i.UnitCost < 0 {
		return fmt.Errorf("item %s: unit cost cannot be negative, got %v", i.Name, i.UnitCost)
	}
	if i.LeadTimeDays < 0 {
		return fmt.Errorf("item %s: lead time cannot be negative, got %d", i.Name, i.LeadTimeDays)
	}
	if i.SafetyStock < 0 {
		return fmt.Errorf("item %s: safety stock cannot be negative, got %v", i.Name, i.SafetyStock)
	}
	if i.MinOrderQty < 0 {
		return fmt.Errorf("item %s: minimum order quantity cannot be negative, got %v", i.Name, i.MinOrderQty)
	}
	if !i.QualityGrade.IsValid() {
		return fmt.Errorf("item %s: quality grade must be one of A, B, C, D", i.Name)
	}
	return nil
}

// ExtendedCost is quantity per parent unit times unit cost
func (i *Item) ExtendedCost() float64 {
	return i.Quantity * i.UnitCost
}
