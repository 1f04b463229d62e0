package entities

import (
	"fmt"
	"strings"
)

// SupplierID is the key items use to reference a supplier
type SupplierID = string

// VolumeDiscount is a price break offered from MinQuantity upwards
type VolumeDiscount struct {
	MinQuantity        float64 `json:"minQuantity" yaml:"minQuantity"`
	DiscountPercentage float64 `json:"discountPercentage" yaml:"discountPercentage"`
}

// Supplier is an entry of the flat supplier lookup table
type Supplier struct {
	ID                  SupplierID       `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Reliability         float64          `json:"reliability" yaml:"reliability"`     // 0-100
	QualityRating       float64          `json:"qualityRating" yaml:"qualityRating"` // 0-100
	LeadTimeVariability float64          `json:"leadTimeVariability" yaml:"leadTimeVariability"`
	VolumeDiscounts     []VolumeDiscount `json:"volumeDiscounts,omitempty" yaml:"volumeDiscounts,omitempty"`
}

// NewSupplier creates a validated Supplier
func NewSupplier(
	id, name string,
	reliability, qualityRating, leadTimeVariability float64,
	discounts []VolumeDiscount,
) (*Supplier, error) {
	supplier := &Supplier{
		ID:                  id,
		Name:                name,
		Reliability:         reliability,
		QualityRating:       qualityRating,
		LeadTimeVariability: leadTimeVariability,
		VolumeDiscounts:     discounts,
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Validate checks ranges of the supplier fields
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("supplier id cannot be empty")
	}
	if s.Reliability < 0 || s.Reliability > 100 {
		return fmt.Errorf("supplier %s: reliability must be between 0 and 100, got %v", s.ID, s.Reliability)
	}
	if s.QualityRating < 0 || s.QualityRating > 100 {
		return fmt.Errorf("supplier %s: quality rating must be between 0 and 100, got %v", s.ID, s.QualityRating)
	}
	if s.LeadTimeVariability < 0 {
		return fmt.Errorf("supplier %s: lead time variability cannot be negative, got %v", s.ID, s.LeadTimeVariability)
	}
	for _, d := range s.VolumeDiscounts {
		if d.MinQuantity < 0 {
			return fmt.Errorf("supplier %s: discount minimum quantity cannot be negative, got %v", s.ID, d.MinQuantity)
		}
		if d.DiscountPercentage < 0 || d.DiscountPercentage > 100 {
			return fmt.Errorf("supplier %s: discount percentage must be between 0 and 100, got %v", s.ID, d.DiscountPercentage)
		}
	}
	return nil
}

// BestDiscountFor returns the tier with the highest discount whose MinQuantity
// does not exceed quantity. Earlier tiers win ties.
func (s *Supplier) BestDiscountFor(quantity float64) (VolumeDiscount, bool) {
	var best VolumeDiscount
	found := false
	for _, tier := range s.VolumeDiscounts {
		if tier.MinQuantity > quantity {
			continue
		}
		if !found || tier.DiscountPercentage > best.DiscountPercentage {
			best = tier
			found = true
		}
	}
	return best, found
}
