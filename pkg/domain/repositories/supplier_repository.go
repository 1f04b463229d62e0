package repositories

import (
	"errors"

	"github.com/vsinha/bomcost/pkg/domain/entities"
)

// ErrSupplierNotFound is returned when an item references an unknown supplier id.
// Callers treat it as "no match", never as a failure.
var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierRepository provides access to the supplier lookup table
type SupplierRepository interface {
	GetSupplier(id entities.SupplierID) (*entities.Supplier, error)
	// GetAllSuppliers returns suppliers in table (insertion) order
	GetAllSuppliers() ([]*entities.Supplier, error)
	LoadSuppliers(suppliers []*entities.Supplier) error
}
