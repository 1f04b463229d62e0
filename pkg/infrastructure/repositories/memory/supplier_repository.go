package memory

import (
	"fmt"

	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/repositories"
)

// SupplierRepository provides in-memory supplier storage
type SupplierRepository struct {
	suppliers    []entities.Supplier
	suppliersMap map[entities.SupplierID]int
}

// NewSupplierRepository creates a new in-memory supplier repository
func NewSupplierRepository(expectedSuppliers int) *SupplierRepository {
	return &SupplierRepository{
		suppliers:    make([]entities.Supplier, 0, expectedSuppliers),
		suppliersMap: make(map[entities.SupplierID]int, expectedSuppliers),
	}
}

// NewSupplierRepositoryFrom builds a repository from a supplier table
func NewSupplierRepositoryFrom(suppliers []entities.Supplier) (*SupplierRepository, error) {
	repo := NewSupplierRepository(len(suppliers))
	for _, supplier := range suppliers {
		if err := repo.AddSupplier(supplier); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// Verify interface compliance
var _ repositories.SupplierRepository = (*SupplierRepository)(nil)

// LoadSuppliers loads suppliers into the repository
func (r *SupplierRepository) LoadSuppliers(suppliers []*entities.Supplier) error {
	for _, supplier := range suppliers {
		if err := r.AddSupplier(*supplier); err != nil {
			return err
		}
	}
	return nil
}

// AddSupplier adds a supplier, rejecting duplicate ids
func (r *SupplierRepository) AddSupplier(supplier entities.Supplier) error {
	if _, exists := r.suppliersMap[supplier.ID]; exists {
		return fmt.Errorf("duplicate supplier id: %s", supplier.ID)
	}
	r.suppliersMap[supplier.ID] = len(r.suppliers)
	r.suppliers = append(r.suppliers, supplier)
	return nil
}

// GetSupplier returns the supplier with the given id
func (r *SupplierRepository) GetSupplier(id entities.SupplierID) (*entities.Supplier, error) {
	index, exists := r.suppliersMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrSupplierNotFound, id)
	}
	return &r.suppliers[index], nil
}

// GetAllSuppliers returns all suppliers in insertion order
func (r *SupplierRepository) GetAllSuppliers() ([]*entities.Supplier, error) {
	suppliers := make([]*entities.Supplier, 0, len(r.suppliers))
	for i := range r.suppliers {
		suppliers = append(suppliers, &r.suppliers[i])
	}
	return suppliers, nil
}

// Len returns the number of suppliers held
func (r *SupplierRepository) Len() int {
	return len(r.suppliers)
}
