package memory

import (
	"errors"
	"strings"
	"testing"

	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/repositories"
)

func TestSupplierRepository_AddAndGet(t *testing.T) {
	repo := NewSupplierRepository(2)

	supplier := entities.Supplier{
		ID:                  "SUPP-001",
		Name:                "Acme Semiconductors",
		Reliability:         95,
		QualityRating:       92,
		LeadTimeVariability: 3,
	}

	if err := repo.AddSupplier(supplier); err != nil {
		t.Fatalf("Failed to add supplier: %v", err)
	}

	retrieved, err := repo.GetSupplier("SUPP-001")
	if err != nil {
		t.Fatalf("Failed to get supplier: %v", err)
	}
	if retrieved.Name != supplier.Name {
		t.Errorf("Expected name %s, got %s", supplier.Name, retrieved.Name)
	}
	if retrieved.Reliability != supplier.Reliability {
		t.Errorf("Expected reliability %v, got %v", supplier.Reliability, retrieved.Reliability)
	}
}

func TestSupplierRepository_Duplicate(t *testing.T) {
	repo := NewSupplierRepository(2)

	if err := repo.AddSupplier(entities.Supplier{ID: "DUP", Name: "First"}); err != nil {
		t.Fatalf("Failed to add supplier first time: %v", err)
	}

	err := repo.AddSupplier(entities.Supplier{ID: "DUP", Name: "Second"})
	if err == nil {
		t.Fatal("Expected error when adding duplicate supplier id, got none")
	}
	if !strings.Contains(err.Error(), "duplicate supplier id") {
		t.Errorf("Expected error message to contain 'duplicate supplier id', got: %v", err)
	}

	retrieved, _ := repo.GetSupplier("DUP")
	if retrieved.Name != "First" {
		t.Errorf("Expected original name 'First', got %s", retrieved.Name)
	}
}

func TestSupplierRepository_NotFound(t *testing.T) {
	repo := NewSupplierRepository(0)

	_, err := repo.GetSupplier("NONEXISTENT")
	if err == nil {
		t.Fatal("Expected error for nonexistent supplier, got none")
	}
	if !errors.Is(err, repositories.ErrSupplierNotFound) {
		t.Errorf("Expected ErrSupplierNotFound, got: %v", err)
	}
}

func TestSupplierRepository_KeepsTableOrder(t *testing.T) {
	suppliers := []*entities.Supplier{
		{ID: "C"}, {ID: "A"}, {ID: "B"},
	}
	repo := NewSupplierRepository(len(suppliers))
	if err := repo.LoadSuppliers(suppliers); err != nil {
		t.Fatalf("Failed to load suppliers: %v", err)
	}

	all, err := repo.GetAllSuppliers()
	if err != nil {
		t.Fatalf("Failed to list suppliers: %v", err)
	}
	got := make([]string, 0, len(all))
	for _, s := range all {
		got = append(got, s.ID)
	}
	if strings.Join(got, ",") != "C,A,B" {
		t.Errorf("Expected table order C,A,B, got %v", got)
	}
	if repo.Len() != 3 {
		t.Errorf("Expected 3 suppliers, got %d", repo.Len())
	}
}

func TestNewSupplierRepositoryFrom_RejectsDuplicates(t *testing.T) {
	_, err := NewSupplierRepositoryFrom([]entities.Supplier{{ID: "X"}, {ID: "X"}})
	if err == nil {
		t.Fatal("Expected duplicate error")
	}
}
