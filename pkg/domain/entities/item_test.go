package entities

import "testing"

func TestItem_Validation(t *testing.T) {
	validItem, err := NewItem("Microprocessor", 1, 50, "SUPP-001", 30, 100, 500, GradeA, true, []string{"SUPP-002"})
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if validItem.Name != "Microprocessor" {
		t.Errorf("Expected name Microprocessor, got %s", validItem.Name)
	}
	if validItem.ExtendedCost() != 50 {
		t.Errorf("Expected extended cost 50, got %v", validItem.ExtendedCost())
	}

	// Test validation failures
	testCases := []struct {
		name        string
		itemName    string
		quantity    float64
		unitCost    float64
		leadTime    int
		safetyStock float64
		minOrderQty float64
		grade       QualityGrade
		expectError string
	}{
		{"empty name", "", 1, 1, 1, 0, 0, GradeA, "item name cannot be empty"},
		{"negative quantity", "BOLT", -1, 1, 1, 0, 0, GradeA, "item BOLT: quantity cannot be negative, got -1"},
		{"negative unit cost", "BOLT", 1, -0.5, 1, 0, 0, GradeA, "item BOLT: unit cost cannot be negative, got -0.5"},
		{"negative lead time", "BOLT", 1, 1, -3, 0, 0, GradeA, "item BOLT: lead time cannot be negative, got -3"},
		{"negative safety stock", "BOLT", 1, 1, 1, -2, 0, GradeA, "item BOLT: safety stock cannot be negative, got -2"},
		{"negative minimum order", "BOLT", 1, 1, 1, 0, -5, GradeA, "item BOLT: minimum order quantity cannot be negative, got -5"},
		{"missing grade", "BOLT", 1, 1, 1, 0, 0, GradeUnspecified, "item BOLT: quality grade must be one of A, B, C, D"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.itemName, tc.quantity, tc.unitCost, "SUPP", tc.leadTime, tc.safetyStock, tc.minOrderQty, tc.grade, false, nil)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestItem_ZeroQuantityAllowed(t *testing.T) {
	item, err := NewItem("SPARE", 0, 0, "", 0, 0, 0, GradeB, false, nil)
	if err != nil {
		t.Fatalf("Expected zero quantities to be accepted: %v", err)
	}
	if item.ExtendedCost() != 0 {
		t.Errorf("Expected extended cost 0, got %v", item.ExtendedCost())
	}
}

func TestQualityGrade_Parse(t *testing.T) {
	testCases := []struct {
		input    string
		expected QualityGrade
		review   bool
	}{
		{"A", GradeA, false},
		{"b", GradeB, false},
		{" C ", GradeC, true},
		{"d", GradeD, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			grade, err := ParseQualityGrade(tc.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if grade != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, grade)
			}
			if grade.NeedsQualityReview() != tc.review {
				t.Errorf("Expected review=%v for grade %v", tc.review, grade)
			}
		})
	}

	if _, err := ParseQualityGrade("E"); err == nil {
		t.Error("Expected error for grade E")
	}

	var grade QualityGrade
	if err := grade.UnmarshalText([]byte("C")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, _ := grade.MarshalText()
	if string(text) != "C" {
		t.Errorf("Expected round trip C, got %s", text)
	}
}
