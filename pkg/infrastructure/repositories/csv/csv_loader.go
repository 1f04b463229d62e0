package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/services/bom_validator"
)

// Scenario file names inside a scenario directory
const (
	AssembliesFile = "assemblies.csv"
	ItemsFile      = "items.csv"
	SuppliersFile  = "suppliers.csv"
	RequestFile    = "request.yaml"
)

var (
	assembliesHeader = []string{"name", "parent", "level", "setup_time", "cycle_time", "tooling_cost", "equipment_cost", "yield_percent", "scrap_rate"}
	itemsHeader      = []string{"assembly", "name", "quantity", "unit_cost", "supplier_id", "lead_time_days", "safety_stock", "min_order_qty", "quality_grade", "critical", "alternative_suppliers"}
	suppliersHeader  = []string{"id", "name", "reliability", "quality_rating", "lead_time_variability", "volume_discounts"}
)

// AssemblyRow is one line of assemblies.csv before the tree is linked
type AssemblyRow struct {
	Assembly *entities.Assembly
	Parent   string
}

// Loader handles loading BOM scenarios from CSV and YAML files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads request.yaml and the three CSV tables from dir and
// links the assembly rows into a tree
func (l *Loader) LoadScenario(dir string) (*dto.BOMRequest, error) {
	req, err := l.LoadRequest(filepath.Join(dir, RequestFile))
	if err != nil {
		return nil, err
	}

	rows, err := l.LoadAssemblies(filepath.Join(dir, AssembliesFile))
	if err != nil {
		return nil, err
	}
	roots, byName, err := LinkAssemblies(rows)
	if err != nil {
		return nil, err
	}

	if err := l.LoadItems(filepath.Join(dir, ItemsFile), byName); err != nil {
		return nil, err
	}

	suppliers, err := l.LoadSuppliers(filepath.Join(dir, SuppliersFile))
	if err != nil {
		return nil, err
	}

	req.Assemblies = roots
	req.Suppliers = suppliers
	return req, nil
}

// LoadRequest decodes the request parameters (rates, flags, quantities)
func (l *Loader) LoadRequest(filename string) (*dto.BOMRequest, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open request file %s: %w", filename, err)
	}
	defer file.Close()

	req := &dto.BOMRequest{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(req); err != nil {
		return nil, fmt.Errorf("failed to decode request file %s: %w", filename, err)
	}
	return req, nil
}

// LoadAssemblies reads assemblies.csv without linking parents
func (l *Loader) LoadAssemblies(filename string) ([]AssemblyRow, error) {
	records, err := readRecords(filename, "assemblies", assembliesHeader, false)
	if err != nil {
		return nil, err
	}

	rows := make([]AssemblyRow, 0, len(records))
	for i, record := range records {
		row, err := parseAssemblyRow(record)
		if err != nil {
			return nil, fmt.Errorf("assemblies CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LinkAssemblies attaches every row to its parent. Parent links are
// checked for cycles, duplicates and shared children by name first, so a
// bad file is reported instead of producing a graph that is not a tree.
func LinkAssemblies(rows []AssemblyRow) ([]*entities.Assembly, map[string]*entities.Assembly, error) {
	byName := make(map[string]*entities.Assembly, len(rows))
	links := make([]bom_validator.AssemblyLink, 0, len(rows))

	for _, row := range rows {
		name := row.Assembly.Name
		if _, exists := byName[name]; exists {
			return nil, nil, fmt.Errorf("duplicate assembly name: %s", name)
		}
		byName[name] = row.Assembly
		if row.Parent != "" {
			links = append(links, bom_validator.AssemblyLink{Parent: row.Parent, Child: name})
		}
	}

	problems := make([]string, 0)
	for _, link := range links {
		if _, exists := byName[link.Parent]; !exists {
			problems = append(problems, fmt.Sprintf("assembly %s references unknown parent %s", link.Child, link.Parent))
		}
	}
	problems = append(problems, bom_validator.ValidateAssemblyLinks(links).Errors...)
	if err := bom_validator.AsError(problems); err != nil {
		return nil, nil, err
	}

	roots := make([]*entities.Assembly, 0)
	for _, row := range rows {
		if row.Parent == "" {
			roots = append(roots, row.Assembly)
			continue
		}
		if err := byName[row.Parent].AddSubAssembly(row.Assembly); err != nil {
			return nil, nil, err
		}
	}
	if len(roots) == 0 && len(rows) > 0 {
		return nil, nil, fmt.Errorf("assemblies CSV has no root assembly")
	}

	return roots, byName, nil
}

// LoadItems reads items.csv and appends each item to its assembly
func (l *Loader) LoadItems(filename string, assemblies map[string]*entities.Assembly) error {
	records, err := readRecords(filename, "items", itemsHeader, true)
	if err != nil {
		return err
	}

	for i, record := range records {
		assembly, exists := assemblies[strings.TrimSpace(record[0])]
		if !exists {
			return fmt.Errorf("items CSV row %d: unknown assembly %s", i+2, record[0])
		}
		item, err := parseItem(record[1:])
		if err != nil {
			return fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		assembly.AddItem(item)
	}
	return nil
}

// LoadSuppliers reads suppliers.csv; a header-only file means no suppliers
func (l *Loader) LoadSuppliers(filename string) ([]entities.Supplier, error) {
	records, err := readRecords(filename, "suppliers", suppliersHeader, true)
	if err != nil {
		return nil, err
	}

	suppliers := make([]entities.Supplier, 0, len(records))
	for i, record := range records {
		supplier, err := parseSupplier(record)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

// Helper functions for parsing CSV records

func readRecords(filename, label string, expectedHeader []string, allowEmpty bool) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", label, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", label, err)
	}

	if len(records) == 0 || (!allowEmpty && len(records) < 2) {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", label)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", label, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", label, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseAssemblyRow(record []string) (AssemblyRow, error) {
	name := strings.TrimSpace(record[0])
	parent := strings.TrimSpace(record[1])

	level, err := parseInt(record[2], "level")
	if err != nil {
		return AssemblyRow{}, err
	}
	setupTime, err := parseFloat(record[3], "setup_time")
	if err != nil {
		return AssemblyRow{}, err
	}
	cycleTime, err := parseFloat(record[4], "cycle_time")
	if err != nil {
		return AssemblyRow{}, err
	}
	toolingCost, err := parseMoney(record[5], "tooling_cost")
	if err != nil {
		return AssemblyRow{}, err
	}
	equipmentCost, err := parseMoney(record[6], "equipment_cost")
	if err != nil {
		return AssemblyRow{}, err
	}
	yieldPercent, err := parseFloat(record[7], "yield_percent")
	if err != nil {
		return AssemblyRow{}, err
	}
	scrapRate, err := parseFloat(record[8], "scrap_rate")
	if err != nil {
		return AssemblyRow{}, err
	}

	assembly, err := entities.NewAssembly(name, level, setupTime, cycleTime, toolingCost, equipmentCost, yieldPercent, scrapRate)
	if err != nil {
		return AssemblyRow{}, err
	}
	return AssemblyRow{Assembly: assembly, Parent: parent}, nil
}

func parseItem(record []string) (entities.Item, error) {
	name := strings.TrimSpace(record[0])

	quantity, err := parseFloat(record[1], "quantity")
	if err != nil {
		return entities.Item{}, err
	}
	unitCost, err := parseMoney(record[2], "unit_cost")
	if err != nil {
		return entities.Item{}, err
	}
	supplierID := strings.TrimSpace(record[3])
	leadTime, err := parseInt(record[4], "lead_time_days")
	if err != nil {
		return entities.Item{}, err
	}
	safetyStock, err := parseFloat(record[5], "safety_stock")
	if err != nil {
		return entities.Item{}, err
	}
	minOrderQty, err := parseFloat(record[6], "min_order_qty")
	if err != nil {
		return entities.Item{}, err
	}
	grade, err := entities.ParseQualityGrade(strings.TrimSpace(record[7]))
	if err != nil {
		return entities.Item{}, err
	}
	critical := false
	if raw := strings.TrimSpace(record[8]); raw != "" {
		critical, err = strconv.ParseBool(raw)
		if err != nil {
			return entities.Item{}, fmt.Errorf("invalid critical: %s", raw)
		}
	}

	item, err := entities.NewItem(name, quantity, unitCost, supplierID, leadTime, safetyStock, minOrderQty,
		grade, critical, splitList(record[9]))
	if err != nil {
		return entities.Item{}, err
	}
	return *item, nil
}

func parseSupplier(record []string) (entities.Supplier, error) {
	reliability, err := parseFloat(record[2], "reliability")
	if err != nil {
		return entities.Supplier{}, err
	}
	quality, err := parseFloat(record[3], "quality_rating")
	if err != nil {
		return entities.Supplier{}, err
	}
	variability, err := parseFloat(record[4], "lead_time_variability")
	if err != nil {
		return entities.Supplier{}, err
	}
	discounts, err := parseDiscounts(record[5])
	if err != nil {
		return entities.Supplier{}, err
	}

	supplier, err := entities.NewSupplier(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]),
		reliability, quality, variability, discounts)
	if err != nil {
		return entities.Supplier{}, err
	}
	return *supplier, nil
}

// parseDiscounts reads "100:5;500:10" as min quantity / percent pairs
func parseDiscounts(raw string) ([]entities.VolumeDiscount, error) {
	parts := splitList(raw)
	discounts := make([]entities.VolumeDiscount, 0, len(parts))
	for _, part := range parts {
		pair := strings.SplitN(part, ":", 2)
		if len(pair) != 2 {
			return nil, fmt.Errorf("invalid volume discount %q (expected min_qty:percent)", part)
		}
		minQty, err := parseFloat(pair[0], "discount min quantity")
		if err != nil {
			return nil, err
		}
		percent, err := parseFloat(pair[1], "discount percentage")
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, entities.VolumeDiscount{MinQuantity: minQty, DiscountPercentage: percent})
	}
	return discounts, nil
}

func splitList(raw string) []string {
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseFloat(raw, field string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, raw)
	}
	return value, nil
}

func parseInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, raw)
	}
	return value, nil
}

// parseMoney parses through decimal so values like "0.10" are read exactly
// as written before conversion
func parseMoney(raw, field string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, raw)
	}
	return value.InexactFloat64(), nil
}
