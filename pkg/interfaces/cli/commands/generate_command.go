package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomcost/pkg/application/dto"
	loader "github.com/vsinha/bomcost/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Assemblies       int    // Total number of assemblies including the root
	MaxDepth         int    // Maximum depth of the assembly tree
	ItemsPerAssembly int    // Upper bound of purchased items per assembly
	Suppliers        int    // Number of suppliers to spread items over
	TargetQuantity   int    // Units to cost
	OutputDir        string // Output directory for generated files
	Seed             int64  // Random seed for reproducible generation
	Verbose          bool   // Verbose output
}

// GenerateCommand writes a random but valid scenario directory
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// AssemblyNode represents a node in the generated assembly tree
type AssemblyNode struct {
	Name     string
	Parent   *AssemblyNode
	Depth    int
	Children []*AssemblyNode
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context, out io.Writer) error {
	if err := cmd.validateConfig(); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Fprintf(out,
			"🔧 Generating scenario with %d assemblies, max depth %d, up to %d items each, %d suppliers\n",
			cmd.config.Assemblies,
			cmd.config.MaxDepth,
			cmd.config.ItemsPerAssembly,
			cmd.config.Suppliers,
		)
		fmt.Fprintf(out, "📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	nodes := cmd.generateAssemblyTree()
	supplierIDs := make([]string, cmd.config.Suppliers)
	for i := range supplierIDs {
		supplierIDs[i] = fmt.Sprintf("SUPP-%03d", i+1)
	}

	steps := []struct {
		file string
		fn   func() error
	}{
		{loader.AssembliesFile, func() error { return cmd.generateAssemblies(nodes) }},
		{loader.ItemsFile, func() error { return cmd.generateItems(nodes, supplierIDs) }},
		{loader.SuppliersFile, func() error { return cmd.generateSuppliers(supplierIDs) }},
		{loader.RequestFile, cmd.generateRequest},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cmd.config.Verbose {
			fmt.Fprintf(out, "📦 Generating %s...\n", step.file)
		}
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to generate %s: %w", step.file, err)
		}
	}

	if cmd.config.Verbose {
		fmt.Fprintf(out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validateConfig() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("output directory is required")
	case cmd.config.Assemblies < 1:
		return fmt.Errorf("assemblies must be at least 1, got %d", cmd.config.Assemblies)
	case cmd.config.MaxDepth < 0:
		return fmt.Errorf("max depth cannot be negative, got %d", cmd.config.MaxDepth)
	case cmd.config.ItemsPerAssembly < 1:
		return fmt.Errorf("items per assembly must be at least 1, got %d", cmd.config.ItemsPerAssembly)
	case cmd.config.Suppliers < 1:
		return fmt.Errorf("suppliers must be at least 1, got %d", cmd.config.Suppliers)
	case cmd.config.TargetQuantity < 0:
		return fmt.Errorf("target quantity cannot be negative, got %d", cmd.config.TargetQuantity)
	}
	return nil
}

// generateAssemblyTree attaches each new assembly to a random existing one
// that is still above the depth limit. Nodes are returned parents first.
func (cmd *GenerateCommand) generateAssemblyTree() []*AssemblyNode {
	root := &AssemblyNode{Name: "Final Assembly"}
	nodes := []*AssemblyNode{root}

	for i := 1; i < cmd.config.Assemblies; i++ {
		candidates := make([]*AssemblyNode, 0, len(nodes))
		for _, node := range nodes {
			if node.Depth < cmd.config.MaxDepth {
				candidates = append(candidates, node)
			}
		}
		if len(candidates) == 0 {
			break
		}

		parent := candidates[cmd.rand.Intn(len(candidates))]
		child := &AssemblyNode{
			Name:   fmt.Sprintf("SUBASSY_L%d_%03d", parent.Depth+1, i),
			Parent: parent,
			Depth:  parent.Depth + 1,
		}
		parent.Children = append(parent.Children, child)
		nodes = append(nodes, child)
	}

	return nodes
}

func (cmd *GenerateCommand) generateAssemblies(nodes []*AssemblyNode) error {
	rows := make([][]string, 0, len(nodes))
	for _, node := range nodes {
		parent := ""
		if node.Parent != nil {
			parent = node.Parent.Name
		}
		// Deeper assemblies are simpler: less setup, faster cycles
		setup := 0.5 + cmd.rand.Float64()*float64(4-min(node.Depth, 3))
		cycle := 1 + cmd.rand.Float64()*10/float64(node.Depth+1)
		rows = append(rows, []string{
			node.Name,
			parent,
			strconv.Itoa(node.Depth),
			formatFloat(setup, 2),
			formatFloat(cycle, 2),
			money(cmd.rand.Float64() * 5000),
			money(cmd.rand.Float64() * 10000),
			formatFloat(90+cmd.rand.Float64()*10, 1),
			formatFloat(cmd.rand.Float64()*3, 1),
		})
	}
	header := []string{"name", "parent", "level", "setup_time", "cycle_time", "tooling_cost", "equipment_cost", "yield_percent", "scrap_rate"}
	return cmd.writeCSV(loader.AssembliesFile, header, rows)
}

func (cmd *GenerateCommand) generateItems(nodes []*AssemblyNode, supplierIDs []string) error {
	componentTypes := []string{"Resistor", "Capacitor", "Connector", "Bracket", "Fastener", "Housing", "Sensor", "Cable"}
	grades := []string{"A", "A", "B", "B", "B", "C", "D"}

	rows := make([][]string, 0)
	count := 0
	for _, node := range nodes {
		numItems := 1 + cmd.rand.Intn(cmd.config.ItemsPerAssembly)
		for i := 0; i < numItems; i++ {
			count++
			supplier := supplierIDs[cmd.rand.Intn(len(supplierIDs))]

			alternatives := make([]string, 0)
			if len(supplierIDs) > 1 && cmd.rand.Float64() < 0.3 {
				alt := supplierIDs[cmd.rand.Intn(len(supplierIDs))]
				if alt != supplier {
					alternatives = append(alternatives, alt)
				}
			}

			rows = append(rows, []string{
				node.Name,
				fmt.Sprintf("%s_%04d", componentTypes[cmd.rand.Intn(len(componentTypes))], count),
				strconv.Itoa(1 + cmd.rand.Intn(8)),
				money(0.01 + cmd.rand.Float64()*cmd.rand.Float64()*200),
				supplier,
				strconv.Itoa(5 + cmd.rand.Intn(90)),
				strconv.Itoa(cmd.rand.Intn(50)),
				strconv.Itoa([]int{1, 10, 50, 100, 500}[cmd.rand.Intn(5)]),
				grades[cmd.rand.Intn(len(grades))],
				strconv.FormatBool(cmd.rand.Float64() < 0.15),
				strings.Join(alternatives, ";"),
			})
		}
	}

	header := []string{"assembly", "name", "quantity", "unit_cost", "supplier_id", "lead_time_days", "safety_stock",
		"min_order_qty", "quality_grade", "critical", "alternative_suppliers"}
	return cmd.writeCSV(loader.ItemsFile, header, rows)
}

func (cmd *GenerateCommand) generateSuppliers(supplierIDs []string) error {
	rows := make([][]string, 0, len(supplierIDs))
	for i, id := range supplierIDs {
		discounts := ""
		if cmd.rand.Float64() < 0.5 {
			discounts = fmt.Sprintf("100:%d;1000:%d", 2+cmd.rand.Intn(3), 6+cmd.rand.Intn(6))
		}
		rows = append(rows, []string{
			id,
			fmt.Sprintf("Supplier %d", i+1),
			formatFloat(70+cmd.rand.Float64()*29, 1),
			formatFloat(70+cmd.rand.Float64()*29, 1),
			formatFloat(1+cmd.rand.Float64()*6, 1),
			discounts,
		})
	}
	header := []string{"id", "name", "reliability", "quality_rating", "lead_time_variability", "volume_discounts"}
	return cmd.writeCSV(loader.SuppliersFile, header, rows)
}

func (cmd *GenerateCommand) generateRequest() error {
	quantity := float64(cmd.config.TargetQuantity)
	req := dto.BOMRequest{
		ProductName:      "Generated Product",
		Currency:         "USD",
		TargetQuantity:   quantity,
		ProductionVolume: quantity * 12,
		ProductionPeriod: 12,
		LaborRates:       dto.LaborRates{Assembly: 35, Testing: 40, Packaging: 22, Quality: 45},
		OverheadRates:    dto.OverheadRates{Manufacturing: 25, Quality: 5, Logistics: 5, Administration: 10},
		QualityCosts:     dto.QualityCosts{Inspection: 0.5, Testing: 1.2, Certification: 0.1, Warranty: 0.8},
		LogisticsCosts:   dto.LogisticsCosts{Inbound: 0.4, Outbound: 0.6, Warehousing: 0.3, Handling: 0.2},
		TargetMargin:     25,

		IncludeInventoryAnalysis: true,
		IncludeRiskAnalysis:      true,
		IncludeSupplierAnalysis:  true,
		IncludeCostOptimization:  true,
	}

	data, err := yaml.Marshal(&req)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cmd.config.OutputDir, loader.RequestFile), data, 0644)
}

func (cmd *GenerateCommand) writeCSV(name string, header []string, rows [][]string) error {
	file, err := os.Create(filepath.Join(cmd.config.OutputDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	return writer.WriteAll(rows)
}

func money(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func formatFloat(value float64, places int) string {
	return strconv.FormatFloat(value, 'f', places, 64)
}

func newGenerateCommand(app *App) *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random scenario directory",
		Example: `  # Generate small test scenario
  bomcost generate --assemblies 10 --max-depth 3 --output ./test_scenario

  # Generate reproducible scenario
  bomcost generate --assemblies 200 --max-depth 6 --items 12 --output ./repro_scenario --seed 12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewGenerateCommand(config).Execute(cmd.Context(), app.Out)
		},
	}

	cmd.Flags().IntVar(&config.Assemblies, "assemblies", 10, "Number of assemblies including the root")
	cmd.Flags().IntVar(&config.MaxDepth, "max-depth", 3, "Maximum depth of the assembly tree")
	cmd.Flags().IntVar(&config.ItemsPerAssembly, "items", 5, "Maximum purchased items per assembly")
	cmd.Flags().IntVar(&config.Suppliers, "suppliers", 5, "Number of suppliers")
	cmd.Flags().IntVar(&config.TargetQuantity, "quantity", 1000, "Target quantity to cost")
	cmd.Flags().StringVar(&config.OutputDir, "output", "", "Output directory for generated files")
	cmd.Flags().Int64Var(&config.Seed, "seed", 0, "Random seed for reproducible generation")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.MarkFlagRequired("output")

	return cmd
}
