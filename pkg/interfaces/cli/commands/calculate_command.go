package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vsinha/bomcost/pkg/application/services"
	"github.com/vsinha/bomcost/pkg/domain/services/bom_validator"
	"github.com/vsinha/bomcost/pkg/interfaces/cli/output"
)

// CalculateConfig holds configuration for the calculate command
type CalculateConfig struct {
	Input     InputConfig
	OutputDir string
	Format    string
	Samples   int
	Seed      *int64
	Workers   int
	Verbose   bool
	Chart     bool
}

// CalculateCommand runs a full BOM calculation and renders the result
type CalculateCommand struct {
	config CalculateConfig
	policy services.Policy
	logger *logrus.Logger
}

// NewCalculateCommand creates a calculate command with the given configuration
func NewCalculateCommand(config CalculateConfig, policy services.Policy, logger *logrus.Logger) *CalculateCommand {
	return &CalculateCommand{
		config: config,
		policy: policy,
		logger: logger,
	}
}

// Execute runs the calculate command
func (c *CalculateCommand) Execute(ctx context.Context, out io.Writer) error {
	if c.config.Verbose {
		fmt.Fprintf(out, "📂 Loading %s...\n", c.config.Input.Describe())
	}

	req, err := c.config.Input.Load()
	if err != nil {
		return fmt.Errorf("error loading BOM request: %w", err)
	}

	if c.config.Samples > 0 {
		req.MonteCarloSamples = c.config.Samples
	}
	if c.config.Seed != nil {
		req.MonteCarloSeed = c.config.Seed
	}

	policy := c.policy
	if c.config.Workers > 0 {
		policy.MonteCarlo.Workers = c.config.Workers
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(out, "🧮 Calculating costs for %d root assemblies and %d suppliers...\n",
			len(req.Assemblies), len(req.Suppliers))
	}

	service := services.NewBOMService(policy, c.logger)
	started := time.Now()
	result, err := service.Calculate(ctx, req)
	if err != nil {
		var validationErr *bom_validator.ValidationError
		if errors.As(err, &validationErr) {
			printProblems(out, validationErr.Problems)
		}
		return err
	}
	elapsed := time.Since(started)

	if c.config.Verbose {
		fmt.Fprintf(out, "✅ Calculation complete in %v\n\n", elapsed)
	}

	return output.Generate(out, result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Chart:     c.config.Chart,
		Elapsed:   elapsed,
	})
}

func newCalculateCommand(app *App) *cobra.Command {
	var config CalculateConfig
	var seed int64

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate BOM costs and the requested analyses",
		Example: `  bomcost calculate --scenario ./example/scenario
  bomcost calculate --request request.yaml --format json --samples 20000 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				config.Seed = &seed
			}
			if config.Verbose {
				app.Logger.SetLevel(logrus.DebugLevel)
			}
			return NewCalculateCommand(config, app.Config.Policy, app.Logger).Execute(cmd.Context(), app.Out)
		},
	}

	addInputFlags(cmd, &config.Input)
	cmd.Flags().StringVar(&config.Format, "format", "text", "Output format: text, json, csv")
	cmd.Flags().StringVar(&config.OutputDir, "output", "", "Output directory for results (required for csv)")
	cmd.Flags().IntVar(&config.Samples, "samples", 0, "Monte Carlo samples (default from the request or policy)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Monte Carlo seed (default from the request or policy)")
	cmd.Flags().IntVar(&config.Workers, "workers", 0, "Monte Carlo workers (default from policy)")
	cmd.Flags().BoolVar(&config.Chart, "chart", false, "Also write cost_breakdown.svg to the output directory")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}
