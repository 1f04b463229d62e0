package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/infrastructure/config"
	"github.com/vsinha/bomcost/pkg/infrastructure/logging"
	"github.com/vsinha/bomcost/pkg/infrastructure/repositories/csv"
)

// App carries what every subcommand needs once the root command has
// loaded configuration
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	Out    io.Writer
}

// NewRootCommand builds the bomcost command tree
func NewRootCommand() *cobra.Command {
	app := &App{}
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:           "bomcost",
		Short:         "BOM cost rollup and supply-chain risk engine",
		Long:          "Calculates multi-level BOM costs, inventory policies, supplier and risk analyses, cost optimization opportunities and Monte Carlo cost distributions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			app.Config = cfg
			app.Logger = logger
			app.Out = cmd.OutOrStdout()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from BOMCOST_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json, text (default from BOMCOST_LOG_FORMAT)")

	rootCmd.AddCommand(newCalculateCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newGenerateCommand(app))

	return rootCmd
}

// InputConfig names where a BOM request comes from: a scenario directory
// or a single YAML/JSON request document
type InputConfig struct {
	ScenarioDir string
	RequestFile string
}

// Load reads the request from whichever input is set
func (in InputConfig) Load() (*dto.BOMRequest, error) {
	loader := csv.NewLoader()
	switch {
	case in.ScenarioDir != "" && in.RequestFile != "":
		return nil, fmt.Errorf("--scenario and --request cannot be combined")
	case in.ScenarioDir != "":
		return loader.LoadScenario(in.ScenarioDir)
	case in.RequestFile != "":
		return loader.LoadRequest(in.RequestFile)
	default:
		return nil, fmt.Errorf("either --scenario or --request is required")
	}
}

// Describe returns a short label for progress output
func (in InputConfig) Describe() string {
	if in.ScenarioDir != "" {
		return "scenario " + filepath.Clean(in.ScenarioDir)
	}
	return "request " + filepath.Clean(in.RequestFile)
}

func addInputFlags(cmd *cobra.Command, in *InputConfig) {
	cmd.Flags().StringVar(&in.ScenarioDir, "scenario", "", "Path to scenario directory (assemblies.csv, items.csv, suppliers.csv, request.yaml)")
	cmd.Flags().StringVar(&in.RequestFile, "request", "", "Path to a YAML or JSON BOM request document")
	cmd.MarkFlagsMutuallyExclusive("scenario", "request")
	cmd.MarkFlagsOneRequired("scenario", "request")
}

func printProblems(out io.Writer, problems []string) {
	fmt.Fprintf(out, "❌ BOM request is invalid (%d problems):\n", len(problems))
	for _, problem := range problems {
		fmt.Fprintf(out, "  - %s\n", strings.TrimSpace(problem))
	}
}
