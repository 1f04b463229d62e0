package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/bomcost/pkg/application/services"
	"github.com/vsinha/bomcost/pkg/domain/services/bom_validator"
)

// ValidateCommand checks a request without calculating anything
type ValidateCommand struct {
	input  InputConfig
	policy services.Policy
}

// NewValidateCommand creates a validate command
func NewValidateCommand(input InputConfig, policy services.Policy) *ValidateCommand {
	return &ValidateCommand{input: input, policy: policy}
}

// Execute loads and validates the request. Problems are printed and
// returned as the error.
func (c *ValidateCommand) Execute(out io.Writer) error {
	req, err := c.input.Load()
	if err != nil {
		return fmt.Errorf("error loading BOM request: %w", err)
	}

	service := services.NewBOMService(c.policy, nil)
	tree, err := service.Validate(req)
	if err != nil {
		var validationErr *bom_validator.ValidationError
		if errors.As(err, &validationErr) {
			printProblems(out, validationErr.Problems)
		}
		return err
	}

	fmt.Fprintf(out, "✅ BOM request is valid\n")
	fmt.Fprintf(out, "  Assemblies: %d\n", tree.Len())
	fmt.Fprintf(out, "  Items: %d\n", tree.ItemCount())
	fmt.Fprintf(out, "  Max Depth: %d\n", tree.MaxDepth())
	fmt.Fprintf(out, "  Suppliers: %d\n", len(req.Suppliers))
	return nil
}

func newValidateCommand(app *App) *cobra.Command {
	var input InputConfig

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a BOM request without calculating",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewValidateCommand(input, app.Config.Policy).Execute(app.Out)
		},
	}
	addInputFlags(cmd, &input)
	return cmd
}
