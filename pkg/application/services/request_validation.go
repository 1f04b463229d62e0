package services

import (
	"fmt"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/domain/entities"
	"github.com/vsinha/bomcost/pkg/domain/services/bom_validator"
)

type namedValue struct {
	name  string
	value float64
}

// Validate checks the request structure and every numeric field. All
// problems are reported together in a *bom_validator.ValidationError. The
// tree is returned whenever the assembly structure itself is usable.
func (s *BOMService) Validate(req *dto.BOMRequest) (*entities.BOMTree, error) {
	if req == nil {
		return nil, bom_validator.AsError([]string{"request cannot be nil"})
	}

	tree, problems := bom_validator.ValidateTree(req.Assemblies)
	problems = append(problems, bom_validator.ValidateSuppliers(req.Suppliers)...)

	nonNegative := []namedValue{
		{"target quantity", req.TargetQuantity},
		{"production volume", req.ProductionVolume},
		{"production period", req.ProductionPeriod},
		{"assembly labor rate", req.LaborRates.Assembly},
		{"testing labor rate", req.LaborRates.Testing},
		{"packaging labor rate", req.LaborRates.Packaging},
		{"quality labor rate", req.LaborRates.Quality},
		{"manufacturing overhead rate", req.OverheadRates.Manufacturing},
		{"quality overhead rate", req.OverheadRates.Quality},
		{"logistics overhead rate", req.OverheadRates.Logistics},
		{"administration overhead rate", req.OverheadRates.Administration},
		{"inspection cost", req.QualityCosts.Inspection},
		{"testing cost", req.QualityCosts.Testing},
		{"certification cost", req.QualityCosts.Certification},
		{"warranty cost", req.QualityCosts.Warranty},
		{"inbound logistics cost", req.LogisticsCosts.Inbound},
		{"outbound logistics cost", req.LogisticsCosts.Outbound},
		{"warehousing cost", req.LogisticsCosts.Warehousing},
		{"handling cost", req.LogisticsCosts.Handling},
	}
	for _, field := range nonNegative {
		if field.value < 0 {
			problems = append(problems, fmt.Sprintf("%s cannot be negative, got %v", field.name, field.value))
		}
	}

	if req.IncludeInventoryAnalysis && req.ProductionPeriod == 0 {
		problems = append(problems, "production period must be positive when inventory analysis is requested")
	}
	if req.TargetMargin <= -100 {
		problems = append(problems, fmt.Sprintf("target margin must be greater than -100, got %v", req.TargetMargin))
	}
	if req.InflationRate != nil && *req.InflationRate <= -100 {
		problems = append(problems, fmt.Sprintf("inflation rate must be greater than -100, got %v", *req.InflationRate))
	}
	if _, err := s.policy.MonteCarlo.ResolveSamples(req.MonteCarloSamples); err != nil {
		problems = append(problems, err.Error())
	}

	return tree, bom_validator.AsError(problems)
}
