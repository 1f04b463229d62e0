package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/application/services/costing"
	"github.com/vsinha/bomcost/pkg/application/services/inventory"
	"github.com/vsinha/bomcost/pkg/application/services/montecarlo"
	"github.com/vsinha/bomcost/pkg/application/services/optimization"
	"github.com/vsinha/bomcost/pkg/application/services/risk"
	"github.com/vsinha/bomcost/pkg/domain/services/bom_validator"
	"github.com/vsinha/bomcost/pkg/infrastructure/events"
	"github.com/vsinha/bomcost/pkg/infrastructure/repositories/memory"
)

// BOMService runs the full cost, inventory, risk and simulation pipeline
// for one request at a time. It holds no per-request state and is safe for
// concurrent use.
type BOMService struct {
	policy    Policy
	simulator *montecarlo.Simulator
	logger    *logrus.Logger
	events    events.EventStore
	now       func() time.Time
}

// NewBOMService creates a service with the given policy. A nil logger
// discards output.
func NewBOMService(policy Policy, logger *logrus.Logger) *BOMService {
	return NewBOMServiceWithSimulator(policy, logger, montecarlo.NewSimulator(policy.MonteCarlo))
}

// NewBOMServiceWithSimulator creates a service with a custom simulator
func NewBOMServiceWithSimulator(policy Policy, logger *logrus.Logger, simulator *montecarlo.Simulator) *BOMService {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &BOMService{
		policy:    policy,
		simulator: simulator,
		logger:    logger,
		now:       time.Now,
	}
}

// WithEventStore makes the service publish calculation lifecycle events,
// one stream per run id
func (s *BOMService) WithEventStore(store events.EventStore) *BOMService {
	s.events = store
	return s
}

// Policy returns the service policy
func (s *BOMService) Policy() Policy {
	return s.policy
}

// Calculate validates the request and computes every analysis it asks for.
// Any failing step fails the whole call; the error names the step.
func (s *BOMService) Calculate(ctx context.Context, req *dto.BOMRequest) (*dto.BOMResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := s.now()
	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)

	fail := func(step string, err error) error {
		s.publish(log, events.NewCalculationFailedEvent(runID, step, err, s.now()))
		return errors.Wrap(err, step)
	}

	tree, err := s.Validate(req)
	if err != nil {
		log.WithError(err).Warn("BOM request rejected")
		var validationErr *bom_validator.ValidationError
		if errors.As(err, &validationErr) {
			s.publish(log, events.NewCalculationRejectedEvent(runID, validationErr.Problems, s.now()))
			return nil, errors.Wrap(err, "validate request")
		}
		return nil, fail("validate request", err)
	}

	suppliers, err := memory.NewSupplierRepositoryFrom(req.Suppliers)
	if err != nil {
		return nil, fail("load suppliers", err)
	}

	log.WithFields(logrus.Fields{
		"assemblies":      tree.Len(),
		"items":           tree.ItemCount(),
		"target_quantity": req.TargetQuantity,
	}).Info("starting BOM calculation")
	s.publish(log, events.NewCalculationStartedEvent(runID, events.CalculationStarted{
		Assemblies:     tree.Len(),
		Items:          tree.ItemCount(),
		TargetQuantity: req.TargetQuantity,
	}, started))

	result := &dto.BOMResult{
		RunID:             runID,
		CalculatedAt:      started.UTC(),
		InventoryAnalysis: dto.NotRequested[dto.InventoryAnalysis](),
		RiskAnalysis:      dto.NotRequested[dto.RiskAnalysis](),
		SupplierAnalysis:  dto.NotRequested[dto.SupplierAnalysis](),
		CostOptimization:  dto.NotRequested[dto.CostOptimization](),
	}

	step := s.stepTimer(log, runID)

	costs, rollups := costing.CalculateCostAnalysis(tree, req)
	result.CostAnalysis = costs
	result.AssemblyBreakdown = costing.AssemblyBreakdown(tree, rollups, costs.TotalCost.Float64())
	result.CostTrends = costing.ProjectTrends(costs.TotalCost.Float64(), req.TargetQuantity, s.inflationRate(req), s.policy.TrendYears)
	step("cost rollup")

	if req.IncludeInventoryAnalysis {
		analyzer := inventory.NewAnalyzer(s.policy.Inventory, suppliers, log)
		analysis, err := analyzer.Analyze(tree, inventory.Demand{
			ProductionVolume: req.ProductionVolume,
			ProductionPeriod: req.ProductionPeriod,
		})
		if err != nil {
			return nil, fail("inventory analysis", err)
		}
		result.InventoryAnalysis = dto.Include(analysis)
		step("inventory analysis")
	}

	if req.IncludeRiskAnalysis || req.IncludeSupplierAnalysis {
		analyzer := risk.NewAnalyzer(s.policy.Risk, suppliers, log)
		if req.IncludeRiskAnalysis {
			analysis, err := analyzer.Analyze(tree, costs)
			if err != nil {
				return nil, fail("risk analysis", err)
			}
			result.RiskAnalysis = dto.Include(analysis)
			step("risk analysis")
		}
		if req.IncludeSupplierAnalysis {
			analysis, err := analyzer.AnalyzeSuppliers(tree, req.TargetQuantity)
			if err != nil {
				return nil, fail("supplier analysis", err)
			}
			result.SupplierAnalysis = dto.Include(analysis)
			step("supplier analysis")
		}
	}

	if req.IncludeCostOptimization {
		advisor := optimization.NewAdvisor(s.policy.Optimization, suppliers)
		analysis, err := advisor.Analyze(tree, costs)
		if err != nil {
			return nil, fail("cost optimization", err)
		}
		result.CostOptimization = dto.Include(analysis)
		step("cost optimization")
	}

	seed := s.policy.MonteCarlo.Seed
	if req.MonteCarloSeed != nil {
		seed = *req.MonteCarloSeed
	}
	simulation, err := s.simulator.Run(ctx, BaselineFrom(costs), req.MonteCarloSamples, seed)
	if err != nil {
		return nil, fail("monte carlo simulation", err)
	}
	result.MonteCarloResults = simulation
	step("monte carlo simulation")

	result.ProductSummary = buildProductSummary(req, tree)
	result.Summary = s.buildSummary(result)

	duration := s.now().Sub(started)
	log.WithFields(logrus.Fields{
		"total_cost": costs.TotalCost.StringFixed(2),
		"duration":   duration.String(),
	}).Info("BOM calculation finished")
	s.publish(log, events.NewCalculationFinishedEvent(runID, events.CalculationFinished{
		TotalCost:   costs.TotalCost.Float64(),
		CostPerUnit: costs.CostPerUnit.Float64(),
		Duration:    duration,
	}, s.now()))

	return result, nil
}

// BaselineFrom splits a cost analysis into the components the simulator perturbs
func BaselineFrom(costs dto.CostAnalysis) montecarlo.Baseline {
	return montecarlo.Baseline{
		Material: costs.MaterialCost.Float64(),
		Labor:    costs.LaborCost.Float64(),
		Overhead: costs.OverheadCost.Float64(),
		Fixed: costs.ToolingCost.Float64() +
			costs.EquipmentCost.Float64() +
			costs.QualityCost.Float64() +
			costs.LogisticsCost.Float64() +
			costs.AdministrationCost.Float64(),
	}
}

func (s *BOMService) inflationRate(req *dto.BOMRequest) float64 {
	if req.InflationRate != nil {
		return *req.InflationRate
	}
	return s.policy.DefaultInflationRate
}

// stepTimer logs the time spent since the previous step at debug level
// and publishes it as a step event
func (s *BOMService) stepTimer(log logrus.FieldLogger, runID string) func(name string) {
	last := s.now()
	return func(name string) {
		now := s.now()
		log.WithFields(logrus.Fields{
			"step":     name,
			"duration": now.Sub(last).String(),
		}).Debug("step complete")
		s.publish(log, events.NewStepCompletedEvent(runID, name, now.Sub(last), now))
		last = now
	}
}

// publish appends to the event store when one is configured. A failed
// append is logged and never fails the calculation.
func (s *BOMService) publish(log logrus.FieldLogger, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(event.StreamID(), event); err != nil {
		log.WithError(err).WithField("event_type", event.Type()).Warn("failed to publish event")
	}
}
