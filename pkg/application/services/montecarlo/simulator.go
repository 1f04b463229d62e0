package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bomcost/pkg/application/dto"
)

// ErrSampleCount is returned for a sample count outside the allowed range
var ErrSampleCount = errors.New("monte carlo sample count out of range")

// cancelCheckInterval is how many trials run between context checks
const cancelCheckInterval = 1024

// RandomSource yields uniform values in [0, 1)
type RandomSource interface {
	Float64() float64
}

// SourceFactory creates the random source for one worker
type SourceFactory func(seed int64) RandomSource

// MathRandSource is the default factory backed by math/rand
func MathRandSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// Range is a closed multiplier interval
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Draw maps a uniform [0, 1) value into the range
func (r Range) Draw(source RandomSource) float64 {
	return r.Min + source.Float64()*(r.Max-r.Min)
}

// Config holds the simulation defaults and perturbation ranges
type Config struct {
	DefaultSamples int   `yaml:"defaultSamples"`
	MinSamples     int   `yaml:"minSamples"`
	MaxSamples     int   `yaml:"maxSamples"`
	Seed           int64 `yaml:"seed"`
	Workers        int   `yaml:"workers"`

	Material Range `yaml:"material"`
	Labor    Range `yaml:"labor"`
	Overhead Range `yaml:"overhead"`
}

// DefaultConfig returns the reference simulation settings
func DefaultConfig() Config {
	return Config{
		DefaultSamples: 10000,
		MinSamples:     1000,
		MaxSamples:     100000,
		Seed:           42,
		Workers:        1,
		Material:       Range{Min: 0.8, Max: 1.2},
		Labor:          Range{Min: 0.9, Max: 1.1},
		Overhead:       Range{Min: 0.85, Max: 1.15},
	}
}

// ResolveSamples applies the default for 0 and rejects counts outside the range
func (c Config) ResolveSamples(requested int) (int, error) {
	if requested == 0 {
		return c.DefaultSamples, nil
	}
	if requested < c.MinSamples || requested > c.MaxSamples {
		return 0, fmt.Errorf("%w: %d not in %d..%d", ErrSampleCount, requested, c.MinSamples, c.MaxSamples)
	}
	return requested, nil
}

// Baseline is the cost split the simulator perturbs. Fixed covers every
// component left untouched (tooling, equipment, quality, logistics,
// administration).
type Baseline struct {
	Material float64
	Labor    float64
	Overhead float64
	Fixed    float64
}

// Total is the unperturbed total cost
func (b Baseline) Total() float64 {
	return b.Material + b.Labor + b.Overhead + b.Fixed
}

// Simulator runs Monte Carlo trials over a cost baseline
type Simulator struct {
	config    Config
	newSource SourceFactory
}

// NewSimulator creates a simulator backed by math/rand
func NewSimulator(config Config) *Simulator {
	return NewSimulatorWithSource(config, MathRandSource)
}

// NewSimulatorWithSource creates a simulator with a custom random source
func NewSimulatorWithSource(config Config, factory SourceFactory) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Simulator{
		config:    config,
		newSource: factory,
	}
}

// Config returns the simulator settings
func (s *Simulator) Config() Config {
	return s.config
}

// Run draws samples trials. Each trial draws the material, labor and
// overhead multipliers in that order. Trials are split into contiguous
// chunks, one per worker, and worker w seeds its source with seed+w, so a
// given (seed, workers) pair always reproduces the same distribution.
// Statistics are computed only after every worker has finished.
func (s *Simulator) Run(ctx context.Context, baseline Baseline, samples int, seed int64) (dto.MonteCarloResult, error) {
	samples, err := s.config.ResolveSamples(samples)
	if err != nil {
		return dto.MonteCarloResult{}, err
	}

	workers := s.config.Workers
	if workers > samples {
		workers = samples
	}

	totals := make([]float64, samples)
	chunk := (samples + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, samples)
		if start >= end {
			break
		}
		source := s.newSource(seed + int64(w))
		g.Go(func() error {
			return s.runTrials(ctx, baseline, source, totals[start:end])
		})
	}
	if err := g.Wait(); err != nil {
		return dto.MonteCarloResult{}, err
	}

	result := Summarize(totals)
	result.Workers = workers
	result.Seed = seed
	result.Baseline = dto.Amount(baseline.Total())
	return result, nil
}

func (s *Simulator) runTrials(ctx context.Context, baseline Baseline, source RandomSource, out []float64) error {
	for i := range out {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		material := s.config.Material.Draw(source)
		labor := s.config.Labor.Draw(source)
		overhead := s.config.Overhead.Draw(source)
		out[i] = baseline.Material*material + baseline.Labor*labor + baseline.Overhead*overhead + baseline.Fixed
	}
	return nil
}

// Summarize sorts totals in place and reports nearest-rank percentiles,
// mean and population standard deviation
func Summarize(totals []float64) dto.MonteCarloResult {
	n := len(totals)
	if n == 0 {
		return dto.MonteCarloResult{}
	}
	sort.Float64s(totals)

	sum := 0.0
	for _, v := range totals {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range totals {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return dto.MonteCarloResult{
		Samples:           n,
		Mean:              dto.Amount(mean),
		StandardDeviation: dto.Amount(math.Sqrt(variance)),
		Min:               dto.Amount(totals[0]),
		Max:               dto.Amount(totals[n-1]),
		P10:               dto.Amount(Percentile(totals, 0.10)),
		P25:               dto.Amount(Percentile(totals, 0.25)),
		P50:               dto.Amount(Percentile(totals, 0.50)),
		P75:               dto.Amount(Percentile(totals, 0.75)),
		P90:               dto.Amount(Percentile(totals, 0.90)),
	}
}

// Percentile is sorted[floor(p*n)] clamped to the last index
func Percentile(sorted []float64, p float64) float64 {
	index := int(math.Floor(p * float64(len(sorted))))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}
	return sorted[index]
}
